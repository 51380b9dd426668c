package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/montluxe/storefront/internal/accounts/domain"
	"github.com/montluxe/storefront/internal/accounts/ports"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match a stored account. Lookups and comparison failures are deliberately
// indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 6

// Service bundles account use cases: signup, login, password update, deletion.
type Service struct {
	repo ports.UserRepository
}

// NewService wires required dependencies.
func NewService(repo ports.UserRepository) *Service {
	return &Service{repo: repo}
}

// SignupInput captures the payload for creating an account.
type SignupInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
}

// Signup creates a new account with a hashed password.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:              uuid.NewString(),
		Username:        input.Username,
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		PasswordHash:    hash,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZip:     input.ShippingZip,
		CreatedAt:       time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Login checks a username/password pair and returns the account on success.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword re-authenticates and replaces the stored hash.
func (s *Service) UpdatePassword(ctx context.Context, username, password, newPassword string) error {
	if _, err := s.authenticate(ctx, username, password); err != nil {
		return err
	}

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePasswordHash(ctx, username, hash)
}

// Delete re-authenticates and removes the account.
func (s *Service) Delete(ctx context.Context, username, password string) error {
	if _, err := s.authenticate(ctx, username, password); err != nil {
		return err
	}
	return s.repo.Delete(ctx, username)
}

func (s *Service) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
