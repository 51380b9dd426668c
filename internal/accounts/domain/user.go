package domain

import (
	"errors"
	"strings"
	"time"
)

// User is a storefront account. The password is stored only as a bcrypt hash.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	PasswordHash    []byte    `json:"-"`
	ShippingAddress string    `json:"shipping_address"`
	ShippingCity    string    `json:"shipping_city"`
	ShippingState   string    `json:"shipping_state"`
	ShippingZip     string    `json:"shipping_zip"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate ensures the account adheres to signup constraints.
func (u User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("email must be valid")
	}
	if len(u.PasswordHash) == 0 {
		return errors.New("password is required")
	}
	return nil
}
