// Package client is the HTTP consumer of the accounts API, used by the
// storefront CLI for signup, login and account maintenance.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/montluxe/storefront/internal/accounts/app"
)

// Client talks to the accounts endpoints of the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an accounts Client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, input app.SignupInput) error {
	return c.do(ctx, http.MethodPost, "/v1/users", input)
}

// Login verifies credentials against the API.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/v1/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// UpdatePassword replaces the account password after verifying the old one.
func (c *Client) UpdatePassword(ctx context.Context, username, password, newPassword string) error {
	return c.do(ctx, http.MethodPatch, "/v1/users", map[string]string{
		"username":     username,
		"password":     password,
		"new_password": newPassword,
	})
}

// Delete removes the account.
func (c *Client) Delete(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodDelete, "/v1/users", map[string]string{
		"username": username,
		"password": password,
	})
}

func (c *Client) do(ctx context.Context, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("%s", apiErr.Error)
	}
	return fmt.Errorf("accounts API returned status %d", resp.StatusCode)
}
