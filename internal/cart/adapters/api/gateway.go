// Package api is the HTTP client side of the checkout contract: it submits
// the order payload to the storefront backend and decodes its structured
// answer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montluxe/storefront/internal/cart/domain"
)

// StatusError reports a non-2xx answer from the backend. To the cart this is
// a transport failure: the submission may be retried as-is.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("checkout returned status %d", e.StatusCode)
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) { g.client = client }
}

// Gateway submits checkout requests to the backend API. The Idempotency-Key
// header is taken from the request, so a retry of the same submission replays
// the committed outcome on the backend instead of placing a second order. A
// request without a key gets a one-shot key.
type Gateway struct {
	baseURL string
	client  *http.Client
	newKey  func() string
}

// NewGateway creates a Gateway for the API at baseURL.
func NewGateway(baseURL string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		newKey:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PlaceOrder submits the order payload once and decodes the outcome.
func (g *Gateway) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.CheckoutResponse{}, fmt.Errorf("encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout", bytes.NewReader(body))
	if err != nil {
		return domain.CheckoutResponse{}, fmt.Errorf("build checkout request: %w", err)
	}
	key := req.IdempotencyKey
	if key == "" {
		key = g.newKey()
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", key)

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.CheckoutResponse{}, fmt.Errorf("send checkout request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return domain.CheckoutResponse{}, &StatusError{StatusCode: httpResp.StatusCode}
	}

	var resp domain.CheckoutResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return domain.CheckoutResponse{}, fmt.Errorf("decode checkout response: %w", err)
	}

	return resp, nil
}
