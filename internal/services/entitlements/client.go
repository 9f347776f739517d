// Package entitlements provides the entitlements service client used to
// resolve a bearer token into a user identity and subscription state.
package entitlements

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Identity is the resolved caller: who they are and whether their plan grants
// access to the simulator.
type Identity struct {
	UserID     string `json:"user_id"`
	Subscribed bool   `json:"subscribed"`
	Plan       string `json:"plan"`
}

// Client defines the interface for the entitlements service client.
type Client interface {
	// Verify resolves a bearer token into an identity. An invalid or expired
	// token returns ErrInvalidToken.
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ErrInvalidToken is returned when the entitlements service rejects the token.
var ErrInvalidToken = fmt.Errorf("invalid or expired token")

// client implements the Client interface.
type client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// ClientConfig holds the configuration for the entitlements client.
type ClientConfig struct {
	// BaseURL is the URL of the entitlements service.
	BaseURL string
	// ServiceKey authenticates this service to the entitlements service.
	ServiceKey string
	// Timeout bounds each verification call.
	Timeout time.Duration
}

// NewClient creates a new entitlements service client.
func NewClient(cfg *ClientConfig) (Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("entitlements base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &client{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Verify calls the entitlements service's token introspection endpoint.
func (c *client) Verify(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/entitlements/verify", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.serviceKey != "" {
		req.Header.Set("X-Service-Key", c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entitlements request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("entitlements service returned %d: %s", resp.StatusCode, string(body))
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to parse entitlements response: %w", err)
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("entitlements response missing user id")
	}

	return &identity, nil
}
