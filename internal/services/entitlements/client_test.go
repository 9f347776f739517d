package entitlements_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/services/entitlements"
)

func newServer(t *testing.T, handler http.HandlerFunc) entitlements.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := entitlements.NewClient(&entitlements.ClientConfig{
		BaseURL:    srv.URL,
		ServiceKey: "service-key",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	client, err := entitlements.NewClient(&entitlements.ClientConfig{})

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestVerify_Success(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/entitlements/verify", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("X-Service-Key"))

		_ = json.NewEncoder(w).Encode(entitlements.Identity{
			UserID:     "user-1",
			Subscribed: true,
			Plan:       "professional",
		})
	})

	identity, err := client.Verify(context.Background(), "token-123")

	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.True(t, identity.Subscribed)
	assert.Equal(t, "professional", identity.Plan)
}

func TestVerify_InvalidToken(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Verify(context.Background(), "bad-token")

	assert.ErrorIs(t, err, entitlements.ErrInvalidToken)
}

func TestVerify_UnsubscribedStillResolves(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entitlements.Identity{
			UserID:     "user-2",
			Subscribed: false,
		})
	})

	identity, err := client.Verify(context.Background(), "token")

	require.NoError(t, err)
	assert.False(t, identity.Subscribed)
}

func TestVerify_ServerError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Verify(context.Background(), "token")

	require.Error(t, err)
	assert.NotErrorIs(t, err, entitlements.ErrInvalidToken)
	assert.Contains(t, err.Error(), "500")
}

func TestVerify_MissingUserID(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entitlements.Identity{Subscribed: true})
	})

	_, err := client.Verify(context.Background(), "token")

	assert.Error(t, err)
}
