// Package session provides the server-side store for consultation sessions.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oscesim/consult-service/internal/core/cache"
	"github.com/oscesim/consult-service/internal/domain/models"
	"github.com/oscesim/consult-service/internal/pkg/encryption"
)

// DefaultSessionTTL is the default lifetime of an idle consultation session.
const DefaultSessionTTL = 2 * time.Hour

// Store persists one ConsultationSession per user. Controller operations load
// at their start and save at their end; concurrent writers are last-write-wins.
type Store interface {
	// Get retrieves the user's session, or nil if none exists.
	Get(ctx context.Context, userID string) (*models.ConsultationSession, error)

	// Save stores the session under its owner with the configured TTL.
	Save(ctx context.Context, session *models.ConsultationSession) error

	// Delete removes the user's session.
	Delete(ctx context.Context, userID string) error

	// BuildCacheKey generates the cache key for a user's session.
	BuildCacheKey(userID string) string
}

// store implements the Store interface over the cache client.
type store struct {
	cacheClient cache.Client
	encryptor   encryption.Encryptor
	ttl         time.Duration
}

// Config holds the configuration for the session store.
type Config struct {
	CacheClient cache.Client
	Encryptor   encryption.Encryptor
	TTL         time.Duration
}

// NewStore creates a new session store.
func NewStore(cfg *Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &store{
		cacheClient: cfg.CacheClient,
		encryptor:   cfg.Encryptor,
		ttl:         ttl,
	}, nil
}

// Get retrieves the user's session. Returns nil (not an error) when the
// cached value cannot be decrypted or decoded (e.g. key changed): the stale
// entry is dropped and the caller sees no session.
func (s *store) Get(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	key := s.BuildCacheKey(userID)

	encrypted, err := s.cacheClient.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}
	if encrypted == nil {
		return nil, nil // Not found
	}

	decrypted, err := s.encryptor.Decrypt(string(encrypted))
	if err != nil {
		_, _ = s.cacheClient.Delete(ctx, key)
		return nil, nil
	}

	var session models.ConsultationSession
	if err := json.Unmarshal(decrypted, &session); err != nil {
		_, _ = s.cacheClient.Delete(ctx, key)
		return nil, nil
	}

	return &session, nil
}

// Save stores the session in the cache.
func (s *store) Save(ctx context.Context, session *models.ConsultationSession) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	if session.UserID == "" {
		return fmt.Errorf("session owner is required")
	}

	session.UpdatedAt = time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	encrypted, err := s.encryptor.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	key := s.BuildCacheKey(session.UserID)
	if err := s.cacheClient.Set(ctx, key, []byte(encrypted), s.ttl); err != nil {
		return fmt.Errorf("failed to store session in cache: %w", err)
	}

	return nil
}

// Delete removes the user's session from the cache.
func (s *store) Delete(ctx context.Context, userID string) error {
	key := s.BuildCacheKey(userID)
	if _, err := s.cacheClient.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// BuildCacheKey generates the cache key for a user's session.
func (s *store) BuildCacheKey(userID string) string {
	return fmt.Sprintf("consult:%s", userID)
}
