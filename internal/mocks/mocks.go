// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/oscesim/consult-service/internal/core/docdb"
	"github.com/oscesim/consult-service/internal/core/llm"
	"github.com/oscesim/consult-service/internal/domain/models"
	"github.com/oscesim/consult-service/internal/services/consultation"
	"github.com/oscesim/consult-service/internal/services/entitlements"
)

// MockLLMClient is a mock implementation of llm.Client.
type MockLLMClient struct {
	mock.Mock
}

// Complete generates a completion for the transcript.
func (m *MockLLMClient) Complete(ctx context.Context, transcript models.Transcript) (*llm.Completion, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Completion), args.Error(1)
}

// MockSessionStore is a mock implementation of session.Store.
type MockSessionStore struct {
	mock.Mock
}

// Get retrieves the user's session.
func (m *MockSessionStore) Get(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsultationSession), args.Error(1)
}

// Save stores the session.
func (m *MockSessionStore) Save(ctx context.Context, session *models.ConsultationSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// Delete removes the user's session.
func (m *MockSessionStore) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// BuildCacheKey generates the cache key for a user's session.
func (m *MockSessionStore) BuildCacheKey(userID string) string {
	args := m.Called(userID)
	return args.String(0)
}

// MockCacheClient is a mock implementation of cache.Client.
type MockCacheClient struct {
	mock.Mock
}

// Get retrieves a value from the cache.
func (m *MockCacheClient) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Set stores a value in the cache.
func (m *MockCacheClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes a value from the cache.
func (m *MockCacheClient) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// Ping verifies the cache connection.
func (m *MockCacheClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the cache connection.
func (m *MockCacheClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockEncountersCollection is a mock implementation of docdb.EncountersCollection.
type MockEncountersCollection struct {
	mock.Mock
}

// Insert archives a completed encounter.
func (m *MockEncountersCollection) Insert(ctx context.Context, encounter *models.Encounter) error {
	args := m.Called(ctx, encounter)
	return args.Error(0)
}

// Get retrieves an encounter by ID scoped to its owner.
func (m *MockEncountersCollection) Get(ctx context.Context, userID, id string) (*models.Encounter, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Encounter), args.Error(1)
}

// List returns the user's encounters.
func (m *MockEncountersCollection) List(ctx context.Context, opts *docdb.ListEncountersOptions) ([]*models.Encounter, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Encounter), args.Error(1)
}

// Count returns how many encounters the user has archived.
func (m *MockEncountersCollection) Count(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// EnsureIndexes creates the collection's indexes.
func (m *MockEncountersCollection) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEntitlementsClient is a mock implementation of entitlements.Client.
type MockEntitlementsClient struct {
	mock.Mock
}

// Verify resolves a bearer token into an identity.
func (m *MockEntitlementsClient) Verify(ctx context.Context, token string) (*entitlements.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlements.Identity), args.Error(1)
}

// MockConsultationService is a mock implementation of consultation.Service.
type MockConsultationService struct {
	mock.Mock
}

// Start begins a new encounter.
func (m *MockConsultationService) Start(ctx context.Context, userID string, cfg models.ScenarioConfig) (*models.ConsultationSession, error) {
	args := m.Called(ctx, userID, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsultationSession), args.Error(1)
}

// Current returns the user's in-progress session.
func (m *MockConsultationService) Current(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsultationSession), args.Error(1)
}

// PostMessage appends a user message.
func (m *MockConsultationService) PostMessage(ctx context.Context, userID, text string) (*consultation.PostMessageResult, error) {
	args := m.Called(ctx, userID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consultation.PostMessageResult), args.Error(1)
}

// RequestReply generates the patient's next message.
func (m *MockConsultationService) RequestReply(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// RequestHint generates a suggested next question.
func (m *MockConsultationService) RequestHint(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// RequestExam generates a physical examination readout.
func (m *MockConsultationService) RequestExam(ctx context.Context, userID, complaint string) (string, error) {
	args := m.Called(ctx, userID, complaint)
	return args.String(0), args.Error(1)
}

// RequestFeedback generates the rubric-scored evaluation.
func (m *MockConsultationService) RequestFeedback(ctx context.Context, userID string) (*models.Feedback, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

// Clear discards the derived artifacts and re-seeds the scenario.
func (m *MockConsultationService) Clear(ctx context.Context, userID string) (*models.ConsultationSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsultationSession), args.Error(1)
}
