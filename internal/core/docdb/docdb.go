// Package docdb defines the document database client interface for the
// encounter archive.
package docdb

import (
	"context"

	"github.com/oscesim/consult-service/internal/domain/models"
)

// Type represents the type of document database.
type Type string

const (
	// TypeMongoDB represents a MongoDB database.
	TypeMongoDB Type = "mongodb"
	// TypeCosmosDB speaks the MongoDB wire protocol, so it shares the client.
	TypeCosmosDB Type = "cosmosdb"
)

// ListEncountersOptions controls pagination for encounter listing. Results
// are always sorted newest first.
type ListEncountersOptions struct {
	UserID string
	Limit  int64
	Skip   int64
}

// EncountersCollection defines the operations on archived encounters.
type EncountersCollection interface {
	// Insert archives a completed encounter. The encounter ID is required.
	Insert(ctx context.Context, encounter *models.Encounter) error

	// Get retrieves an encounter by ID scoped to its owner. Returns nil, nil
	// when no matching encounter exists.
	Get(ctx context.Context, userID, id string) (*models.Encounter, error)

	// List returns the user's encounters, newest first.
	List(ctx context.Context, opts *ListEncountersOptions) ([]*models.Encounter, error)

	// Count returns how many encounters the user has archived.
	Count(ctx context.Context, userID string) (int64, error)

	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}

// Client defines the interface for a document database client.
type Client interface {
	// Encounters returns the encounters collection.
	Encounters() EncountersCollection

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error

	// EnsureIndexes creates all necessary indexes for all collections.
	EnsureIndexes(ctx context.Context) error
}
