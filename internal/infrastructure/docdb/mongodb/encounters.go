package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oscesim/consult-service/internal/core/docdb"
	"github.com/oscesim/consult-service/internal/domain/models"
)

// EncountersCollectionName is the name of the encounters collection.
const EncountersCollectionName = "encounters"

// EncountersCollection implements docdb.EncountersCollection for MongoDB.
type EncountersCollection struct {
	collection *mongo.Collection
}

// NewEncountersCollection creates a new encounters collection wrapper.
func NewEncountersCollection(db *mongo.Database) *EncountersCollection {
	return &EncountersCollection{
		collection: db.Collection(EncountersCollectionName),
	}
}

// Insert archives a completed encounter.
func (c *EncountersCollection) Insert(ctx context.Context, encounter *models.Encounter) error {
	if encounter.ID == "" {
		return fmt.Errorf("encounter ID is required")
	}
	if encounter.CreatedAt.IsZero() {
		encounter.CreatedAt = time.Now().UTC()
	}

	if _, err := c.collection.InsertOne(ctx, encounter); err != nil {
		return fmt.Errorf("failed to insert encounter: %w", err)
	}
	return nil
}

// Get retrieves an encounter by ID scoped to its owner.
func (c *EncountersCollection) Get(ctx context.Context, userID, id string) (*models.Encounter, error) {
	var encounter models.Encounter
	err := c.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&encounter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}
	return &encounter, nil
}

// List returns the user's encounters, newest first.
func (c *EncountersCollection) List(ctx context.Context, opts *docdb.ListEncountersOptions) ([]*models.Encounter, error) {
	if opts == nil || opts.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	findOpts := options.Find().SetSort(bson.M{"createdAt": -1})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	cursor, err := c.collection.Find(ctx, bson.M{"userId": opts.UserID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list encounters: %w", err)
	}
	defer cursor.Close(ctx)

	var encounters []*models.Encounter
	if err := cursor.All(ctx, &encounters); err != nil {
		return nil, fmt.Errorf("failed to decode encounters: %w", err)
	}
	return encounters, nil
}

// Count returns how many encounters the user has archived.
func (c *EncountersCollection) Count(ctx context.Context, userID string) (int64, error) {
	count, err := c.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count encounters: %w", err)
	}
	return count, nil
}

// EnsureIndexes creates the collection's indexes.
func (c *EncountersCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create encounter indexes: %w", err)
	}
	return nil
}
