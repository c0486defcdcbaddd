// Package gitcommits stores per-commit word counts and serves them to API
// key holders.
package gitcommits

import (
	"context"
	"fmt"

	"wordmeter/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the MongoDB-backed record store.
type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes makes (timestamp, sha) unique so repeated deliveries of the
// same push overwrite instead of duplicating.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}, {Key: "sha", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return err
}

// Put writes the record keyed by (timestamp, sha), replacing an existing one.
func (s *Store) Put(ctx context.Context, record models.CommitRecord) error {
	filter := bson.M{
		"timestamp": record.Timestamp,
		"sha":       record.SHA,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("put commit %s: %w", record.SHA, err)
	}

	return nil
}

// Scan returns stored records in natural order. A limit of zero or less
// means no bound.
func (s *Store) Scan(ctx context.Context, limit int) ([]models.CommitRecord, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("scan commits: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.CommitRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode commits: %w", err)
	}

	return records, nil
}
