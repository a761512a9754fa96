// Package seed replaces the contents of document collections with JSON
// fixtures.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"

	"agri_advisor/internal/content"
)

// Collection is the part of a document collection the seeder needs.
type Collection interface {
	DeleteAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, docs []bson.D) (int, error)
}

// Result reports what a replacement did.
type Result struct {
	Collection string
	Deleted    int64
	Inserted   int
}

// LoadFixture parses a fixture. It accepts a bare array or any wrapped list
// shape and understands extended JSON values such as {"$date": ...}. Every
// element must be an object. Its _id is dropped so the store assigns a new
// one.
func LoadFixture(data []byte) ([]bson.D, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	parsed := content.Classify(payload)
	if parsed.Shape == content.ShapeUnrecognized {
		return nil, errors.New("fixture is not a list of documents")
	}

	docs := make([]bson.D, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("fixture element %d is not an object", i)
		}
		delete(obj, "_id")

		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encode element %d: %w", i, err)
		}

		var doc bson.D
		if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
			return nil, fmt.Errorf("convert element %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Replace deletes every document of coll, then inserts docs. An empty docs
// leaves the collection empty.
func Replace(ctx context.Context, coll Collection, docs []bson.D) (*Result, error) {
	deleted, err := coll.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear collection: %w", err)
	}

	result := &Result{Deleted: deleted}
	if len(docs) == 0 {
		return result, nil
	}

	inserted, err := coll.InsertMany(ctx, docs)
	result.Inserted = inserted
	if err != nil {
		return result, fmt.Errorf("insert documents: %w", err)
	}
	return result, nil
}

// Seeder replaces named collections of one database.
type Seeder struct {
	collection func(name string) Collection
	logger     *slog.Logger
}

func NewSeeder(collection func(name string) Collection, logger *slog.Logger) *Seeder {
	return &Seeder{
		collection: collection,
		logger:     logger.With("component", "seed"),
	}
}

// SeedFile replaces the named collection with the documents of a fixture file.
func (s *Seeder) SeedFile(ctx context.Context, name, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return s.Seed(ctx, name, data)
}

func (s *Seeder) Seed(ctx context.Context, name string, fixture []byte) (*Result, error) {
	docs, err := LoadFixture(fixture)
	if err != nil {
		return nil, err
	}

	result, err := Replace(ctx, s.collection(name), docs)
	if result != nil {
		result.Collection = name
	}
	if err != nil {
		return result, fmt.Errorf("seed %s: %w", name, err)
	}

	s.logger.Info("collection seeded",
		"collection", name,
		"deleted", result.Deleted,
		"inserted", result.Inserted,
	)
	return result, nil
}
