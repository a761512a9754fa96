package seed

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection adapts a driver collection.
type MongoCollection struct {
	coll *mongo.Collection
}

func NewMongoCollection(coll *mongo.Collection) *MongoCollection {
	return &MongoCollection{coll: coll}
}

// DeleteAll removes every document. Indexes are kept.
func (m *MongoCollection) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// InsertMany inserts unordered so one bad document does not stop the rest.
func (m *MongoCollection) InsertMany(ctx context.Context, docs []bson.D) (int, error) {
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = d
	}

	res, err := m.coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}

// Connect opens a client and checks the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// DatabaseCollections resolves collection names against db.
func DatabaseCollections(db *mongo.Database) func(name string) Collection {
	return func(name string) Collection {
		return NewMongoCollection(db.Collection(name))
	}
}
