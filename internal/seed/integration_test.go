//go:build integration

package seed

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *mongodb.MongoDBContainer
	client    *mongo.Client
	db        *mongo.Database
	logger    *slog.Logger
}

func (s *MongoIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := mongodb.Run(s.ctx, "mongo:7")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	client, err := Connect(ctx, uri)
	s.Require().NoError(err)
	s.client = client
	s.db = client.Database("agri_test")
}

func (s *MongoIntegrationSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestMongoIntegrationSuite(t *testing.T) {
	suite.Run(t, new(MongoIntegrationSuite))
}

func (s *MongoIntegrationSuite) TestSeed_ReplacesContents() {
	seeder := NewSeeder(DatabaseCollections(s.db), s.logger)
	coll := s.db.Collection("articles")

	_, err := coll.InsertOne(s.ctx, bson.D{{Key: "title", Value: "stale"}})
	s.Require().NoError(err)

	res, err := seeder.Seed(s.ctx, "articles", []byte(`[
		{"_id": {"$oid": "65f1c0a1b2c3d4e5f6a7b8c9"}, "title": "Soil testing"},
		{"title": "Crop rotation", "createdAt": {"$date": "2024-03-15T10:30:00Z"}}
	]`))
	s.Require().NoError(err)
	s.Equal(int64(1), res.Deleted)
	s.Equal(2, res.Inserted)

	count, err := coll.CountDocuments(s.ctx, bson.D{})
	s.NoError(err)
	s.Equal(int64(2), count)

	stale, err := coll.CountDocuments(s.ctx, bson.D{{Key: "title", Value: "stale"}})
	s.NoError(err)
	s.Zero(stale)

	var doc bson.M
	err = coll.FindOne(s.ctx, bson.D{{Key: "title", Value: "Soil testing"}}).Decode(&doc)
	s.NoError(err)
	id, ok := doc["_id"].(bson.ObjectID)
	s.True(ok)
	s.NotEqual("65f1c0a1b2c3d4e5f6a7b8c9", id.Hex())
}

func (s *MongoIntegrationSuite) TestSeed_EmptyFixtureKeepsIndexes() {
	seeder := NewSeeder(DatabaseCollections(s.db), s.logger)
	coll := s.db.Collection("techniques")

	_, err := coll.Indexes().CreateOne(s.ctx, mongo.IndexModel{Keys: bson.D{{Key: "title", Value: 1}}})
	s.Require().NoError(err)
	_, err = coll.InsertOne(s.ctx, bson.D{{Key: "title", Value: "old"}})
	s.Require().NoError(err)

	res, err := seeder.Seed(s.ctx, "techniques", []byte(`[]`))
	s.Require().NoError(err)
	s.Equal(0, res.Inserted)

	count, err := coll.CountDocuments(s.ctx, bson.D{})
	s.NoError(err)
	s.Zero(count)

	specs, err := coll.Indexes().ListSpecifications(s.ctx)
	s.NoError(err)
	s.Len(specs, 2)
}
