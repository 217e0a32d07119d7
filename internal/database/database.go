// Package database owns the MongoDB connection lifecycle. The handle
// it returns is passed explicitly to the repositories; there is no
// package-level client.
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devflow/backend/internal/config"
	"devflow/backend/internal/errs"
)

// Collection names. Fixed; every repository addresses them through
// the Store accessors below.
const (
	usersCollection        = "users"
	questionsCollection    = "questions"
	answersCollection      = "answers"
	tagsCollection         = "tags"
	interactionsCollection = "interactions"
)

// Store is a connected handle on the application database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, verifies the primary is reachable and
// returns the handle. Connection failures are returned to the caller
// rather than swallowed.
func Connect(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.MongoURI == "" {
		return nil, errs.MissingConfig("MONGODB_URL")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	// Ping the primary
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.DBName)}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *mongo.Collection        { return s.db.Collection(usersCollection) }
func (s *Store) Questions() *mongo.Collection    { return s.db.Collection(questionsCollection) }
func (s *Store) Answers() *mongo.Collection      { return s.db.Collection(answersCollection) }
func (s *Store) Tags() *mongo.Collection         { return s.db.Collection(tagsCollection) }
func (s *Store) Interactions() *mongo.Collection { return s.db.Collection(interactionsCollection) }
