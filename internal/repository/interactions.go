package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devflow/backend/internal/models"
)

// InteractionRepository appends to the audit ledger. Records are never
// mutated or deleted through this type; cascade deletes on questions
// and answers happen in their owning repositories.
type InteractionRepository struct {
	col *mongo.Collection
	log zerolog.Logger
}

// Record appends one interaction.
func (r *InteractionRepository) Record(ctx context.Context, in models.Interaction) error {
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, in)
	return err
}

// TagCount ranks a tag by how often a user's actions touched it.
type TagCount struct {
	TagID primitive.ObjectID `bson:"_id"`
	Count int                `bson:"count"`
}

// TopTags groups the user's interactions by tag and returns the most
// frequent ones, highest count first.
func (r *InteractionRepository) TopTags(ctx context.Context, userID primitive.ObjectID, limit int) ([]TagCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID, "tags.0": bson.M{"$exists": true}}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var counts []TagCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
