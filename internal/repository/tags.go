package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devflow/backend/internal/database"
	"devflow/backend/internal/errs"
	"devflow/backend/internal/models"
)

const popularTagLimit = 5
const topInteractedLimit = 3

// TagRepository reads the tags collection. Tags are written only as a
// side effect of asking questions; nothing here mutates them.
type TagRepository struct {
	store        *database.Store
	interactions *InteractionRepository
	log          zerolog.Logger
}

// TagItem is a tag with its question count materialized for sorting
// and display.
type TagItem struct {
	models.Tag    `bson:",inline"`
	QuestionCount int `bson:"questionCount" json:"questionCount"`
}

type ListTagsParams struct {
	Query  string
	Filter string
	PageParams
}

type TagPage struct {
	Tags   []TagItem `json:"tags"`
	IsNext bool      `json:"isNext"`
}

// List returns a page of tags. "popular" sorts by the computed size of
// the question set.
func (r *TagRepository) List(ctx context.Context, p ListTagsParams) (*TagPage, error) {
	match := bson.M{}
	if p.Query != "" {
		match["name"] = containsPattern(p.Query)
	}

	skip, limit := p.normalize(defaultPageSize)

	total, err := r.store.Tags().CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{fieldQuestionCount: sizeOf("questions")}}},
		{{Key: "$sort", Value: tagSortOrder(p.Filter)}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
	}
	cur, err := r.store.Tags().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tags: %w", err)
	}
	tags := make([]TagItem, 0, limit)
	if err := cur.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	return &TagPage{Tags: tags, IsNext: hasNext(total, skip, len(tags))}, nil
}

type QuestionsByTagParams struct {
	TagID primitive.ObjectID
	Query string
	PageParams
}

// TagQuestionsPage is a page of one tag's questions plus the tag name
// for the page heading.
type TagQuestionsPage struct {
	TagName   string                `json:"tagName"`
	Questions []models.QuestionView `json:"questions"`
	IsNext    bool                  `json:"isNext"`
}

// QuestionsByTag resolves the tag and pages through its questions by
// recency, optionally filtered by title. isNext comes from
// over-fetching one extra document.
func (r *TagRepository) QuestionsByTag(ctx context.Context, p QuestionsByTagParams) (*TagQuestionsPage, error) {
	var tag models.Tag
	err := r.store.Tags().FindOne(ctx, bson.M{"_id": p.TagID}).Decode(&tag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("tag")
	}
	if err != nil {
		return nil, fmt.Errorf("find tag: %w", err)
	}

	page := &TagQuestionsPage{TagName: tag.Name, Questions: make([]models.QuestionView, 0)}
	if len(tag.Questions) == 0 {
		return page, nil
	}

	filter := bson.M{"_id": bson.M{"$in": tag.Questions}}
	if p.Query != "" {
		filter["title"] = containsPattern(p.Query)
	}

	skip, limit := p.normalize(defaultPageSize)
	cur, err := r.store.Questions().Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit+1)))
	if err != nil {
		return nil, fmt.Errorf("find tag questions: %w", err)
	}
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode tag questions: %w", err)
	}

	page.IsNext = len(questions) > limit
	if page.IsNext {
		questions = questions[:limit]
	}

	views, err := buildQuestionViews(ctx, r.store, questions)
	if err != nil {
		return nil, err
	}
	page.Questions = views
	return page, nil
}

// Popular returns the five tags with the largest question sets.
func (r *TagRepository) Popular(ctx context.Context) ([]TagItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{fieldQuestionCount: sizeOf("questions")}}},
		{{Key: "$sort", Value: bson.D{{Key: fieldQuestionCount, Value: -1}}}},
		{{Key: "$limit", Value: popularTagLimit}},
	}
	cur, err := r.store.Tags().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate popular tags: %w", err)
	}
	tags := make([]TagItem, 0, popularTagLimit)
	if err := cur.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode popular tags: %w", err)
	}
	return tags, nil
}

// TopInteracted ranks the tags a user touches most, computed from the
// interaction ledger.
func (r *TagRepository) TopInteracted(ctx context.Context, userID primitive.ObjectID) ([]models.TagRef, error) {
	err := r.store.Users().FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	counts, err := r.interactions.TopTags(ctx, userID, topInteractedLimit)
	if err != nil {
		return nil, fmt.Errorf("rank interacted tags: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.TagID)
	}
	refs, err := tagRefsByID(ctx, r.store.Tags(), ids)
	if err != nil {
		return nil, err
	}

	// Keep the frequency order from the aggregation.
	out := make([]models.TagRef, 0, len(counts))
	for _, c := range counts {
		if ref, ok := refs[c.TagID]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}
