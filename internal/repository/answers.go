package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devflow/backend/internal/database"
	"devflow/backend/internal/errs"
	"devflow/backend/internal/models"
	"devflow/backend/internal/revalidate"
)

const defaultAnswerPageSize = 5

// AnswerRepository owns the answers collection, the attachment of
// answers to their parent question and the reputation both sides of a
// vote earn.
type AnswerRepository struct {
	store        *database.Store
	interactions *InteractionRepository
	notify       revalidate.Notifier
	log          zerolog.Logger
}

type CreateAnswerParams struct {
	Content  string
	Author   primitive.ObjectID
	Question primitive.ObjectID
	Path     string
}

// Create inserts the answer, appends it to the parent question's
// answer list, records the interaction tagged with the question's tags
// and credits the author.
func (r *AnswerRepository) Create(ctx context.Context, p CreateAnswerParams) (*models.Answer, error) {
	var question models.Question
	err := r.store.Questions().FindOne(ctx, bson.M{"_id": p.Question}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("question")
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}

	answer := models.Answer{
		Content:   p.Content,
		Author:    p.Author,
		Question:  p.Question,
		Upvotes:   make([]primitive.ObjectID, 0),
		Downvotes: make([]primitive.ObjectID, 0),
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.store.Answers().InsertOne(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("insert answer: %w", err)
	}
	answer.ID = res.InsertedID.(primitive.ObjectID)

	if _, err := r.store.Questions().UpdateOne(ctx,
		bson.M{"_id": p.Question},
		bson.M{"$push": bson.M{"answers": answer.ID}},
	); err != nil {
		return nil, fmt.Errorf("attach answer to question: %w", err)
	}

	if err := r.interactions.Record(ctx, models.Interaction{
		User:     p.Author,
		Action:   models.ActionAnswer,
		Question: p.Question,
		Answer:   answer.ID,
		Tags:     question.Tags,
	}); err != nil {
		r.log.Warn().Err(err).Msg("record answer interaction failed")
	}

	if _, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": p.Author},
		bson.M{"$inc": bson.M{"reputation": repAnswerAuthored}},
	); err != nil {
		return nil, fmt.Errorf("credit author: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return &answer, nil
}

type ListAnswersParams struct {
	Question primitive.ObjectID
	SortBy   string
	PageParams
}

// List pages through a question's answers. Vote sorts use the computed
// upvote count.
func (r *AnswerRepository) List(ctx context.Context, p ListAnswersParams) (*AnswerPage, error) {
	match := bson.M{"question": p.Question}

	total, err := r.store.Answers().CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}

	skip, limit := p.normalize(defaultAnswerPageSize)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{fieldVoteCount: sizeOf("upvotes")}}},
		{{Key: "$sort", Value: answerSortOrder(p.SortBy)}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cur, err := r.store.Answers().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate answers: %w", err)
	}
	var answers []models.Answer
	if err := cur.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	views, err := buildAnswerViews(ctx, r.store, answers)
	if err != nil {
		return nil, err
	}
	return &AnswerPage{Answers: views, IsNext: hasNext(total, skip, len(answers))}, nil
}

type VoteAnswerParams struct {
	AnswerID     primitive.ObjectID
	UserID       primitive.ObjectID
	HasUpvoted   bool
	HasDownvoted bool
	Path         string
}

// Vote applies the three-way toggle and moves reputation: the voter by
// the answer voter unit, the answer's author by the author unit.
func (r *AnswerRepository) Vote(ctx context.Context, dir VoteDirection, p VoteAnswerParams) (*models.Answer, error) {
	change := buildVoteChange(dir, p.UserID, p.HasUpvoted, p.HasDownvoted, repAnswerVoterUnit, repAnswerAuthorUnit)

	var answer models.Answer
	err := r.store.Answers().FindOneAndUpdate(ctx,
		bson.M{"_id": p.AnswerID},
		change.update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&answer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("answer")
	}
	if err != nil {
		return nil, fmt.Errorf("vote answer: %w", err)
	}

	if _, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": p.UserID},
		bson.M{"$inc": bson.M{"reputation": change.voterDelta}},
	); err != nil {
		return nil, fmt.Errorf("adjust voter reputation: %w", err)
	}
	if _, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": answer.Author},
		bson.M{"$inc": bson.M{"reputation": change.authorDelta}},
	); err != nil {
		return nil, fmt.Errorf("adjust author reputation: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return &answer, nil
}

type DeleteAnswerParams struct {
	ID   primitive.ObjectID
	Path string
}

// Delete removes the answer, detaches it from its question and drops
// its ledger entries.
func (r *AnswerRepository) Delete(ctx context.Context, p DeleteAnswerParams) error {
	var answer models.Answer
	err := r.store.Answers().FindOne(ctx, bson.M{"_id": p.ID}).Decode(&answer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NotFound("answer")
	}
	if err != nil {
		return fmt.Errorf("find answer: %w", err)
	}

	if _, err := r.store.Answers().DeleteOne(ctx, bson.M{"_id": p.ID}); err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	if _, err := r.store.Questions().UpdateOne(ctx,
		bson.M{"_id": answer.Question},
		bson.M{"$pull": bson.M{"answers": p.ID}},
	); err != nil {
		return fmt.Errorf("detach from question: %w", err)
	}
	if _, err := r.store.Interactions().DeleteMany(ctx, bson.M{"answer": p.ID}); err != nil {
		return fmt.Errorf("delete interactions: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return nil
}
