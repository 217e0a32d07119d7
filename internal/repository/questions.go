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

// QuestionRepository owns the questions collection and the fan-out a
// question's lifecycle causes: tag attachment, the interaction ledger
// and author reputation.
type QuestionRepository struct {
	store        *database.Store
	interactions *InteractionRepository
	notify       revalidate.Notifier
	log          zerolog.Logger
}

type CreateQuestionParams struct {
	Title   string
	Content string
	Tags    []string
	Author  primitive.ObjectID
	Path    string
}

// Create inserts the question, upserts each tag by name and attaches
// the question to it, records the ask on the ledger and credits the
// author.
func (r *QuestionRepository) Create(ctx context.Context, p CreateQuestionParams) (*models.Question, error) {
	now := time.Now().UTC()
	question := models.Question{
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		Tags:      make([]primitive.ObjectID, 0, len(p.Tags)),
		Upvotes:   make([]primitive.ObjectID, 0),
		Downvotes: make([]primitive.ObjectID, 0),
		Answers:   make([]primitive.ObjectID, 0),
		CreatedAt: now,
	}
	res, err := r.store.Questions().InsertOne(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	question.ID = res.InsertedID.(primitive.ObjectID)

	tagIDs := make([]primitive.ObjectID, 0, len(p.Tags))
	for _, name := range p.Tags {
		var tag models.Tag
		err := r.store.Tags().FindOneAndUpdate(ctx,
			bson.M{"name": exactNamePattern(name)},
			bson.M{
				"$setOnInsert": bson.M{"name": name, "createdAt": now},
				"$push":        bson.M{"questions": question.ID},
			},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&tag)
		if err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if _, err := r.store.Questions().UpdateOne(ctx,
		bson.M{"_id": question.ID},
		bson.M{"$set": bson.M{"tags": tagIDs}},
	); err != nil {
		return nil, fmt.Errorf("attach tags: %w", err)
	}
	question.Tags = tagIDs

	if err := r.interactions.Record(ctx, models.Interaction{
		User:     p.Author,
		Action:   models.ActionAskQuestion,
		Question: question.ID,
		Tags:     tagIDs,
	}); err != nil {
		// The ledger feeds analytics, not correctness.
		r.log.Warn().Err(err).Msg("record ask interaction failed")
	}

	if _, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": p.Author},
		bson.M{"$inc": bson.M{"reputation": repQuestionAsked}},
	); err != nil {
		return nil, fmt.Errorf("credit author: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return &question, nil
}

type ListQuestionsParams struct {
	Query  string
	Filter string
	PageParams
}

// List returns a page of the question feed. Query matches title or
// body; "unanswered" restricts to questions with an empty answer set.
func (r *QuestionRepository) List(ctx context.Context, p ListQuestionsParams) (*QuestionPage, error) {
	filter := bson.M{}
	if p.Query != "" {
		pattern := containsPattern(p.Query)
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}
	if p.Filter == QuestionFilterUnanswered {
		filter["answers"] = bson.M{"$size": 0}
	}

	skip, limit := p.normalize(defaultPageSize)

	total, err := r.store.Questions().CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	cur, err := r.store.Questions().Find(ctx, filter, options.Find().
		SetSort(questionSortOrder(p.Filter)).
		SetSkip(int64(skip)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	questions := make([]models.Question, 0, limit)
	if err := cur.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	views, err := buildQuestionViews(ctx, r.store, questions)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Questions: views, IsNext: hasNext(total, skip, len(questions))}, nil
}

// GetByID returns one question with tags and author resolved.
func (r *QuestionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.QuestionView, error) {
	var question models.Question
	err := r.store.Questions().FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("question")
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}

	views, err := buildQuestionViews(ctx, r.store, []models.Question{question})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type EditQuestionParams struct {
	ID      primitive.ObjectID
	Title   string
	Content string
	Path    string
}

// Update edits the title and body. Tag edits are a separate concern
// the product doesn't expose.
func (r *QuestionRepository) Update(ctx context.Context, p EditQuestionParams) error {
	res, err := r.store.Questions().UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{"title": p.Title, "content": p.Content}},
	)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("question")
	}
	r.notify.Revalidate(ctx, p.Path)
	return nil
}

type DeleteQuestionParams struct {
	ID   primitive.ObjectID
	Path string
}

// Delete removes the question, its answers and interactions, and every
// reference to it from tags and bookmarks.
func (r *QuestionRepository) Delete(ctx context.Context, p DeleteQuestionParams) error {
	res, err := r.store.Questions().DeleteOne(ctx, bson.M{"_id": p.ID})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("question")
	}

	if _, err := r.store.Answers().DeleteMany(ctx, bson.M{"question": p.ID}); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if _, err := r.store.Interactions().DeleteMany(ctx, bson.M{"question": p.ID}); err != nil {
		return fmt.Errorf("delete interactions: %w", err)
	}
	if _, err := r.store.Tags().UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"questions": p.ID}}); err != nil {
		return fmt.Errorf("detach from tags: %w", err)
	}
	if _, err := r.store.Users().UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"saved": p.ID}}); err != nil {
		return fmt.Errorf("remove bookmarks: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return nil
}

type VoteQuestionParams struct {
	QuestionID   primitive.ObjectID
	UserID       primitive.ObjectID
	HasUpvoted   bool
	HasDownvoted bool
	Path         string
}

// Vote applies the three-way toggle to the question and moves voter
// and author reputation by the question units.
func (r *QuestionRepository) Vote(ctx context.Context, dir VoteDirection, p VoteQuestionParams) (*models.Question, error) {
	change := buildVoteChange(dir, p.UserID, p.HasUpvoted, p.HasDownvoted, repQuestionVoterUnit, repQuestionAuthorUnit)

	var question models.Question
	err := r.store.Questions().FindOneAndUpdate(ctx,
		bson.M{"_id": p.QuestionID},
		change.update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("question")
	}
	if err != nil {
		return nil, fmt.Errorf("vote question: %w", err)
	}

	if _, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": p.UserID},
		bson.M{"$inc": bson.M{"reputation": change.voterDelta}},
	); err != nil {
		return nil, fmt.Errorf("adjust voter reputation: %w", err)
	}
	if _, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": question.Author},
		bson.M{"$inc": bson.M{"reputation": change.authorDelta}},
	); err != nil {
		return nil, fmt.Errorf("adjust author reputation: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return &question, nil
}

type ViewQuestionParams struct {
	QuestionID primitive.ObjectID
	// UserID is zero for anonymous views; those still count but leave
	// no ledger entry.
	UserID primitive.ObjectID
}

// IncrementViews bumps the view counter and records the view for
// signed-in users.
func (r *QuestionRepository) IncrementViews(ctx context.Context, p ViewQuestionParams) error {
	res, err := r.store.Questions().UpdateOne(ctx,
		bson.M{"_id": p.QuestionID},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("question")
	}

	if !p.UserID.IsZero() {
		if err := r.interactions.Record(ctx, models.Interaction{
			User:     p.UserID,
			Action:   models.ActionViewQuestion,
			Question: p.QuestionID,
		}); err != nil {
			r.log.Warn().Err(err).Msg("record view interaction failed")
		}
	}
	return nil
}
