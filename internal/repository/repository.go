// Package repository implements the data-access layer over the five
// document collections. Every method takes a context and a params
// struct and returns (result, error); errors are the typed sentinels
// from internal/errs so callers can branch on failure kind.
package repository

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devflow/backend/internal/database"
	"devflow/backend/internal/models"
	"devflow/backend/internal/revalidate"
)

// Reputation deltas applied by authorship and voting events.
const (
	repQuestionAsked  = 5
	repAnswerAuthored = 10

	repAnswerVoterUnit    = 2
	repAnswerAuthorUnit   = 10
	repQuestionVoterUnit  = 1
	repQuestionAuthorUnit = 10
)

const defaultPageSize = 20

// Repositories bundles every repository over one store handle.
type Repositories struct {
	Users        *UserRepository
	Questions    *QuestionRepository
	Answers      *AnswerRepository
	Tags         *TagRepository
	Interactions *InteractionRepository
	Search       *SearchRepository
}

// New wires the repositories. The store handle and notifier are
// injected; nothing here owns global state.
func New(store *database.Store, log zerolog.Logger, notify revalidate.Notifier) *Repositories {
	interactions := &InteractionRepository{col: store.Interactions(), log: log.With().Str("repo", "interactions").Logger()}
	return &Repositories{
		Users:        &UserRepository{store: store, notify: notify, log: log.With().Str("repo", "users").Logger()},
		Questions:    &QuestionRepository{store: store, interactions: interactions, notify: notify, log: log.With().Str("repo", "questions").Logger()},
		Answers:      &AnswerRepository{store: store, interactions: interactions, notify: notify, log: log.With().Str("repo", "answers").Logger()},
		Tags:         &TagRepository{store: store, interactions: interactions, log: log.With().Str("repo", "tags").Logger()},
		Interactions: interactions,
		Search:       &SearchRepository{store: store, log: log.With().Str("repo", "search").Logger()},
	}
}

// PageParams are 1-indexed pagination cursors. A zero PageSize falls
// back to the listing's default.
type PageParams struct {
	Page     int
	PageSize int
}

// normalize clamps the cursors and returns the skip offset and limit.
func (p PageParams) normalize(defaultSize int) (skip, limit int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size < 1 {
		size = defaultSize
	}
	return (page - 1) * size, size
}

// hasNext reports whether matches exist beyond the current page.
func hasNext(total int64, skip, returned int) bool {
	return total > int64(skip+returned)
}

// containsPattern is a case-insensitive substring match. The query is
// quoted so user input can't smuggle regex syntax into the filter.
func containsPattern(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}

// exactNamePattern matches a whole name case-insensitively.
func exactNamePattern(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}

func tagRefsByID(ctx context.Context, tags *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.TagRef, error) {
	refs := make(map[primitive.ObjectID]models.TagRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	cur, err := tags.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	var docs []models.TagRef
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		refs[d.ID] = d
	}
	return refs, nil
}

func authorRefsByID(ctx context.Context, users *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.AuthorRef, error) {
	refs := make(map[primitive.ObjectID]models.AuthorRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	cur, err := users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"authId": 1, "name": 1, "picture": 1}))
	if err != nil {
		return nil, err
	}
	var docs []models.AuthorRef
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		refs[d.ID] = d
	}
	return refs, nil
}

func questionRefsByID(ctx context.Context, questions *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.QuestionRef, error) {
	refs := make(map[primitive.ObjectID]models.QuestionRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	cur, err := questions.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	var docs []models.QuestionRef
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		refs[d.ID] = d
	}
	return refs, nil
}

// buildQuestionViews resolves tag and author references for a batch of
// questions in two $in queries instead of one populate per document.
func buildQuestionViews(ctx context.Context, store *database.Store, questions []models.Question) ([]models.QuestionView, error) {
	tagSet := map[primitive.ObjectID]struct{}{}
	authorSet := map[primitive.ObjectID]struct{}{}
	for _, q := range questions {
		for _, t := range q.Tags {
			tagSet[t] = struct{}{}
		}
		authorSet[q.Author] = struct{}{}
	}

	tagRefs, err := tagRefsByID(ctx, store.Tags(), keys(tagSet))
	if err != nil {
		return nil, err
	}
	authorRefs, err := authorRefsByID(ctx, store.Users(), keys(authorSet))
	if err != nil {
		return nil, err
	}

	views := make([]models.QuestionView, 0, len(questions))
	for _, q := range questions {
		view := models.QuestionView{
			ID:          q.ID,
			Title:       q.Title,
			Content:     q.Content,
			Tags:        make([]models.TagRef, 0, len(q.Tags)),
			Author:      authorRefs[q.Author],
			Views:       q.Views,
			Upvotes:     nonNil(q.Upvotes),
			Downvotes:   nonNil(q.Downvotes),
			AnswerCount: len(q.Answers),
			CreatedAt:   q.CreatedAt,
		}
		for _, t := range q.Tags {
			if ref, ok := tagRefs[t]; ok {
				view.Tags = append(view.Tags, ref)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// buildAnswerViews resolves authors and parent-question titles.
func buildAnswerViews(ctx context.Context, store *database.Store, answers []models.Answer) ([]models.AnswerView, error) {
	authorSet := map[primitive.ObjectID]struct{}{}
	questionSet := map[primitive.ObjectID]struct{}{}
	for _, a := range answers {
		authorSet[a.Author] = struct{}{}
		questionSet[a.Question] = struct{}{}
	}

	authorRefs, err := authorRefsByID(ctx, store.Users(), keys(authorSet))
	if err != nil {
		return nil, err
	}
	questionRefs, err := questionRefsByID(ctx, store.Questions(), keys(questionSet))
	if err != nil {
		return nil, err
	}

	views := make([]models.AnswerView, 0, len(answers))
	for _, a := range answers {
		views = append(views, models.AnswerView{
			ID:        a.ID,
			Content:   a.Content,
			Author:    authorRefs[a.Author],
			Question:  questionRefs[a.Question],
			Upvotes:   nonNil(a.Upvotes),
			Downvotes: nonNil(a.Downvotes),
			CreatedAt: a.CreatedAt,
		})
	}
	return views, nil
}

func keys(set map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func nonNil(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return make([]primitive.ObjectID, 0)
	}
	return ids
}
