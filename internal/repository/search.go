package repository

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devflow/backend/internal/database"
)

// Result types returned by the global search.
const (
	SearchTypeQuestion = "question"
	SearchTypeAnswer   = "answer"
	SearchTypeUser     = "user"
	SearchTypeTag      = "tag"
)

const (
	searchLimitPerType = 2
	searchLimitFocused = 8
)

// SearchRepository runs the site-wide search box query across all four
// content collections concurrently.
type SearchRepository struct {
	store *database.Store
	log   zerolog.Logger
}

// SearchResult is one hit in the global search dropdown.
type SearchResult struct {
	Type  string             `json:"type"`
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
}

// Global fans the query out to every collection, or only the one named
// by typeFilter. Collections are searched best-effort: a failing leg
// is logged and the rest still return.
func (r *SearchRepository) Global(ctx context.Context, query, typeFilter string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}
	pattern := containsPattern(query)

	limit := int64(searchLimitPerType)
	if typeFilter != "" {
		limit = searchLimitFocused
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]SearchResult, 0, 4*searchLimitPerType)

	search := func(resultType string, run func() ([]SearchResult, error)) {
		if typeFilter != "" && typeFilter != resultType {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := run()
			if err != nil {
				r.log.Warn().Err(err).Str("type", resultType).Msg("search leg failed")
				return
			}
			mu.Lock()
			results = append(results, hits...)
			mu.Unlock()
		}()
	}

	search(SearchTypeQuestion, func() ([]SearchResult, error) {
		return r.find(ctx, SearchTypeQuestion, r.store.Questions(), bson.M{"title": pattern}, "title", limit)
	})
	search(SearchTypeAnswer, func() ([]SearchResult, error) {
		return r.find(ctx, SearchTypeAnswer, r.store.Answers(), bson.M{"content": pattern}, "content", limit)
	})
	search(SearchTypeUser, func() ([]SearchResult, error) {
		return r.find(ctx, SearchTypeUser, r.store.Users(), bson.M{"name": pattern}, "name", limit)
	})
	search(SearchTypeTag, func() ([]SearchResult, error) {
		return r.find(ctx, SearchTypeTag, r.store.Tags(), bson.M{"name": pattern}, "name", limit)
	})

	wg.Wait()
	return results, nil
}

func (r *SearchRepository) find(ctx context.Context, resultType string, col *mongo.Collection, filter bson.M, titleField string, limit int64) ([]SearchResult, error) {
	cur, err := col.Find(ctx, filter, options.Find().
		SetProjection(bson.M{titleField: 1}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	hits := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc["_id"].(primitive.ObjectID)
		title, _ := doc[titleField].(string)
		hits = append(hits, SearchResult{Type: resultType, ID: id, Title: title})
	}
	return hits, nil
}
