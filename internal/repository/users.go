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

// UserRepository manages accounts, their saved-question bookmarks and
// the authored-content listings shown on profile pages.
type UserRepository struct {
	store  *database.Store
	notify revalidate.Notifier
	log    zerolog.Logger
}

type ListUsersParams struct {
	Query  string
	Filter string
	PageParams
}

type UserPage struct {
	Users  []models.User `json:"users"`
	IsNext bool          `json:"isNext"`
}

// List returns a page of users. Query matches name or username
// case-insensitively; Filter selects the sort order.
func (r *UserRepository) List(ctx context.Context, p ListUsersParams) (*UserPage, error) {
	filter := bson.M{}
	if p.Query != "" {
		pattern := containsPattern(p.Query)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"username": pattern},
		}
	}

	skip, limit := p.normalize(defaultPageSize)

	total, err := r.store.Users().CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	cur, err := r.store.Users().Find(ctx, filter, options.Find().
		SetSort(userSortOrder(p.Filter)).
		SetSkip(int64(skip)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users := make([]models.User, 0, limit)
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return &UserPage{Users: users, IsNext: hasNext(total, skip, len(users))}, nil
}

// GetByAuthID looks a user up by the external identity subject.
func (r *UserRepository) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	err := r.store.Users().FindOne(ctx, bson.M{"authId": authID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

type CreateUserParams struct {
	AuthID   string
	Name     string
	Username string
	Picture  string
}

// Create inserts a new account. Uniqueness of the auth id is whatever
// the store's index enforces; there is no pre-check.
func (r *UserRepository) Create(ctx context.Context, p CreateUserParams) (*models.User, error) {
	user := models.User{
		AuthID:   p.AuthID,
		Name:     p.Name,
		Username: p.Username,
		Picture:  p.Picture,
		Saved:    make([]primitive.ObjectID, 0),
		JoinedAt: time.Now().UTC(),
	}
	res, err := r.store.Users().InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return &user, nil
}

// UserPatch holds the profile fields an edit may change. Nil fields
// are left untouched.
type UserPatch struct {
	Name     *string
	Username *string
	Picture  *string
}

type UpdateUserParams struct {
	AuthID string
	Patch  UserPatch
	Path   string
}

// Update applies a profile edit and invalidates the given path.
func (r *UserRepository) Update(ctx context.Context, p UpdateUserParams) (*models.User, error) {
	set := bson.M{}
	if p.Patch.Name != nil {
		set["name"] = *p.Patch.Name
	}
	if p.Patch.Username != nil {
		set["username"] = *p.Patch.Username
	}
	if p.Patch.Picture != nil {
		set["picture"] = *p.Patch.Picture
	}
	if len(set) == 0 {
		return nil, errs.InvalidInput("empty profile patch")
	}

	var user models.User
	err := r.store.Users().FindOneAndUpdate(ctx,
		bson.M{"authId": p.AuthID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return &user, nil
}

// Delete removes the user's questions with everything hanging off
// them, then the user document itself.
func (r *UserRepository) Delete(ctx context.Context, authID string) (*models.User, error) {
	user, err := r.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	cur, err := r.store.Questions().Find(ctx, bson.M{"author": user.ID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find authored questions: %w", err)
	}
	var authored []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &authored); err != nil {
		return nil, fmt.Errorf("decode authored questions: %w", err)
	}
	questionIDs := make([]primitive.ObjectID, 0, len(authored))
	for _, q := range authored {
		questionIDs = append(questionIDs, q.ID)
	}

	if len(questionIDs) > 0 {
		inQuestions := bson.M{"$in": questionIDs}
		if _, err := r.store.Answers().DeleteMany(ctx, bson.M{"question": inQuestions}); err != nil {
			return nil, fmt.Errorf("delete answers to authored questions: %w", err)
		}
		if _, err := r.store.Tags().UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"questions": inQuestions}}); err != nil {
			return nil, fmt.Errorf("detach questions from tags: %w", err)
		}
		if _, err := r.store.Users().UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"saved": inQuestions}}); err != nil {
			return nil, fmt.Errorf("remove bookmarks: %w", err)
		}
		if _, err := r.store.Interactions().DeleteMany(ctx, bson.M{"question": inQuestions}); err != nil {
			return nil, fmt.Errorf("delete question interactions: %w", err)
		}
		if _, err := r.store.Questions().DeleteMany(ctx, bson.M{"_id": inQuestions}); err != nil {
			return nil, fmt.Errorf("delete authored questions: %w", err)
		}
	}

	if _, err := r.store.Users().DeleteOne(ctx, bson.M{"_id": user.ID}); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}

type ToggleSaveParams struct {
	UserID     primitive.ObjectID
	QuestionID primitive.ObjectID
	Path       string
}

// ToggleSave bookmarks the question for the user, or removes the
// bookmark if it already exists. Returns the resulting saved state.
func (r *UserRepository) ToggleSave(ctx context.Context, p ToggleSaveParams) (bool, error) {
	var user models.User
	err := r.store.Users().FindOne(ctx, bson.M{"_id": p.UserID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, errs.NotFound("user")
	}
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}

	saved := false
	for _, id := range user.Saved {
		if id == p.QuestionID {
			saved = true
			break
		}
	}

	update := bson.M{"$addToSet": bson.M{"saved": p.QuestionID}}
	if saved {
		update = bson.M{"$pull": bson.M{"saved": p.QuestionID}}
	}
	if _, err := r.store.Users().UpdateOne(ctx, bson.M{"_id": p.UserID}, update); err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}

	r.notify.Revalidate(ctx, p.Path)
	return !saved, nil
}

type SavedQuestionsParams struct {
	AuthID string
	Query  string
	Filter string
	PageParams
}

type QuestionPage struct {
	Questions []models.QuestionView `json:"questions"`
	IsNext    bool                  `json:"isNext"`
}

// SavedQuestions pages through the user's bookmarks. Vote- and
// answer-based sorts use computed set sizes; isNext comes from
// over-fetching one extra document.
func (r *UserRepository) SavedQuestions(ctx context.Context, p SavedQuestionsParams) (*QuestionPage, error) {
	user, err := r.GetByAuthID(ctx, p.AuthID)
	if err != nil {
		return nil, err
	}
	if len(user.Saved) == 0 {
		return &QuestionPage{Questions: make([]models.QuestionView, 0)}, nil
	}

	match := bson.M{"_id": bson.M{"$in": user.Saved}}
	if p.Query != "" {
		match["title"] = containsPattern(p.Query)
	}

	skip, limit := p.normalize(defaultPageSize)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			fieldVoteCount:   sizeOf("upvotes"),
			fieldAnswerCount: sizeOf("answers"),
		}}},
		{{Key: "$sort", Value: savedSortOrder(p.Filter)}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit + 1)}},
	}

	cur, err := r.store.Questions().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate saved questions: %w", err)
	}
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode saved questions: %w", err)
	}

	isNext := len(questions) > limit
	if isNext {
		questions = questions[:limit]
	}

	views, err := buildQuestionViews(ctx, r.store, questions)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Questions: views, IsNext: isNext}, nil
}

// UserInfo is a profile plus authored-content counts.
type UserInfo struct {
	User           models.User `json:"user"`
	TotalQuestions int64       `json:"totalQuestions"`
	TotalAnswers   int64       `json:"totalAnswers"`
}

// Info returns the profile and counts for a user page. A missing user
// is ErrNotFound, never a nil dereference.
func (r *UserRepository) Info(ctx context.Context, authID string) (*UserInfo, error) {
	user, err := r.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	totalQuestions, err := r.store.Questions().CountDocuments(ctx, bson.M{"author": user.ID})
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	totalAnswers, err := r.store.Answers().CountDocuments(ctx, bson.M{"author": user.ID})
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}

	return &UserInfo{User: *user, TotalQuestions: totalQuestions, TotalAnswers: totalAnswers}, nil
}

type UserContentParams struct {
	UserID primitive.ObjectID
	PageParams
}

// Questions lists the user's authored questions, most viewed and most
// voted first.
func (r *UserRepository) Questions(ctx context.Context, p UserContentParams) (*QuestionPage, error) {
	match := bson.M{"author": p.UserID}

	total, err := r.store.Questions().CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	skip, limit := p.normalize(defaultPageSize)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{fieldVoteCount: sizeOf("upvotes")}}},
		{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}, {Key: fieldVoteCount, Value: -1}}}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cur, err := r.store.Questions().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate user questions: %w", err)
	}
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode user questions: %w", err)
	}

	views, err := buildQuestionViews(ctx, r.store, questions)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Questions: views, IsNext: hasNext(total, skip, len(questions))}, nil
}

type AnswerPage struct {
	Answers []models.AnswerView `json:"answers"`
	IsNext  bool                `json:"isNext"`
}

// Answers lists the user's authored answers, most voted first.
func (r *UserRepository) Answers(ctx context.Context, p UserContentParams) (*AnswerPage, error) {
	match := bson.M{"author": p.UserID}

	total, err := r.store.Answers().CountDocuments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}

	skip, limit := p.normalize(defaultPageSize)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{fieldVoteCount: sizeOf("upvotes")}}},
		{{Key: "$sort", Value: bson.D{{Key: fieldVoteCount, Value: -1}}}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cur, err := r.store.Answers().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate user answers: %w", err)
	}
	var answers []models.Answer
	if err := cur.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("decode user answers: %w", err)
	}

	views, err := buildAnswerViews(ctx, r.store, answers)
	if err != nil {
		return nil, err
	}
	return &AnswerPage{Answers: views, IsNext: hasNext(total, skip, len(answers))}, nil
}
