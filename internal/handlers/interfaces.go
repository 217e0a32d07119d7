package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devflow/backend/internal/models"
	"devflow/backend/internal/repository"
)

// The handler-side views of the repositories. Narrow interfaces so
// tests can substitute mocks.

type UserStore interface {
	List(ctx context.Context, p repository.ListUsersParams) (*repository.UserPage, error)
	GetByAuthID(ctx context.Context, authID string) (*models.User, error)
	Create(ctx context.Context, p repository.CreateUserParams) (*models.User, error)
	Update(ctx context.Context, p repository.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, authID string) (*models.User, error)
	ToggleSave(ctx context.Context, p repository.ToggleSaveParams) (bool, error)
	SavedQuestions(ctx context.Context, p repository.SavedQuestionsParams) (*repository.QuestionPage, error)
	Info(ctx context.Context, authID string) (*repository.UserInfo, error)
	Questions(ctx context.Context, p repository.UserContentParams) (*repository.QuestionPage, error)
	Answers(ctx context.Context, p repository.UserContentParams) (*repository.AnswerPage, error)
}

type QuestionStore interface {
	Create(ctx context.Context, p repository.CreateQuestionParams) (*models.Question, error)
	List(ctx context.Context, p repository.ListQuestionsParams) (*repository.QuestionPage, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.QuestionView, error)
	Update(ctx context.Context, p repository.EditQuestionParams) error
	Delete(ctx context.Context, p repository.DeleteQuestionParams) error
	Vote(ctx context.Context, dir repository.VoteDirection, p repository.VoteQuestionParams) (*models.Question, error)
	IncrementViews(ctx context.Context, p repository.ViewQuestionParams) error
}

type AnswerStore interface {
	Create(ctx context.Context, p repository.CreateAnswerParams) (*models.Answer, error)
	List(ctx context.Context, p repository.ListAnswersParams) (*repository.AnswerPage, error)
	Vote(ctx context.Context, dir repository.VoteDirection, p repository.VoteAnswerParams) (*models.Answer, error)
	Delete(ctx context.Context, p repository.DeleteAnswerParams) error
}

type TagStore interface {
	List(ctx context.Context, p repository.ListTagsParams) (*repository.TagPage, error)
	QuestionsByTag(ctx context.Context, p repository.QuestionsByTagParams) (*repository.TagQuestionsPage, error)
	Popular(ctx context.Context) ([]repository.TagItem, error)
	TopInteracted(ctx context.Context, userID primitive.ObjectID) ([]models.TagRef, error)
}

type Searcher interface {
	Global(ctx context.Context, query, typeFilter string) ([]repository.SearchResult, error)
}
