package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devflow/backend/internal/models"
	"devflow/backend/internal/repository"
)

type mockAnswerStore struct {
	mock.Mock
}

func (m *mockAnswerStore) Create(ctx context.Context, p repository.CreateAnswerParams) (*models.Answer, error) {
	args := m.Called(ctx, p)
	if a := args.Get(0); a != nil {
		return a.(*models.Answer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnswerStore) List(ctx context.Context, p repository.ListAnswersParams) (*repository.AnswerPage, error) {
	args := m.Called(ctx, p)
	if page := args.Get(0); page != nil {
		return page.(*repository.AnswerPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnswerStore) Vote(ctx context.Context, dir repository.VoteDirection, p repository.VoteAnswerParams) (*models.Answer, error) {
	args := m.Called(ctx, dir, p)
	if a := args.Get(0); a != nil {
		return a.(*models.Answer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnswerStore) Delete(ctx context.Context, p repository.DeleteAnswerParams) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func newAnswerRouter(store *mockAnswerStore) *gin.Engine {
	h := NewAnswerHandler(store, zerolog.Nop())
	r := gin.New()
	r.POST("/answers", h.Create)
	r.DELETE("/answers/:id", h.Delete)
	r.POST("/answers/:id/upvote", h.Upvote)
	r.POST("/answers/:id/downvote", h.Downvote)
	r.GET("/questions/:id/answers", h.List)
	return r
}

func TestAnswerCreate(t *testing.T) {
	author := primitive.NewObjectID()
	question := primitive.NewObjectID()

	store := new(mockAnswerStore)
	store.On("Create", mock.Anything, repository.CreateAnswerParams{
		Content:  "Use a sync.WaitGroup.",
		Author:   author,
		Question: question,
	}).Return(&models.Answer{Content: "Use a sync.WaitGroup.", Author: author, Question: question}, nil)

	body := `{"content":"Use a sync.WaitGroup.","author":"` + author.Hex() + `","question":"` + question.Hex() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/answers", strings.NewReader(body))
	newAnswerRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestAnswerCreateRejectsMalformedAuthor(t *testing.T) {
	store := new(mockAnswerStore)

	body := `{"content":"hi","author":"nope","question":"` + primitive.NewObjectID().Hex() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/answers", strings.NewReader(body))
	newAnswerRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Create")
}

func TestAnswerListPassesSortBy(t *testing.T) {
	question := primitive.NewObjectID()

	store := new(mockAnswerStore)
	store.On("List", mock.Anything, repository.ListAnswersParams{
		Question:   question,
		SortBy:     repository.AnswerSortHighestUpvotes,
		PageParams: repository.PageParams{Page: 1},
	}).Return(&repository.AnswerPage{Answers: []models.AnswerView{}, IsNext: false}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/questions/"+question.Hex()+"/answers?sortBy=highestUpvotes", nil)
	newAnswerRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestAnswerUpvoteForwardsVoteState(t *testing.T) {
	answerID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	store := new(mockAnswerStore)
	store.On("Vote", mock.Anything, repository.VoteUp, repository.VoteAnswerParams{
		AnswerID:     answerID,
		UserID:       userID,
		HasDownvoted: true,
	}).Return(&models.Answer{ID: answerID}, nil)

	body := `{"userId":"` + userID.Hex() + `","hasDownvoted":true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/answers/"+answerID.Hex()+"/upvote", strings.NewReader(body))
	newAnswerRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestAnswerDownvote(t *testing.T) {
	answerID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	store := new(mockAnswerStore)
	store.On("Vote", mock.Anything, repository.VoteDown, mock.Anything).
		Return(&models.Answer{ID: answerID}, nil)

	body := `{"userId":"` + userID.Hex() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/answers/"+answerID.Hex()+"/downvote", strings.NewReader(body))
	newAnswerRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestAnswerDelete(t *testing.T) {
	answerID := primitive.NewObjectID()

	store := new(mockAnswerStore)
	store.On("Delete", mock.Anything, repository.DeleteAnswerParams{ID: answerID, Path: "/question/x"}).
		Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/answers/"+answerID.Hex(), strings.NewReader(`{"path":"/question/x"}`))
	newAnswerRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}
