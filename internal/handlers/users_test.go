package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devflow/backend/internal/errs"
	"devflow/backend/internal/models"
	"devflow/backend/internal/repository"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidations(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) List(ctx context.Context, p repository.ListUsersParams) (*repository.UserPage, error) {
	args := m.Called(ctx, p)
	if page := args.Get(0); page != nil {
		return page.(*repository.UserPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	args := m.Called(ctx, authID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, p repository.CreateUserParams) (*models.User, error) {
	args := m.Called(ctx, p)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, p repository.UpdateUserParams) (*models.User, error) {
	args := m.Called(ctx, p)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Delete(ctx context.Context, authID string) (*models.User, error) {
	args := m.Called(ctx, authID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) ToggleSave(ctx context.Context, p repository.ToggleSaveParams) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) SavedQuestions(ctx context.Context, p repository.SavedQuestionsParams) (*repository.QuestionPage, error) {
	args := m.Called(ctx, p)
	if page := args.Get(0); page != nil {
		return page.(*repository.QuestionPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Info(ctx context.Context, authID string) (*repository.UserInfo, error) {
	args := m.Called(ctx, authID)
	if info := args.Get(0); info != nil {
		return info.(*repository.UserInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Questions(ctx context.Context, p repository.UserContentParams) (*repository.QuestionPage, error) {
	args := m.Called(ctx, p)
	if page := args.Get(0); page != nil {
		return page.(*repository.QuestionPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Answers(ctx context.Context, p repository.UserContentParams) (*repository.AnswerPage, error) {
	args := m.Called(ctx, p)
	if page := args.Get(0); page != nil {
		return page.(*repository.AnswerPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func newUserRouter(store *mockUserStore) *gin.Engine {
	h := NewUserHandler(store, zerolog.Nop())
	r := gin.New()
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.Get)
	r.PUT("/users/:id", h.Update)
	r.GET("/users/:id/info", h.Info)
	r.POST("/questions/:id/save", h.ToggleSave)
	return r
}

func TestUserListPassesQueryAndCursors(t *testing.T) {
	store := new(mockUserStore)
	store.On("List", mock.Anything, repository.ListUsersParams{
		Query:      "alice",
		Filter:     repository.UserFilterTopContributors,
		PageParams: repository.PageParams{Page: 2, PageSize: 5},
	}).Return(&repository.UserPage{Users: []models.User{}, IsNext: true}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users?q=alice&filter=top_contributors&page=2&pageSize=5", nil)
	newUserRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isNext":true`)
	store.AssertExpectations(t)
}

func TestUserGetNotFound(t *testing.T) {
	store := new(mockUserStore)
	store.On("GetByAuthID", mock.Anything, "missing-subject").Return(nil, errs.NotFound("user"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/missing-subject", nil)
	newUserRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserCreate(t *testing.T) {
	store := new(mockUserStore)
	store.On("Create", mock.Anything, repository.CreateUserParams{
		AuthID:   "auth0|abc",
		Name:     "Alice",
		Username: "alice",
	}).Return(&models.User{AuthID: "auth0|abc", Name: "Alice", Username: "alice"}, nil)

	body := `{"authId":"auth0|abc","name":"Alice","username":"alice"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	newUserRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestUserCreateRejectsIncompletePayload(t *testing.T) {
	store := new(mockUserStore)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Alice"}`))
	newUserRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Create")
}

func TestToggleSave(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()

	store := new(mockUserStore)
	store.On("ToggleSave", mock.Anything, repository.ToggleSaveParams{
		UserID:     userID,
		QuestionID: questionID,
		Path:       "/question/" + questionID.Hex(),
	}).Return(true, nil)

	body := `{"userId":"` + userID.Hex() + `","path":"/question/` + questionID.Hex() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/questions/"+questionID.Hex()+"/save", strings.NewReader(body))
	newUserRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"saved":true`)
	store.AssertExpectations(t)
}

func TestToggleSaveRejectsMalformedIDs(t *testing.T) {
	store := new(mockUserStore)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/questions/not-an-id/save", strings.NewReader(`{"userId":"also-bad"}`))
	newUserRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "ToggleSave")
}

func TestUserInfo(t *testing.T) {
	store := new(mockUserStore)
	store.On("Info", mock.Anything, "auth0|abc").Return(&repository.UserInfo{
		User:           models.User{AuthID: "auth0|abc"},
		TotalQuestions: 3,
		TotalAnswers:   7,
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/auth0|abc/info", nil)
	newUserRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalQuestions":3`)
	assert.Contains(t, w.Body.String(), `"totalAnswers":7`)
}
