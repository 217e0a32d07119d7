package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"devflow/backend/internal/repository"
)

// UserHandler serves account, profile and bookmark endpoints. Routes
// keyed by :id take the external auth subject, except Questions,
// Answers and ToggleSave which take the store id the way the profile
// pages reference authors.
type UserHandler struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserHandler(users UserStore, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.users.List(ctx, repository.ListUsersParams{
		Query:      c.Query("q"),
		Filter:     c.Query("filter"),
		PageParams: pageParams(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	user, err := h.users.GetByAuthID(ctx, c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUserPayload is the account document minted on first login.
type CreateUserPayload struct {
	AuthID   string `json:"authId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Picture  string `json:"picture"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var payload CreateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	user, err := h.users.Create(ctx, repository.CreateUserParams{
		AuthID:   payload.AuthID,
		Name:     payload.Name,
		Username: payload.Username,
		Picture:  payload.Picture,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUserPayload carries a partial profile edit; absent fields stay
// untouched.
type UpdateUserPayload struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Picture  *string `json:"picture"`
	Path     string  `json:"path"`
}

func (h *UserHandler) Update(c *gin.Context) {
	var payload UpdateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	user, err := h.users.Update(ctx, repository.UpdateUserParams{
		AuthID: c.Param("id"),
		Patch: repository.UserPatch{
			Name:     payload.Name,
			Username: payload.Username,
			Picture:  payload.Picture,
		},
		Path: payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	user, err := h.users.Delete(ctx, c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Info(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	info, err := h.users.Info(ctx, c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *UserHandler) Saved(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.users.SavedQuestions(ctx, repository.SavedQuestionsParams{
		AuthID:     c.Param("id"),
		Query:      c.Query("q"),
		Filter:     c.Query("filter"),
		PageParams: pageParams(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ToggleSavePayload bookmarks or un-bookmarks the question in the path
// for the given user.
type ToggleSavePayload struct {
	UserID string `json:"userId" binding:"required,objectid"`
	Path   string `json:"path"`
}

func (h *UserHandler) ToggleSave(c *gin.Context) {
	questionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload ToggleSavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	saved, err := h.users.ToggleSave(ctx, repository.ToggleSaveParams{
		UserID:     mustObjectID(payload.UserID),
		QuestionID: questionID,
		Path:       payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h *UserHandler) Questions(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.users.Questions(ctx, repository.UserContentParams{
		UserID:     userID,
		PageParams: pageParams(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Answers(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.users.Answers(ctx, repository.UserContentParams{
		UserID:     userID,
		PageParams: pageParams(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
