package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"devflow/backend/internal/repository"
)

type AnswerHandler struct {
	answers AnswerStore
	log     zerolog.Logger
}

func NewAnswerHandler(answers AnswerStore, log zerolog.Logger) *AnswerHandler {
	return &AnswerHandler{answers: answers, log: log}
}

type CreateAnswerPayload struct {
	Content  string `json:"content" binding:"required"`
	Author   string `json:"author" binding:"required,objectid"`
	Question string `json:"question" binding:"required,objectid"`
	Path     string `json:"path"`
}

func (h *AnswerHandler) Create(c *gin.Context) {
	var payload CreateAnswerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	answer, err := h.answers.Create(ctx, repository.CreateAnswerParams{
		Content:  payload.Content,
		Author:   mustObjectID(payload.Author),
		Question: mustObjectID(payload.Question),
		Path:     payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

// List serves a question's answers; the :id parameter is the question.
func (h *AnswerHandler) List(c *gin.Context) {
	questionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.answers.List(ctx, repository.ListAnswersParams{
		Question:   questionID,
		SortBy:     c.Query("sortBy"),
		PageParams: pageParams(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AnswerHandler) Upvote(c *gin.Context) {
	h.vote(c, repository.VoteUp)
}

func (h *AnswerHandler) Downvote(c *gin.Context) {
	h.vote(c, repository.VoteDown)
}

func (h *AnswerHandler) vote(c *gin.Context, dir repository.VoteDirection) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload VotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	answer, err := h.answers.Vote(ctx, dir, repository.VoteAnswerParams{
		AnswerID:     id,
		UserID:       mustObjectID(payload.UserID),
		HasUpvoted:   payload.HasUpvoted,
		HasDownvoted: payload.HasDownvoted,
		Path:         payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

type DeleteAnswerPayload struct {
	Path string `json:"path"`
}

func (h *AnswerHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload DeleteAnswerPayload
	_ = c.ShouldBindJSON(&payload)

	ctx, cancel := opContext(c)
	defer cancel()

	if err := h.answers.Delete(ctx, repository.DeleteAnswerParams{ID: id, Path: payload.Path}); err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}
