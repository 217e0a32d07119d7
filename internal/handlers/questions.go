package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"devflow/backend/internal/repository"
)

type QuestionHandler struct {
	questions QuestionStore
	log       zerolog.Logger
}

func NewQuestionHandler(questions QuestionStore, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, log: log}
}

// CreateQuestionPayload is a new question. Tags are plain names;
// unknown ones are created on the fly.
type CreateQuestionPayload struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5,dive,required"`
	Author  string   `json:"author" binding:"required,objectid"`
	Path    string   `json:"path"`
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var payload CreateQuestionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	question, err := h.questions.Create(ctx, repository.CreateQuestionParams{
		Title:   payload.Title,
		Content: payload.Content,
		Tags:    payload.Tags,
		Author:  mustObjectID(payload.Author),
		Path:    payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) List(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.questions.List(ctx, repository.ListQuestionsParams{
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

func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	question, err := h.questions.GetByID(ctx, id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

type EditQuestionPayload struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Path    string `json:"path"`
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload EditQuestionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	err := h.questions.Update(ctx, repository.EditQuestionParams{
		ID:      id,
		Title:   payload.Title,
		Content: payload.Content,
		Path:    payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
}

type DeleteQuestionPayload struct {
	Path string `json:"path"`
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload DeleteQuestionPayload
	_ = c.ShouldBindJSON(&payload)

	ctx, cancel := opContext(c)
	defer cancel()

	err := h.questions.Delete(ctx, repository.DeleteQuestionParams{ID: id, Path: payload.Path})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// VotePayload is shared by the up- and downvote endpoints. The two
// booleans describe the caller's current vote state.
type VotePayload struct {
	UserID       string `json:"userId" binding:"required,objectid"`
	HasUpvoted   bool   `json:"hasUpvoted"`
	HasDownvoted bool   `json:"hasDownvoted"`
	Path         string `json:"path"`
}

func (h *QuestionHandler) Upvote(c *gin.Context) {
	h.vote(c, repository.VoteUp)
}

func (h *QuestionHandler) Downvote(c *gin.Context) {
	h.vote(c, repository.VoteDown)
}

func (h *QuestionHandler) vote(c *gin.Context, dir repository.VoteDirection) {
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

	question, err := h.questions.Vote(ctx, dir, repository.VoteQuestionParams{
		QuestionID:   id,
		UserID:       mustObjectID(payload.UserID),
		HasUpvoted:   payload.HasUpvoted,
		HasDownvoted: payload.HasDownvoted,
		Path:         payload.Path,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// ViewPayload optionally names the signed-in viewer so the view lands
// on the interaction ledger.
type ViewPayload struct {
	UserID string `json:"userId" binding:"omitempty,objectid"`
}

func (h *QuestionHandler) View(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload ViewPayload
	_ = c.ShouldBindJSON(&payload)

	ctx, cancel := opContext(c)
	defer cancel()

	params := repository.ViewQuestionParams{QuestionID: id}
	if payload.UserID != "" {
		params.UserID = mustObjectID(payload.UserID)
	}
	if err := h.questions.IncrementViews(ctx, params); err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "View recorded"})
}
