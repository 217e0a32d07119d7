package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"devflow/backend/internal/repository"
)

type TagHandler struct {
	tags TagStore
	log  zerolog.Logger
}

func NewTagHandler(tags TagStore, log zerolog.Logger) *TagHandler {
	return &TagHandler{tags: tags, log: log}
}

func (h *TagHandler) List(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.tags.List(ctx, repository.ListTagsParams{
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

func (h *TagHandler) Questions(c *gin.Context) {
	tagID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	page, err := h.tags.QuestionsByTag(ctx, repository.QuestionsByTagParams{
		TagID:      tagID,
		Query:      c.Query("q"),
		PageParams: pageParams(c),
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TagHandler) Popular(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	tags, err := h.tags.Popular(ctx)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// TopInteracted serves the tags a user engages with most; :id is the
// user's store id.
func (h *TagHandler) TopInteracted(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	tags, err := h.tags.TopInteracted(ctx, userID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
