package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type SearchHandler struct {
	search Searcher
	log    zerolog.Logger
}

func NewSearchHandler(search Searcher, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{search: search, log: log}
}

// Global serves the site-wide search box. An empty query returns an
// empty result set rather than an error.
func (h *SearchHandler) Global(c *gin.Context) {
	ctx, cancel := opContext(c)
	defer cancel()

	results, err := h.search.Global(ctx, c.Query("q"), c.Query("type"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
