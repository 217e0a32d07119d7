package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devflow/backend/internal/errs"
	"devflow/backend/internal/repository"
)

// opTimeout bounds every store operation issued by a handler.
const opTimeout = 10 * time.Second

func opContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), opTimeout)
}

// fail maps repository errors onto HTTP statuses. Unexpected errors
// are logged with the request path and hidden from the client.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "store timeout"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pageParams reads the 1-indexed pagination cursors from the query
// string. Malformed values fall back to the defaults.
func pageParams(c *gin.Context) repository.PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	return repository.PageParams{Page: page, PageSize: size}
}

// objectIDParam parses a path parameter as an ObjectID, answering 400
// itself when the value is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
