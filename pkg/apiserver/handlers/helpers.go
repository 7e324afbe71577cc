package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/builder"
	"github.com/costline/costline/pkg/store"
)

const timeRFC3339Nano = time.RFC3339Nano

func formatTime(value time.Time) string {
	return value.UTC().Format(timeRFC3339Nano)
}

// respondError maps core errors onto the HTTP taxonomy: missing records to
// 404, payload validation to 400, duplicate keys (version races, matrix pair
// collisions) to 409. Anything unexpected is logged and reported as a
// generic 500 — internal details never reach the response body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrRecordNotFound), errors.Is(err, builder.ErrNotTemplate):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, builder.ErrInvalidSpec):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
