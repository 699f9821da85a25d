package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/apperr"
)

// respondError maps the service error taxonomy onto HTTP statuses. Field
// errors go back in full; unexpected errors are logged and flattened to a
// plain 500 so internals never leak.
func respondError(c *gin.Context, log *zap.SugaredLogger, err error) {
	if ve, ok := apperr.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid form data",
			"details": ve.Fields,
		})
		return
	}

	switch {
	case apperr.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case apperr.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case apperr.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case apperr.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied to this job"})
	case apperr.Is(err, apperr.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot apply to your own job"})
	case apperr.Is(err, apperr.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		log.Errorw("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
