package handler

import (
	"errors"
	"net/http"

	"chugr/backend/internal/health"
	"chugr/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Code  string `json:"code,omitempty" example:"VALIDATION_ERROR"`
}

// respondError maps domain errors onto HTTP status codes and machine
// readable error codes. Unknown errors become a 500 without leaking
// internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case errors.Is(err, models.ErrUnderage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case errors.Is(err, models.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_TARGET"})
	case errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "USER_NOT_FOUND"})
	case errors.Is(err, models.ErrSwipeExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "SWIPE_EXISTS"})
	case errors.Is(err, models.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "MATCH_NOT_FOUND"})
	case errors.Is(err, models.ErrMatchInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "MATCH_INACTIVE"})
	case errors.Is(err, models.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "CONVERSATION_NOT_FOUND"})
	case errors.Is(err, models.ErrConversationInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "CONVERSATION_INACTIVE"})
	case errors.Is(err, health.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream service unavailable, retry later", "code": "UPSTREAM_UNAVAILABLE"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
