package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simaogato/cashil-backend/internal/domain"
)

const retryableMessage = "something went wrong, please try again"

// mapError converts domain errors to an HTTP status and a client message
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransaction):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, domain.ErrTransactionNotFound.Error()
	default:
		// Store failures and malformed stored records
		return http.StatusInternalServerError, retryableMessage
	}
}

// respondError writes {"error": ...}; server errors are attached to the context for the request log
func respondError(c *gin.Context, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
