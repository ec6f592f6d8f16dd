// Package respond turns domain errors into HTTP responses
package respond

import (
	"bitwise74/files-api/internal/auth"
	"bitwise74/files-api/internal/files"
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the response matching err. Anything unknown becomes a 500
// and gets logged with the request id
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	status, msg := classify(err)

	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": requestID,
	})
}

func classify(err error) (int, string) {
	var verr validators.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, store.ErrAlreadyExists):
		return http.StatusBadRequest, "Already exist"
	case errors.Is(err, files.ErrNoContent):
		return http.StatusBadRequest, files.ErrNoContent.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
