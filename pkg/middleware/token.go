package middleware

import (
	"bitwise74/files-api/internal/auth"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const TokenHeader = "X-Token"

// NewTokenMiddleware rejects requests without a live session. On success
// userID and user are set on the context
func NewTokenMiddleware(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		u, err := m.CurrentUser(c.Request.Context(), c.GetHeader(TokenHeader))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Unauthorized",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", u.ID)
		c.Set("user", u)
		c.Next()
	}
}

// NewOptionalTokenMiddleware sets userID and user when a live session is
// sent. Anything else is served as anonymous
func NewOptionalTokenMiddleware(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.Next()
			return
		}

		u, err := m.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				zap.L().Error("Failed to resolve session", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			}

			c.Next()
			return
		}

		c.Set("userID", u.ID)
		c.Set("user", u)
		c.Next()
	}
}
