package user

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"bitwise74/files-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserDisconnect revokes the token it was called with. The token middleware
// has already checked that it is live
func UserDisconnect(c *gin.Context, d *internal.Deps) {
	if err := d.Auth.Revoke(c.Request.Context(), c.GetHeader(middleware.TokenHeader)); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
