package user

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"bitwise74/files-api/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserConnect exchanges Basic credentials for a session token
func UserConnect(c *gin.Context, d *internal.Deps) {
	email, password, ok := auth.ParseBasic(c.GetHeader("Authorization"))
	if !ok {
		respond.Error(c, auth.ErrUnauthorized)
		return
	}

	token, err := d.Auth.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
