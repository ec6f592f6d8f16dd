package user

import (
	"bitwise74/files-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserMe returns the user behind the X-Token header
func UserMe(c *gin.Context) {
	u := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
	})
}
