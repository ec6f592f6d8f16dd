package file

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FileSetVisibility backs both publish and unpublish
func FileSetVisibility(c *gin.Context, d *internal.Deps, public bool) {
	userID := c.MustGet("userID").(string)

	f, err := d.Files.SetVisibility(c.Request.Context(), userID, c.Param("id"), public)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}
