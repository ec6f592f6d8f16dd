package file

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func FileFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	f, err := d.Files.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}
