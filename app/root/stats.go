package root

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Stats(c *gin.Context, d *internal.Deps) {
	s, err := d.Files.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
