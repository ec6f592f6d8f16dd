package file

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"bitwise74/files-api/internal/model"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FileList returns one page of the caller's records under parentId
func FileList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid page",
			"requestID": requestID,
		})
		return
	}

	entries, err := d.Files.List(c.Request.Context(), userID, c.DefaultQuery("parentId", model.RootID), page)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
