package file

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"bitwise74/files-api/internal/files"
	"bitwise74/files-api/internal/model"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type uploadBody struct {
	Name     string          `json:"name"`
	Type     model.FileType  `json:"type"`
	ParentID model.ParentRef `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

func FileUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data uploadBody
	if err := c.ShouldBindJSON(&data); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "Request body size exceeds limit",
				"requestID": requestID,
			})
			return
		}

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	f, err := d.Uploader.Upload(c.Request.Context(), userID, files.CreateParams{
		Name:     data.Name,
		Type:     data.Type,
		ParentID: data.ParentID.ID(),
		IsPublic: data.IsPublic,
		Data:     data.Data,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}
