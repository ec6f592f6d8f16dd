package file

import (
	"bitwise74/files-api/app/respond"
	"bitwise74/files-api/internal"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// FileData serves the content of a record, or one of its thumbnails when
// size is set. Anonymous callers only get public records
func FileData(c *gin.Context, d *internal.Deps) {
	f, b, err := d.Files.Content(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Query("size"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Data(http.StatusOK, contentType(f.Name, b), b)
}

func contentType(name string, b []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}

	return mimetype.Detect(b).String()
}
