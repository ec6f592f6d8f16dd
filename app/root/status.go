package root

import (
	"bitwise74/files-api/internal"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Status reports whether the session store and the database answer
func Status(c *gin.Context, d *internal.Deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	var redisOK, dbOK bool
	var wg conc.WaitGroup

	wg.Go(func() {
		err := d.Sessions.Ping(ctx)
		if err != nil {
			zap.L().Warn("Session store ping failed", zap.Error(err))
		}
		redisOK = err == nil
	})
	wg.Go(func() {
		err := d.Store.Ping(ctx)
		if err != nil {
			zap.L().Warn("Database ping failed", zap.Error(err))
		}
		dbOK = err == nil
	})
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"redis": redisOK,
		"db":    dbOK,
	})
}

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
