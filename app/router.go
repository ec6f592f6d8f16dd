package app

import (
	"bitwise74/files-api/app/file"
	"bitwise74/files-api/app/root"
	"bitwise74/files-api/app/user"
	"bitwise74/files-api/internal"
	"bitwise74/files-api/pkg/middleware"
	"net/http"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewRouter(d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:  allowedOrigins(),
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TokenHeader},
			ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	token := middleware.NewTokenMiddleware(d.Auth)
	optionalToken := middleware.NewOptionalTokenMiddleware(d.Auth)
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})

	// GET /status			-> Reports whether redis and the db are reachable
	router.GET("/status", func(c *gin.Context) { root.Status(c, d) })

	// HEAD /status			-> Used to check if the server is alive
	router.HEAD("/status", root.Heartbeat)

	// GET /stats			-> Returns the number of users and files
	router.GET("/stats", statsCache(), func(c *gin.Context) { root.Stats(c, d) })

	// GET /connect			-> Exchanges Basic credentials for a token
	router.GET("/connect", rateLimiter, func(c *gin.Context) { user.UserConnect(c, d) })

	// GET /disconnect		-> Revokes the token
	router.GET("/disconnect", token, func(c *gin.Context) { user.UserDisconnect(c, d) })

	u := router.Group("/users")
	{
		// POST /users			-> Registers a new user
		u.POST("", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { user.UserRegister(c, d) })

		// GET /users/me		-> Returns the current user
		u.GET("/me", token, user.UserMe)
	}

	f := router.Group("/files")
	{
		// GET /files			-> Lists the user's files under parentId
		f.GET("", token, func(c *gin.Context) { file.FileList(c, d) })

		// POST /files			-> Creates a file or folder
		f.POST("", token, middleware.BodySizeLimiter(uploadLimit()), func(c *gin.Context) { file.FileUpload(c, d) })

		// GET /files/:id		-> Returns a file record if the user owns it
		f.GET("/:id", token, func(c *gin.Context) { file.FileFetch(c, d) })

		// PUT /files/:id/publish	-> Makes a file public
		f.PUT("/:id/publish", token, func(c *gin.Context) { file.FileSetVisibility(c, d, true) })

		// PUT /files/:id/unpublish	-> Makes a file private
		f.PUT("/:id/unpublish", token, func(c *gin.Context) { file.FileSetVisibility(c, d, false) })

		// GET /files/:id/data		-> Serves the file content
		f.GET("/:id/data", optionalToken, func(c *gin.Context) { file.FileData(c, d) })
	}

	return router
}

// Base64 inflates the payload by a third, so the JSON body may be larger
// than the decoded file
func uploadLimit() int64 {
	return viper.GetInt64("upload.max_size")*4/3 + 1<<20
}

func allowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(viper.GetString("host.cors"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	if len(origins) == 0 {
		return []string{"*"}
	}

	return origins
}

func statsCache() gin.HandlerFunc {
	ttl := time.Duration(viper.GetInt("cache.stats_ttl")) * time.Second
	if ttl <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return cache.CacheByRequestURI(persist.NewMemoryStore(time.Minute), ttl)
}
