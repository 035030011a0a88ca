package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"lawyerup-backend/internal/news"
	"lawyerup-backend/internal/shared/auth"
	"lawyerup-backend/internal/shared/config"
	"lawyerup-backend/internal/shared/metrics"
	"lawyerup-backend/internal/shared/server/middleware"
	"lawyerup-backend/internal/shared/server/respond"
	"lawyerup-backend/internal/uploads"
)

// Rate limit groups. Reads are not limited.
const (
	rateGroupUpload   = "UPLOAD"
	rateGroupWrite    = "WRITE"
	rateGroupReaction = "REACTION"
)

// RouterDeps carries the handlers and shared services the router mounts.
type RouterDeps struct {
	Config        config.Config
	Verifier      *auth.Verifier
	NewsHandler   *news.Handler
	UploadHandler *uploads.Handler
	// UploadsRoot is the directory holding the local "uploads" tree.
	UploadsRoot string
	Limiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(deps.Verifier),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:  deps.Limiter,
			GroupFor: middleware.RouteGroups(rateGroups),
			Rules: map[string]middleware.RateLimitRule{
				rateGroupUpload:   {Rate: 0.5, Burst: 10},
				rateGroupWrite:    {Rate: 1, Burst: 20},
				rateGroupReaction: {Rate: 5, Burst: 30},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.UploadsRoot != "" {
		r.Static("/uploads", filepath.Join(deps.UploadsRoot, "uploads"))
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.NewsHandler != nil {
		deps.NewsHandler.RegisterRoutes(api)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(api)
	}

	return r
}

var rateGroups = map[string]string{
	"POST /api/v1/uploads/:field":             rateGroupUpload,
	"POST /api/v1/news":                       rateGroupWrite,
	"PUT /api/v1/news/:id":                    rateGroupWrite,
	"DELETE /api/v1/news/:id":                 rateGroupWrite,
	"POST /api/v1/news/:id/comments":          rateGroupWrite,
	"DELETE /api/v1/news/:id/comments/:index": rateGroupWrite,
	"POST /api/v1/news/:id/like":              rateGroupReaction,
	"POST /api/v1/news/:id/unlike":            rateGroupReaction,
	"POST /api/v1/news/:id/dislike":           rateGroupReaction,
	"POST /api/v1/news/:id/undislike":         rateGroupReaction,
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
