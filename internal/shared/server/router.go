package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/analyses"
	"jobfit-backend/internal/shared/config"
	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/uploads"
)

const rateLimitGroupAPI = "API"

// RouterDeps carries the handlers mounted by NewRouter. UploadsHandler is
// optional and only set when S3 uploads are configured.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	UploadsHandler  *uploads.Handler
	RateLimiter     *middleware.RateLimiter
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
		metrics.HTTPMiddleware(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:      deps.RateLimiter,
			DefaultGroup: rateLimitGroupAPI,
			GroupFor:     rateLimitGroup,
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupAPI: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.UploadsHandler != nil {
		deps.UploadsHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup exempts health and metrics scrapes.
func rateLimitGroup(c *gin.Context) string {
	switch c.FullPath() {
	case "/api/health", "/metrics", "":
		return "UNLIMITED"
	default:
		return rateLimitGroupAPI
	}
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
