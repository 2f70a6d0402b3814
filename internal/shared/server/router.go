package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vetlab-backend/internal/analyses"
	"vetlab-backend/internal/shared/config"
	"vetlab-backend/internal/shared/metrics"
	"vetlab-backend/internal/shared/server/middleware"
	"vetlab-backend/internal/shared/server/respond"
	"vetlab-backend/internal/usage"
)

// Submissions and interpretations invoke the inference service, so they get
// their own rate bucket.
const modelBackedGroup = "MODEL"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	UsageHandler    *usage.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(deps.Config.Env))
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			modelBackedGroup: {Rate: 0.5, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			full := c.FullPath()
			if strings.HasSuffix(full, "/analyses") || strings.HasSuffix(full, "/interpret") {
				return modelBackedGroup
			}
			return ""
		},
	}))

	deps.AnalysisHandler.RegisterRoutes(api)
	deps.UsageHandler.RegisterRoutes(api)
	if deps.Config.Env == "dev" {
		dev := api.Group("/dev")
		deps.UsageHandler.RegisterDevRoutes(dev)
	}

	return r
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
