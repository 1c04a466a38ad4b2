package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/inspections"
	"inspection-backend/internal/shared/auth"
	"inspection-backend/internal/shared/config"
	"inspection-backend/internal/shared/metrics"
	"inspection-backend/internal/shared/server/middleware"
	"inspection-backend/internal/shared/server/respond"
	"inspection-backend/internal/shops"
	"inspection-backend/internal/shortlinks"
	"inspection-backend/internal/users"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config            config.Config
	Verifier          *auth.Verifier
	RateLimiter       *middleware.RateLimiter
	InspectionHandler *inspections.Handler
	ShopHandler       *shops.Handler
	ShortLinkHandler  *shortlinks.Handler
	UserHandler       *users.Handler
	Ready             func() error
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
		middleware.Auth(deps.Verifier, deps.Config.IsDevLike()),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRateRules(),
			GroupFor: middleware.DefaultGroupFor,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.ShortLinkHandler != nil {
		deps.ShortLinkHandler.RegisterRoutes(r)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "unavailable", "dependency check failed", nil)
				return
			}
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ShopHandler != nil {
		deps.ShopHandler.RegisterRoutes(api)
	}
	if deps.InspectionHandler != nil {
		deps.InspectionHandler.RegisterRoutes(api)
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
