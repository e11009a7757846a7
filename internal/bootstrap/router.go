package bootstrap

import (
	"log"
	"net/http"

	"github.com/go-taskgate/taskgate/internal/config"
	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/middleware"
	"github.com/go-taskgate/taskgate/internal/services"
	"github.com/go-taskgate/taskgate/internal/store"
	"github.com/go-taskgate/taskgate/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	userService *services.UserService,
	tokenProvider *token.Provider,
	recorder metrics.Recorder,
	rateLimitRedisClient *redis.Client,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", createHealthCheckHandler(db))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup rate limiting
	rateLimiters := setupRateLimiting(cfg, rateLimitRedisClient)

	// Setup all routes
	setupAllRoutes(r, h, userService, tokenProvider, recorder, rateLimiters)

	logServerStartup(cfg)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuth(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(
	r *gin.Engine,
	h handlerSet,
	userService *services.UserService,
	tokenProvider *token.Provider,
	recorder metrics.Recorder,
	rateLimiters rateLimitMiddlewares,
) {
	requireAuth := middleware.RequireAuth(userService, tokenProvider, recorder)

	// User routes: registration and login are public but rate limited,
	// the admin probe sits behind both gates
	users := r.Group("/users")
	{
		users.POST("/register", rateLimiters.register, h.user.Register)
		users.POST("/login", rateLimiters.login, h.user.Login)
		users.GET("/admin-only", requireAuth, middleware.RequireAdmin(), h.user.AdminOnly)
	}

	// Task routes all require authentication
	tasks := r.Group("/tasks", requireAuth)
	{
		tasks.POST("", h.task.Create)
		tasks.GET("", h.task.List)
		tasks.GET("/:id", h.task.Get)
		tasks.PUT("/:id", h.task.Update)
		tasks.DELETE("/:id", h.task.Delete)
	}
}

// createHealthCheckHandler creates health check endpoint handler
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Task service starting on %s", cfg.ServerAddr)
	log.Printf("Database driver: %s", cfg.DatabaseDriver)
	log.Printf("Access tokens expire after %s", cfg.JWTExpiration)
}
