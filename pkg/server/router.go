package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"functions-sample-api/docs"
	"functions-sample-api/internal/auth"
	"functions-sample-api/internal/config"
	"functions-sample-api/internal/host"
	"functions-sample-api/internal/middleware"
	"functions-sample-api/internal/version"
)

const (
	maxRequestSize       = 10 * 1024 * 1024
	slowRequestThreshold = time.Second
)

// NewRouter builds the gin engine serving the container's function routes
func NewRouter(container *Container) *gin.Engine {
	if container.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	SetupMiddleware(router, container.Config)
	SetupRoutes(router, container)

	if container.Config.Environment == "development" {
		SetupDevelopmentRoutes(router, container)
	}

	return router
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxRequestSize))

	if cfg.RateLimit.RequestsPerSecond > 0 {
		router.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	router.Use(middleware.StructuredLogger())
	router.Use(middleware.PerformanceMonitor(slowRequestThreshold))
}

// SetupRoutes configures host routes and hands everything else to the dispatcher
func SetupRoutes(router *gin.Engine, container *Container) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"version":   version.Info(),
			"mode":      config.GetDeploymentMode(),
		})
	})

	if container.Config.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = container.Dispatcher.Prefix()
		if docs.SwaggerInfo.BasePath == "" {
			docs.SwaggerInfo.BasePath = "/"
		}
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.NoRoute(host.GinHandler(container.Dispatcher))
}

// SetupDevelopmentRoutes adds development-only routes
func SetupDevelopmentRoutes(router *gin.Engine, container *Container) {
	if !container.Tokens.Enabled() {
		return
	}

	dev := router.Group("/dev")
	{
		// Demo admin token for exercising admin-level routes
		dev.POST("/token", func(c *gin.Context) {
			token, err := container.Tokens.GenerateToken("demo-user", []string{auth.RoleAdmin})
			if err != nil {
				logrus.WithError(err).Error("Failed to issue demo token")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})
	}
}
