package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/api/handlers"
	apimiddleware "github.com/graphgen/infographic-api/internal/api/middleware"
	"github.com/graphgen/infographic-api/internal/config"
	"github.com/graphgen/infographic-api/internal/llm"
	"github.com/graphgen/infographic-api/internal/metrics"
	"github.com/graphgen/infographic-api/internal/middleware"
	"github.com/graphgen/infographic-api/internal/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// CloudWatch API metrics (production only; disabled client no-ops)
	router.Use(apimiddleware.APIMetrics(cw))

	usageService := services.NewUsageService(db)
	debugStore := services.NewDebugStore(cfg.DebugDir)
	providerFactory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)

	// Health check
	healthHandler := handlers.NewHealthHandler(db, cfg, version)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/api/health", healthHandler.HealthCheck)

	// API root
	router.GET("/api", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Infographic generation API", "version": version})
	})

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Auth routes (public; usage attaches the user when a token is
	// present so Sentry scopes are attributed)
	authHandler := handlers.NewAuthHandler(db, cfg, usageService)
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/usage/:username", middleware.OptionalJWTAuth(db, cfg), authHandler.Usage)
	}

	// User routes (protected)
	userHandler := handlers.NewUserHandler(usageService)
	v1 := router.Group("/api/v1", middleware.JWTAuth(db, cfg))
	{
		v1.GET("/me", userHandler.GetProfile)
		v1.GET("/usage/stats", userHandler.UsageStats)
	}

	// Account management (admin only)
	adminHandler := handlers.NewAdminHandler(db, usageService)
	admin := router.Group("/api/admin", middleware.JWTAuth(db, cfg), middleware.AdminRequired())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id/role", adminHandler.UpdateRole)
		admin.PUT("/users/:id/usage", adminHandler.ResetUsage)
	}

	// Generation (protected)
	generationHandler := handlers.NewGenerationHandler(cfg, usageService, debugStore, providerFactory, cw)
	router.POST("/api/generate", middleware.JWTAuth(db, cfg), generationHandler.Generate)

	// Debug artifacts (admin only)
	debugHandler := handlers.NewDebugHandler(debugStore)
	debug := router.Group("/api/debug", middleware.JWTAuth(db, cfg), middleware.AdminRequired())
	{
		debug.GET("/blueprint", debugHandler.Blueprint)
		debug.GET("/prompt", debugHandler.Prompt)
	}

	return router
}
