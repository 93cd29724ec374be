package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/heurekka/heurekka/internal/app/config"
	"github.com/heurekka/heurekka/internal/app/handlers"
	"github.com/heurekka/heurekka/internal/app/middleware"
	appservices "github.com/heurekka/heurekka/internal/app/services"
	"github.com/heurekka/heurekka/internal/infrastructure/database"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
	"github.com/heurekka/heurekka/pkg/logger"
)

type Server struct {
	config   *config.Config
	logger   *logger.Logger
	router   *gin.Engine
	server   *http.Server
	services *appservices.ServiceManager
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}

	if !cfg.IsProduction() {
		if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
			log.Warn("Database migration failed", "error", err)
		}
	}

	sm, err := appservices.NewServiceManager(cfg, db, nil, nil, log)
	if err != nil {
		return nil, err
	}

	// Configure Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(loggingMiddleware(log))

	server := &Server{
		config:   cfg,
		logger:   log,
		router:   router,
		services: sm,
	}

	server.setupRoutes()

	return server, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.services.Close(); err != nil {
		s.logger.Error("Error closing services", "error", err)
	}

	return s.server.Shutdown(ctx)
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	base := handlers.NewBaseHandler(s.config.Limits.MaxPageSize, s.config.Limits.DefaultPageSize)
	searchHandler := handlers.NewSearchHandler(base, s.services.Search, s.services.Analytics)
	propertyHandler := handlers.NewPropertyHandler(base, s.services.Properties, s.services.Search)

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.RateLimit(s.services.CacheService, s.config.Limits.RateLimit, s.config.Limits.RateLimitWindow))
	v1.Use(middleware.Session(s.services.CacheService))
	{
		v1.GET("/search", searchHandler.Search)
		v1.GET("/search/suggestions", searchHandler.Suggestions)
		v1.GET("/search/popular", searchHandler.Popular)
		v1.GET("/homepage", searchHandler.Homepage)

		v1.GET("/properties/featured", propertyHandler.Featured)
		v1.GET("/properties/:id", propertyHandler.GetByID)
		v1.POST("/properties/:id/contact", propertyHandler.Contact)
	}
}

// Health check handler
func (s *Server) healthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := s.services.DB.Ping(); err != nil {
		dbStatus = "unhealthy"
	}

	cacheStatus := s.services.CacheService.HealthCheck(c.Request.Context())

	overall := "healthy"
	status := http.StatusOK
	if dbStatus != "healthy" || cacheStatus.Status != "healthy" {
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":      overall,
		"database":    dbStatus,
		"cache":       cacheStatus,
		"timestamp":   time.Now().UTC(),
		"environment": s.config.Environment,
	})
}

// corsMiddleware configures CORS
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(corsConfig)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}
