package services

import (
	"context"
	"fmt"

	"github.com/heurekka/heurekka/internal/app/config"
	"github.com/heurekka/heurekka/internal/domain/services"
	"github.com/heurekka/heurekka/internal/infrastructure/cache"
	"github.com/heurekka/heurekka/internal/infrastructure/database"
	"github.com/heurekka/heurekka/internal/infrastructure/repositories/postgresql"
	"github.com/heurekka/heurekka/pkg/logger"
)

// ServiceManager manages all application services
type ServiceManager struct {
	Config *config.Config

	// Infrastructure
	DB           *database.DB
	Repositories *postgresql.Repositories
	CacheService services.CacheService

	// Domain services
	Analytics  *services.AnalyticsService
	Search     *services.SearchService
	Properties *services.PropertyService
}

// NewServiceManager creates a new service manager. The Messenger and
// SearchParser collaborators are optional; without a Messenger the contact
// workflow reports unavailable, without a SearchParser queries are matched
// verbatim.
func NewServiceManager(cfg *config.Config, db *database.DB, messenger services.Messenger, parser services.SearchParser, log *logger.Logger) (*ServiceManager, error) {
	repos := postgresql.NewRepositories(db)

	cacheService, err := cache.CreateCacheService(cfg.Redis.URL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache service: %w", err)
	}

	analytics := services.NewAnalyticsService(cacheService, log)

	sm := &ServiceManager{
		Config:       cfg,
		DB:           db,
		Repositories: repos,
		CacheService: cacheService,
		Analytics:    analytics,
		Search:       services.NewSearchService(repos.PropertyRepo, cacheService, analytics, parser, log),
		Properties:   services.NewPropertyService(repos.PropertyRepo, cacheService, analytics, messenger, log),
	}

	return sm, nil
}

// HealthCheck verifies the database and the cache store
func (sm *ServiceManager) HealthCheck(ctx context.Context) error {
	if err := sm.Repositories.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if status := sm.CacheService.HealthCheck(ctx); status.Status != services.HealthStatusHealthy {
		return fmt.Errorf("cache health check failed")
	}

	return nil
}

// Close gracefully shuts down all services
func (sm *ServiceManager) Close() error {
	// Cache close swallows its own errors so shutdown is never blocked
	sm.CacheService.Close()

	if err := sm.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
