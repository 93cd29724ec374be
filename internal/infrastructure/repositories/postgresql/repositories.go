package postgresql

import (
	"context"
	"fmt"

	"github.com/heurekka/heurekka/internal/domain/repositories"
	"github.com/heurekka/heurekka/internal/infrastructure/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	PropertyRepo repositories.PropertyRepository

	// Internal reference to database for health checks
	db *database.DB
}

// NewRepositories creates a new repositories container
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		PropertyRepo: NewPropertyRepository(db),
		db:           db,
	}
}

// HealthCheck verifies database connectivity
func (r *Repositories) HealthCheck(ctx context.Context) error {
	sqlDB, err := r.db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
