package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// PropertyRepository is the source of truth the cache layer fronts
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Search applies filters, sorting and pagination over active listings
	Search(ctx context.Context, params dto.SearchParams) ([]models.Property, int64, error)

	// Suggest returns autocomplete entries for a query prefix
	Suggest(ctx context.Context, query string, limit int) ([]dto.Suggestion, error)

	Featured(ctx context.Context, limit int) ([]models.Property, error)
	CountActive(ctx context.Context) (int64, error)
}
