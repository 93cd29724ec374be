package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/domain/repositories"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
	"github.com/heurekka/heurekka/pkg/logger"
)

// ErrMessagingUnavailable is returned when no Messenger collaborator is configured
var ErrMessagingUnavailable = errors.New("messaging integration not configured")

// PropertyService handles listing reads and writes. Writes invalidate the
// derived cache entries so stale pages never outlive the write by more than
// one request.
type PropertyService struct {
	properties repositories.PropertyRepository
	cache      CacheService
	analytics  *AnalyticsService
	messenger  Messenger
	log        *logger.Logger
}

func NewPropertyService(
	properties repositories.PropertyRepository,
	cache CacheService,
	analytics *AnalyticsService,
	messenger Messenger,
	log *logger.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		cache:      cache,
		analytics:  analytics,
		messenger:  messenger,
		log:        log,
	}
}

// GetByID returns one listing and records the view
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.analytics.RecordPropertyView(ctx, id)
	return property, nil
}

// Create stores a new listing and clears the derived caches
func (s *PropertyService) Create(ctx context.Context, property *models.Property) error {
	if err := s.properties.Create(ctx, property); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// Update saves a listing and clears the derived caches
func (s *PropertyService) Update(ctx context.Context, property *models.Property) error {
	if err := s.properties.Update(ctx, property); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// Delete removes a listing and clears the derived caches
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// invalidateListings clears every cache category derived from listing data.
// Invalidation is fail-soft, so a store outage never breaks the write path.
func (s *PropertyService) invalidateListings(ctx context.Context) {
	s.cache.InvalidateFeaturedProperties(ctx)
	s.cache.InvalidateHomepageData(ctx)
	s.cache.InvalidatePattern(ctx, SearchPattern)
}

// ContactLink produces a messaging deep link for an inquiry about a listing
func (s *PropertyService) ContactLink(ctx context.Context, id uuid.UUID, inquiry dto.ContactRequest) (string, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.messenger == nil {
		return "", ErrMessagingUnavailable
	}
	link, err := s.messenger.ContactLink(property, inquiry)
	if err != nil {
		return "", fmt.Errorf("contact link generation failed: %w", err)
	}
	return link, nil
}
