package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/pkg/logger"
)

// AnalyticsService records search and listing-view activity in expiry-bounded
// counters and serves the popular-searches list computed from them. All of
// its state lives in the cache; losing it costs trend data, never correctness.
type AnalyticsService struct {
	cache CacheService
	log   *logger.Logger
}

func NewAnalyticsService(cache CacheService, log *logger.Logger) *AnalyticsService {
	return &AnalyticsService{cache: cache, log: log}
}

// NormalizeSearchTerm folds a raw query into its counter form
func NormalizeSearchTerm(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// RecordSearch bumps the counter for a search term; blank queries are ignored
func (a *AnalyticsService) RecordSearch(ctx context.Context, query string) {
	term := NormalizeSearchTerm(query)
	if term == "" {
		return
	}
	a.cache.IncrementSearchCount(ctx, term)
}

// SearchCount returns how often a term was searched within the analytics window
func (a *AnalyticsService) SearchCount(ctx context.Context, query string) int64 {
	return a.cache.GetSearchCount(ctx, NormalizeSearchTerm(query))
}

// RecordPropertyView bumps the view counter for a listing
func (a *AnalyticsService) RecordPropertyView(ctx context.Context, propertyID uuid.UUID) {
	a.cache.IncrementPropertyView(ctx, propertyID.String())
}

// PropertyViews returns the view counter for a listing
func (a *AnalyticsService) PropertyViews(ctx context.Context, propertyID uuid.UUID) int64 {
	return a.cache.GetPropertyViews(ctx, propertyID.String())
}

// PopularSearches returns the most-searched terms, cached for an hour
func (a *AnalyticsService) PopularSearches(ctx context.Context, limit int) []dto.PopularSearch {
	if limit <= 0 {
		limit = 10
	}

	if cached, ok := a.cache.GetPopularSearches(ctx); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached
	}

	terms := a.cache.TopSearchTerms(ctx, limit)
	if len(terms) > 0 {
		a.cache.SetPopularSearches(ctx, terms)
	}
	return terms
}
