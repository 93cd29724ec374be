package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/domain/repositories"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
	"github.com/heurekka/heurekka/pkg/logger"
)

const (
	featuredListKey  = "all"
	featuredLimit    = 12
	suggestionsLimit = 10
)

// SearchService serves the search/discovery API with a cache-aside strategy:
// fingerprint the request, try the cache, recompute from the repository on a
// miss and write the result back under the category's TTL.
type SearchService struct {
	properties repositories.PropertyRepository
	cache      CacheService
	analytics  *AnalyticsService
	parser     SearchParser
	log        *logger.Logger
}

// NewSearchService wires the search workflow. The SearchParser collaborator is
// optional; without one free-text queries are matched verbatim.
func NewSearchService(
	properties repositories.PropertyRepository,
	cache CacheService,
	analytics *AnalyticsService,
	parser SearchParser,
	log *logger.Logger,
) *SearchService {
	return &SearchService{
		properties: properties,
		cache:      cache,
		analytics:  analytics,
		parser:     parser,
		log:        log,
	}
}

// Search runs one search request, serving from cache when possible
func (s *SearchService) Search(ctx context.Context, params dto.SearchParams) (*dto.SearchResults, error) {
	params = normalizeParams(params)
	s.analytics.RecordSearch(ctx, params.Query)
	params = s.parseQuery(ctx, params)

	hash := SearchHash(params)
	if results, ok := s.cache.GetSearchResults(ctx, hash); ok {
		return results, nil
	}

	properties, total, err := s.properties.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("property search failed: %w", err)
	}

	results := &dto.SearchResults{
		Properties: properties,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}
	s.cache.SetSearchResults(ctx, hash, results)
	return results, nil
}

// Suggestions returns autocomplete entries, bucketed by rounded location so
// nearby users share a cache entry
func (s *SearchService) Suggestions(ctx context.Context, query string, location *dto.Coordinates, limit int) ([]dto.Suggestion, error) {
	if limit <= 0 || limit > suggestionsLimit {
		limit = suggestionsLimit
	}
	term := NormalizeSearchTerm(query)
	if term == "" {
		return nil, nil
	}

	if suggestions, ok := s.cache.GetSuggestions(ctx, term, location); ok {
		return suggestions, nil
	}

	suggestions, err := s.properties.Suggest(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("suggestion lookup failed: %w", err)
	}

	s.cache.SetSuggestions(ctx, term, location, suggestions)
	return suggestions, nil
}

// Featured returns the curated featured listings
func (s *SearchService) Featured(ctx context.Context) ([]models.Property, error) {
	if properties, ok := s.cache.GetFeaturedProperties(ctx, featuredListKey); ok {
		return properties, nil
	}

	properties, err := s.properties.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("featured lookup failed: %w", err)
	}

	s.cache.SetFeaturedProperties(ctx, featuredListKey, properties)
	return properties, nil
}

// Homepage composes the landing-page payload
func (s *SearchService) Homepage(ctx context.Context) (*dto.HomepageData, error) {
	if data, ok := s.cache.GetHomepageData(ctx); ok {
		return data, nil
	}

	featured, err := s.Featured(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.properties.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}

	data := &dto.HomepageData{
		Featured:        featured,
		PopularSearches: s.analytics.PopularSearches(ctx, 10),
		TotalListings:   total,
		GeneratedAt:     time.Now().UTC(),
	}
	s.cache.SetHomepageData(ctx, data)
	return data, nil
}

// parseQuery hands a free-text query to the smart-search collaborator when one
// is configured and the caller supplied no structured filters of their own.
// Parsing is best-effort: on error the verbatim text search proceeds.
func (s *SearchService) parseQuery(ctx context.Context, params dto.SearchParams) dto.SearchParams {
	if s.parser == nil || params.Query == "" || params.Filters != nil {
		return params
	}

	parsed, err := s.parser.Parse(ctx, params.Query)
	if err != nil {
		s.log.Warn("smart search parse failed", "query", params.Query, "error", err)
		return params
	}

	// Pagination and sorting stay under the caller's control
	parsed.SortBy = params.SortBy
	parsed.Page = params.Page
	parsed.PageSize = params.PageSize
	if parsed.Location == nil {
		parsed.Location = params.Location
	}
	return normalizeParams(parsed)
}

// normalizeParams fills defaults and trims free text so equivalent requests
// fingerprint identically
func normalizeParams(params dto.SearchParams) dto.SearchParams {
	params.Query = strings.TrimSpace(params.Query)
	if params.SortBy == "" {
		params.SortBy = DefaultSort
	}
	if params.Page <= 0 {
		params.Page = DefaultPage
	}
	if params.PageSize <= 0 {
		params.PageSize = DefaultPageSize
	}
	return params
}
