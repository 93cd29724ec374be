package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
	"github.com/heurekka/heurekka/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchFixture(properties ...models.Property) (*SearchService, *fakeRepo, *fakeCache) {
	repo := &fakeRepo{properties: properties}
	cache := newFakeCache()
	log := logger.NewForTesting()
	analytics := NewAnalyticsService(cache, log)
	return NewSearchService(repo, cache, analytics, nil, log), repo, cache
}

type fakeParser struct {
	parsed dto.SearchParams
	err    error
	calls  int
}

func (p *fakeParser) Parse(ctx context.Context, query string) (dto.SearchParams, error) {
	p.calls++
	return p.parsed, p.err
}

func listing(title string, featured bool) models.Property {
	return models.Property{
		ID:           uuid.New(),
		Title:        title,
		PropertyType: models.PropertyTypeApartment,
		Neighborhood: "Palmira",
		City:         "Tegucigalpa",
		Price:        10000,
		IsFeatured:   featured,
		IsActive:     true,
	}
}

func TestSearchCacheAside(t *testing.T) {
	svc, repo, _ := newSearchFixture(listing("Apartamento Palmira", false))
	ctx := context.Background()
	params := dto.SearchParams{Query: "palmira"}

	first, err := svc.Search(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Total)
	assert.Equal(t, 1, repo.searchCalls)

	// Second identical request is served from cache
	second, err := svc.Search(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestSearchRecordsSearchTerm(t *testing.T) {
	svc, _, cache := newSearchFixture()
	ctx := context.Background()

	_, err := svc.Search(ctx, dto.SearchParams{Query: "  Casa  Palmira "})
	require.NoError(t, err)
	_, err = svc.Search(ctx, dto.SearchParams{Query: "casa palmira"})
	require.NoError(t, err)

	// Terms are normalized and counted even on cache hits
	assert.Equal(t, int64(2), cache.counts["casa palmira"])

	// Blank queries are not counted
	_, err = svc.Search(ctx, dto.SearchParams{})
	require.NoError(t, err)
	assert.Len(t, cache.counts, 1)
}

func TestSearchFillsDefaultsIntoResults(t *testing.T) {
	svc, _, _ := newSearchFixture(listing("A", false))

	results, err := svc.Search(context.Background(), dto.SearchParams{Query: "a"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, results.Page)
	assert.Equal(t, DefaultPageSize, results.PageSize)
}

func TestSearchRepositoryErrorPropagates(t *testing.T) {
	svc, repo, _ := newSearchFixture()
	repo.err = assert.AnError

	_, err := svc.Search(context.Background(), dto.SearchParams{Query: "x"})
	assert.Error(t, err)
}

func TestSearchUsesParserForFreeText(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	log := logger.NewForTesting()
	analytics := NewAnalyticsService(cache, log)
	parser := &fakeParser{parsed: dto.SearchParams{
		Query:   "apartamento",
		Filters: &dto.SearchFilters{Bedrooms: intPtr(2), MaxPrice: int64Ptr(12000)},
	}}
	svc := NewSearchService(repo, cache, analytics, parser, log)

	_, err := svc.Search(context.Background(), dto.SearchParams{Query: "2 bedroom apartment under 12000"})
	require.NoError(t, err)

	assert.Equal(t, 1, parser.calls)
	require.NotNil(t, repo.lastSearch.Filters)
	assert.Equal(t, 2, *repo.lastSearch.Filters.Bedrooms)
	assert.Equal(t, "apartamento", repo.lastSearch.Query)
	assert.Equal(t, DefaultPage, repo.lastSearch.Page)

	// The raw query is what gets counted, not the parsed form
	assert.Equal(t, int64(1), cache.counts["2 bedroom apartment under 12000"])
}

func TestSearchParserErrorFallsBackToVerbatim(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	log := logger.NewForTesting()
	analytics := NewAnalyticsService(cache, log)
	parser := &fakeParser{err: assert.AnError}
	svc := NewSearchService(repo, cache, analytics, parser, log)

	_, err := svc.Search(context.Background(), dto.SearchParams{Query: "casa"})
	require.NoError(t, err)
	assert.Equal(t, "casa", repo.lastSearch.Query)
}

func TestSearchParserSkippedForStructuredRequests(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	log := logger.NewForTesting()
	analytics := NewAnalyticsService(cache, log)
	parser := &fakeParser{}
	svc := NewSearchService(repo, cache, analytics, parser, log)

	_, err := svc.Search(context.Background(), dto.SearchParams{
		Query:   "casa",
		Filters: &dto.SearchFilters{Bedrooms: intPtr(3)},
	})
	require.NoError(t, err)
	assert.Zero(t, parser.calls, "explicit filters bypass the parser")
}

func TestSuggestionsCacheAsideWithLocationBuckets(t *testing.T) {
	svc, repo, _ := newSearchFixture(listing("Apartamento Palmira", false))
	ctx := context.Background()
	palmira := &dto.Coordinates{Lat: 14.0723, Lng: -87.2072}

	first, err := svc.Suggestions(ctx, "Apartamento", palmira, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.suggestCalls)

	// Same bucket hits the cache
	_, err = svc.Suggestions(ctx, "apartamento", &dto.Coordinates{Lat: 14.07231, Lng: -87.20722}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.suggestCalls)

	// A different part of town recomputes
	_, err = svc.Suggestions(ctx, "apartamento", &dto.Coordinates{Lat: 14.1, Lng: -87.19}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.suggestCalls)
}

func TestSuggestionsEmptyQuery(t *testing.T) {
	svc, repo, _ := newSearchFixture()

	suggestions, err := svc.Suggestions(context.Background(), "   ", nil, 10)
	require.NoError(t, err)
	assert.Nil(t, suggestions)
	assert.Zero(t, repo.suggestCalls)
}

func TestFeaturedCacheAside(t *testing.T) {
	svc, repo, _ := newSearchFixture(listing("Destacado", true), listing("Normal", false))
	ctx := context.Background()

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Destacado", featured[0].Title)
	assert.Equal(t, 1, repo.featuredCalls)

	_, err = svc.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.featuredCalls)
}

func TestHomepageComposition(t *testing.T) {
	svc, repo, cache := newSearchFixture(listing("Destacado", true), listing("Normal", false))
	ctx := context.Background()
	cache.counts["apartment"] = 7

	data, err := svc.Homepage(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Featured, 1)
	assert.Equal(t, int64(2), data.TotalListings)
	require.Len(t, data.PopularSearches, 1)
	assert.Equal(t, "apartment", data.PopularSearches[0].Term)
	assert.False(t, data.GeneratedAt.IsZero())

	// Second call is fully cache-served
	_, err = svc.Homepage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, 1, repo.featuredCalls)
}
