package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/domain/repositories"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// fakeCache is an in-memory CacheService for exercising the services above it
type fakeCache struct {
	featured      map[string][]models.Property
	searchResults map[string]*dto.SearchResults
	suggestions   map[string][]dto.Suggestion
	homepage      *dto.HomepageData
	popular       []dto.PopularSearch
	popularSet    bool
	counts        map[string]int64
	views         map[string]int64
	sessions      map[string]*dto.UserSession
	limited       bool
	invalidated   []string
	closed        bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		featured:      make(map[string][]models.Property),
		searchResults: make(map[string]*dto.SearchResults),
		suggestions:   make(map[string][]dto.Suggestion),
		counts:        make(map[string]int64),
		views:         make(map[string]int64),
		sessions:      make(map[string]*dto.UserSession),
	}
}

var _ CacheService = (*fakeCache)(nil)

func (f *fakeCache) GetFeaturedProperties(ctx context.Context, key string) ([]models.Property, bool) {
	v, ok := f.featured[key]
	return v, ok
}

func (f *fakeCache) SetFeaturedProperties(ctx context.Context, key string, properties []models.Property) {
	f.featured[key] = properties
}

func (f *fakeCache) GetSearchResults(ctx context.Context, hash string) (*dto.SearchResults, bool) {
	v, ok := f.searchResults[hash]
	return v, ok
}

func (f *fakeCache) SetSearchResults(ctx context.Context, hash string, results *dto.SearchResults) {
	f.searchResults[hash] = results
}

func (f *fakeCache) GetSuggestions(ctx context.Context, query string, location *dto.Coordinates) ([]dto.Suggestion, bool) {
	v, ok := f.suggestions[f.suggestionKey(query, location)]
	return v, ok
}

func (f *fakeCache) SetSuggestions(ctx context.Context, query string, location *dto.Coordinates, suggestions []dto.Suggestion) {
	f.suggestions[f.suggestionKey(query, location)] = suggestions
}

func (f *fakeCache) suggestionKey(query string, location *dto.Coordinates) string {
	locationHash := ""
	if location != nil {
		locationHash = LocationHash(*location)
	}
	return SuggestionsKey(query, locationHash)
}

func (f *fakeCache) GetHomepageData(ctx context.Context) (*dto.HomepageData, bool) {
	return f.homepage, f.homepage != nil
}

func (f *fakeCache) SetHomepageData(ctx context.Context, data *dto.HomepageData) {
	f.homepage = data
}

func (f *fakeCache) GetPopularSearches(ctx context.Context) ([]dto.PopularSearch, bool) {
	return f.popular, f.popularSet
}

func (f *fakeCache) SetPopularSearches(ctx context.Context, searches []dto.PopularSearch) {
	f.popular = searches
	f.popularSet = true
}

func (f *fakeCache) IncrementSearchCount(ctx context.Context, term string) {
	f.counts[term]++
}

func (f *fakeCache) GetSearchCount(ctx context.Context, term string) int64 {
	return f.counts[term]
}

func (f *fakeCache) IncrementPropertyView(ctx context.Context, propertyID string) {
	f.views[propertyID]++
}

func (f *fakeCache) GetPropertyViews(ctx context.Context, propertyID string) int64 {
	return f.views[propertyID]
}

func (f *fakeCache) TopSearchTerms(ctx context.Context, limit int) []dto.PopularSearch {
	terms := make([]dto.PopularSearch, 0, len(f.counts))
	for term, count := range f.counts {
		terms = append(terms, dto.PopularSearch{Term: term, Count: count})
	}
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

func (f *fakeCache) IsRateLimited(ctx context.Context, identifier string, limit int64, window time.Duration) bool {
	return f.limited
}

func (f *fakeCache) SetUserSession(ctx context.Context, sessionID string, session *dto.UserSession, ttl time.Duration) {
	f.sessions[sessionID] = session
}

func (f *fakeCache) GetUserSession(ctx context.Context, sessionID string) (*dto.UserSession, bool) {
	v, ok := f.sessions[sessionID]
	return v, ok
}

func (f *fakeCache) InvalidatePattern(ctx context.Context, pattern string) {
	f.invalidated = append(f.invalidated, pattern)
}

func (f *fakeCache) InvalidateFeaturedProperties(ctx context.Context) {
	f.featured = make(map[string][]models.Property)
	f.invalidated = append(f.invalidated, FeaturedPattern)
}

func (f *fakeCache) InvalidateHomepageData(ctx context.Context) {
	f.homepage = nil
	f.invalidated = append(f.invalidated, HomepageKey)
}

func (f *fakeCache) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{Status: HealthStatusHealthy, Latency: 0.1}
}

func (f *fakeCache) Close() {
	f.closed = true
}

// fakeRepo is an in-memory PropertyRepository counting its calls
type fakeRepo struct {
	properties []models.Property

	searchCalls   int
	lastSearch    dto.SearchParams
	suggestCalls  int
	featuredCalls int
	countCalls    int

	err error
}

var _ repositories.PropertyRepository = (*fakeRepo)(nil)

func (f *fakeRepo) Create(ctx context.Context, property *models.Property) error {
	if f.err != nil {
		return f.err
	}
	f.properties = append(f.properties, *property)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.properties {
		if f.properties[i].ID == id {
			p := f.properties[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRepo) Update(ctx context.Context, property *models.Property) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.properties {
		if f.properties[i].ID == property.ID {
			f.properties[i] = *property
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.properties {
		if f.properties[i].ID == id {
			f.properties = append(f.properties[:i], f.properties[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeRepo) Search(ctx context.Context, params dto.SearchParams) ([]models.Property, int64, error) {
	f.searchCalls++
	f.lastSearch = params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.properties, int64(len(f.properties)), nil
}

func (f *fakeRepo) Suggest(ctx context.Context, query string, limit int) ([]dto.Suggestion, error) {
	f.suggestCalls++
	if f.err != nil {
		return nil, f.err
	}
	suggestions := make([]dto.Suggestion, 0, len(f.properties))
	for i := range f.properties {
		suggestions = append(suggestions, dto.Suggestion{Text: f.properties[i].Title, Type: "property"})
	}
	return suggestions, nil
}

func (f *fakeRepo) Featured(ctx context.Context, limit int) ([]models.Property, error) {
	f.featuredCalls++
	if f.err != nil {
		return nil, f.err
	}
	var featured []models.Property
	for i := range f.properties {
		if f.properties[i].IsFeatured {
			featured = append(featured, f.properties[i])
		}
	}
	return featured, nil
}

func (f *fakeRepo) CountActive(ctx context.Context) (int64, error) {
	f.countCalls++
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.properties)), nil
}
