package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/domain/services"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
	"github.com/heurekka/heurekka/pkg/logger"
)

// Cache implements services.CacheService over an injected Store.
//
// Failure policy: every store error is logged and swallowed here. Reads
// degrade to a miss, writes to a no-op, counters to zero and the rate
// limiter to "not limited".
type Cache struct {
	store Store
	log   *logger.Logger
}

// CreateCacheService connects to Redis and wraps it in the cache service
func CreateCacheService(redisURL string, log *logger.Logger) (services.CacheService, error) {
	store, err := NewRedisStore(redisURL)
	if err != nil {
		return nil, err
	}
	return NewWithStore(store, log), nil
}

// NewWithStore builds the cache service on an existing store handle
func NewWithStore(store Store, log *logger.Logger) *Cache {
	return &Cache{store: store, log: log}
}

// getJSON reads and decodes one entry; any failure is a miss
func (c *Cache) getJSON(ctx context.Context, key, entry string, out interface{}) bool {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Error("cache read failed", "entry", entry, "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.log.Error("cache entry corrupt", "entry", entry, "key", key, "error", err)
		return false
	}
	return true
}

// setJSON encodes and writes one entry; failures never reach the caller
func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration, entry string) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Error("cache encode failed", "entry", entry, "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		c.log.Error("cache write failed", "entry", entry, "key", key, "error", err)
	}
}

func (c *Cache) GetFeaturedProperties(ctx context.Context, key string) ([]models.Property, bool) {
	var properties []models.Property
	if !c.getJSON(ctx, services.FeaturedKey(key), "featured properties", &properties) {
		return nil, false
	}
	return properties, true
}

func (c *Cache) SetFeaturedProperties(ctx context.Context, key string, properties []models.Property) {
	c.setJSON(ctx, services.FeaturedKey(key), properties, services.FeaturedTTL, "featured properties")
}

func (c *Cache) GetSearchResults(ctx context.Context, hash string) (*dto.SearchResults, bool) {
	var results dto.SearchResults
	if !c.getJSON(ctx, services.SearchKey(hash), "search results", &results) {
		return nil, false
	}
	return &results, true
}

func (c *Cache) SetSearchResults(ctx context.Context, hash string, results *dto.SearchResults) {
	c.setJSON(ctx, services.SearchKey(hash), results, services.SearchResultsTTL, "search results")
}

func (c *Cache) GetSuggestions(ctx context.Context, query string, location *dto.Coordinates) ([]dto.Suggestion, bool) {
	var suggestions []dto.Suggestion
	if !c.getJSON(ctx, suggestionsKey(query, location), "suggestions", &suggestions) {
		return nil, false
	}
	return suggestions, true
}

func (c *Cache) SetSuggestions(ctx context.Context, query string, location *dto.Coordinates, suggestions []dto.Suggestion) {
	c.setJSON(ctx, suggestionsKey(query, location), suggestions, services.SuggestionsTTL, "suggestions")
}

func suggestionsKey(query string, location *dto.Coordinates) string {
	locationHash := ""
	if location != nil {
		locationHash = services.LocationHash(*location)
	}
	return services.SuggestionsKey(query, locationHash)
}

func (c *Cache) GetHomepageData(ctx context.Context) (*dto.HomepageData, bool) {
	var data dto.HomepageData
	if !c.getJSON(ctx, services.HomepageKey, "homepage data", &data) {
		return nil, false
	}
	return &data, true
}

func (c *Cache) SetHomepageData(ctx context.Context, data *dto.HomepageData) {
	c.setJSON(ctx, services.HomepageKey, data, services.HomepageTTL, "homepage data")
}

func (c *Cache) GetPopularSearches(ctx context.Context) ([]dto.PopularSearch, bool) {
	var searches []dto.PopularSearch
	if !c.getJSON(ctx, services.PopularSearchesKey, "popular searches", &searches) {
		return nil, false
	}
	return searches, true
}

func (c *Cache) SetPopularSearches(ctx context.Context, searches []dto.PopularSearch) {
	c.setJSON(ctx, services.PopularSearchesKey, searches, services.PopularSearchesTTL, "popular searches")
}

// increment bumps a counter and refreshes its expiry window. Refreshing on
// every call keeps a hot counter alive and guarantees the key can never
// outlive its window even if an earlier expire call failed.
func (c *Cache) increment(ctx context.Context, key string, window time.Duration, entry string) {
	if _, err := c.store.Incr(ctx, key); err != nil {
		c.log.Error("counter increment failed", "entry", entry, "key", key, "error", err)
		return
	}
	if err := c.store.Expire(ctx, key, window); err != nil {
		c.log.Error("counter expire failed", "entry", entry, "key", key, "error", err)
	}
}

// counterValue reads a counter, degrading to 0 on absence or failure
func (c *Cache) counterValue(ctx context.Context, key, entry string) int64 {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Error("counter read failed", "entry", entry, "key", key, "error", err)
		return 0
	}
	if !found {
		return 0
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.log.Error("counter value corrupt", "entry", entry, "key", key, "error", err)
		return 0
	}
	return count
}

func (c *Cache) IncrementSearchCount(ctx context.Context, term string) {
	c.increment(ctx, services.SearchCountKey(term), services.SearchCountTTL, "search count")
}

func (c *Cache) GetSearchCount(ctx context.Context, term string) int64 {
	return c.counterValue(ctx, services.SearchCountKey(term), "search count")
}

func (c *Cache) IncrementPropertyView(ctx context.Context, propertyID string) {
	c.increment(ctx, services.PropertyViewKey(propertyID), services.PropertyViewTTL, "property views")
}

func (c *Cache) GetPropertyViews(ctx context.Context, propertyID string) int64 {
	return c.counterValue(ctx, services.PropertyViewKey(propertyID), "property views")
}

// TopSearchTerms aggregates the search counters into a ranked list
func (c *Cache) TopSearchTerms(ctx context.Context, limit int) []dto.PopularSearch {
	keys, err := c.store.Keys(ctx, services.SearchCountPattern)
	if err != nil {
		c.log.Error("search counter scan failed", "pattern", services.SearchCountPattern, "error", err)
		return nil
	}

	terms := make([]dto.PopularSearch, 0, len(keys))
	for _, key := range keys {
		term := services.SearchTermFromKey(key)
		if term == "" {
			continue
		}
		count := c.counterValue(ctx, key, "search count")
		if count > 0 {
			terms = append(terms, dto.PopularSearch{Term: term, Count: count})
		}
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

func (c *Cache) IsRateLimited(ctx context.Context, identifier string, limit int64, window time.Duration) bool {
	if limit <= 0 {
		limit = services.DefaultRateLimit
	}
	if window <= 0 {
		window = services.DefaultRateLimitWindow
	}

	key := services.RateLimitKey(identifier)
	count, err := c.store.Incr(ctx, key)
	if err != nil {
		// Fail open: never block a request because the limiter's store is down
		c.log.Error("rate limit increment failed", "key", key, "error", err)
		return false
	}
	if count == 1 {
		if err := c.store.Expire(ctx, key, window); err != nil {
			c.log.Error("rate limit expire failed", "key", key, "error", err)
		}
	}
	return count > limit
}

func (c *Cache) SetUserSession(ctx context.Context, sessionID string, session *dto.UserSession, ttl time.Duration) {
	if ttl <= 0 {
		ttl = services.DefaultSessionTTL
	}
	raw, err := json.Marshal(session)
	if err != nil {
		c.log.Error("session encode failed", "session_id", sessionID, "error", err)
		return
	}
	if err := c.store.Set(ctx, services.SessionKey(sessionID), string(raw), ttl); err != nil {
		c.log.Error("session write failed", "session_id", sessionID, "error", err)
	}
}

func (c *Cache) GetUserSession(ctx context.Context, sessionID string) (*dto.UserSession, bool) {
	var session dto.UserSession
	if !c.getJSON(ctx, services.SessionKey(sessionID), "user session", &session) {
		return nil, false
	}
	return &session, true
}

// InvalidatePattern deletes every key matching the glob in one batch. Zero
// matches means no delete call at all.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	keys, err := c.store.Keys(ctx, pattern)
	if err != nil {
		c.log.Error("cache invalidation scan failed", "pattern", pattern, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if _, err := c.store.Del(ctx, keys...); err != nil {
		c.log.Error("cache invalidation delete failed", "pattern", pattern, "error", err)
	}
}

func (c *Cache) InvalidateFeaturedProperties(ctx context.Context) {
	c.InvalidatePattern(ctx, services.FeaturedPattern)
}

// InvalidateHomepageData deletes the singleton homepage key directly,
// skipping the pattern scan.
func (c *Cache) InvalidateHomepageData(ctx context.Context) {
	if _, err := c.store.Del(ctx, services.HomepageKey); err != nil {
		c.log.Error("homepage invalidation failed", "key", services.HomepageKey, "error", err)
	}
}

func (c *Cache) HealthCheck(ctx context.Context) services.HealthStatus {
	start := time.Now()
	if err := c.store.Ping(ctx); err != nil {
		c.log.Error("cache health check failed", "error", err)
		return services.HealthStatus{Status: services.HealthStatusUnhealthy}
	}
	return services.HealthStatus{
		Status:  services.HealthStatusHealthy,
		Latency: float64(time.Since(start).Microseconds()) / 1000.0,
	}
}

// Close shuts the store connection down; errors are logged so shutdown
// sequences are never blocked by a disconnect failure.
func (c *Cache) Close() {
	if err := c.store.Close(); err != nil {
		c.log.Error("cache close failed", "error", err)
	}
}
