package services

import (
	"context"
	"time"

	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// CacheService fronts the key-value store for the search/discovery API.
//
// The cache is a pure optimization: no operation here ever surfaces a store
// error to the caller. Reads report a miss, writes are fire-and-forget, the
// rate limiter fails open. Callers recompute from the source of truth on a
// miss.
type CacheService interface {
	// Typed get/set per data category, each with a fixed TTL
	GetFeaturedProperties(ctx context.Context, key string) ([]models.Property, bool)
	SetFeaturedProperties(ctx context.Context, key string, properties []models.Property)
	GetSearchResults(ctx context.Context, hash string) (*dto.SearchResults, bool)
	SetSearchResults(ctx context.Context, hash string, results *dto.SearchResults)
	GetSuggestions(ctx context.Context, query string, location *dto.Coordinates) ([]dto.Suggestion, bool)
	SetSuggestions(ctx context.Context, query string, location *dto.Coordinates, suggestions []dto.Suggestion)
	GetHomepageData(ctx context.Context) (*dto.HomepageData, bool)
	SetHomepageData(ctx context.Context, data *dto.HomepageData)
	GetPopularSearches(ctx context.Context) ([]dto.PopularSearch, bool)
	SetPopularSearches(ctx context.Context, searches []dto.PopularSearch)

	// Analytics counters (atomic at the store, expiry-bounded)
	IncrementSearchCount(ctx context.Context, term string)
	GetSearchCount(ctx context.Context, term string) int64
	IncrementPropertyView(ctx context.Context, propertyID string)
	GetPropertyViews(ctx context.Context, propertyID string) int64
	TopSearchTerms(ctx context.Context, limit int) []dto.PopularSearch

	// Rate limiting. Limited only when the counter strictly exceeds limit;
	// fails open when the store is unavailable.
	IsRateLimited(ctx context.Context, identifier string, limit int64, window time.Duration) bool

	// Session management. A non-positive ttl means DefaultSessionTTL.
	SetUserSession(ctx context.Context, sessionID string, session *dto.UserSession, ttl time.Duration)
	GetUserSession(ctx context.Context, sessionID string) (*dto.UserSession, bool)

	// Invalidation
	InvalidatePattern(ctx context.Context, pattern string)
	InvalidateFeaturedProperties(ctx context.Context)
	InvalidateHomepageData(ctx context.Context)

	HealthCheck(ctx context.Context) HealthStatus
	Close()
}

// HealthStatus reports store liveness; Latency is round-trip milliseconds,
// omitted when unhealthy.
type HealthStatus struct {
	Status  string  `json:"status"`
	Latency float64 `json:"latency_ms,omitempty"`
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)

// TTL policy, one fixed value per data category
const (
	FeaturedTTL        = 10 * time.Minute
	SearchResultsTTL   = 5 * time.Minute
	SuggestionsTTL     = 30 * time.Minute
	HomepageTTL        = 15 * time.Minute
	PopularSearchesTTL = time.Hour
	SearchCountTTL     = 7 * 24 * time.Hour
	PropertyViewTTL    = 30 * 24 * time.Hour

	DefaultSessionTTL      = time.Hour
	DefaultRateLimitWindow = 15 * time.Minute
	DefaultRateLimit       = int64(100)
)

// Search defaults folded into the fingerprint for unset fields
const (
	DefaultSort     = "relevance"
	DefaultPage     = 1
	DefaultPageSize = 24
)

// Every cache key carries the application prefix so the wildcard invalidation
// patterns below actually match what the setters wrote.
const keyPrefix = "heurekka:"

const (
	HomepageKey        = keyPrefix + "homepage:data"
	PopularSearchesKey = keyPrefix + "popular:searches"

	FeaturedPattern    = keyPrefix + "featured:*"
	SearchPattern      = keyPrefix + "search:*"
	SearchCountPattern = keyPrefix + "analytics:search_count:*"
)

// Key builders, the single place the key grammar lives

func FeaturedKey(key string) string {
	return keyPrefix + "featured:" + key
}

func SearchKey(hash string) string {
	return keyPrefix + "search:" + hash
}

// SuggestionsKey composes an optional location fingerprint into the key so
// geographically distinct queries for the same text are cached independently.
func SuggestionsKey(query, locationHash string) string {
	key := keyPrefix + "suggestions:" + query
	if locationHash != "" {
		key += ":" + locationHash
	}
	return key
}

func SearchCountKey(term string) string {
	return keyPrefix + "analytics:search_count:" + term
}

func PropertyViewKey(propertyID string) string {
	return keyPrefix + "analytics:property_views:" + propertyID
}

func RateLimitKey(identifier string) string {
	return keyPrefix + "rate_limit:" + identifier
}

func SessionKey(sessionID string) string {
	return keyPrefix + "session:" + sessionID
}

// SearchTermFromKey recovers the term from an analytics counter key
func SearchTermFromKey(key string) string {
	const prefix = keyPrefix + "analytics:search_count:"
	if len(key) <= len(prefix) {
		return ""
	}
	return key[len(prefix):]
}
