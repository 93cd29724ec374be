package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// SearchProvider is the search service surface the handler consumes
type SearchProvider interface {
	Search(ctx context.Context, params dto.SearchParams) (*dto.SearchResults, error)
	Suggestions(ctx context.Context, query string, location *dto.Coordinates, limit int) ([]dto.Suggestion, error)
	Featured(ctx context.Context) ([]models.Property, error)
	Homepage(ctx context.Context) (*dto.HomepageData, error)
}

// AnalyticsProvider is the analytics surface the handler consumes
type AnalyticsProvider interface {
	PopularSearches(ctx context.Context, limit int) []dto.PopularSearch
}

type SearchHandler struct {
	*BaseHandler
	search    SearchProvider
	analytics AnalyticsProvider
}

func NewSearchHandler(base *BaseHandler, search SearchProvider, analytics AnalyticsProvider) *SearchHandler {
	return &SearchHandler{
		BaseHandler: base,
		search:      search,
		analytics:   analytics,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	params, ok := h.parseSearchParams(c)
	if !ok {
		return
	}

	results, err := h.search.Search(c.Request.Context(), params)
	if err != nil {
		h.RespondInternalError(c, "Search failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

// Suggestions handles GET /api/v1/search/suggestions
func (h *SearchHandler) Suggestions(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		h.RespondBadRequest(c, "Query parameter 'q' is required")
		return
	}

	location, ok := h.parseLocation(c)
	if !ok {
		return
	}

	suggestions, err := h.search.Suggestions(c.Request.Context(), query, location, queryInt(c, "limit", 10))
	if err != nil {
		h.RespondInternalError(c, "Suggestion lookup failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}

// Popular handles GET /api/v1/search/popular
func (h *SearchHandler) Popular(c *gin.Context) {
	searches := h.analytics.PopularSearches(c.Request.Context(), queryInt(c, "limit", 10))
	c.JSON(http.StatusOK, gin.H{"data": searches})
}

// Homepage handles GET /api/v1/homepage
func (h *SearchHandler) Homepage(c *gin.Context) {
	data, err := h.search.Homepage(c.Request.Context())
	if err != nil {
		h.RespondInternalError(c, "Homepage data unavailable", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *SearchHandler) parseSearchParams(c *gin.Context) (dto.SearchParams, bool) {
	params := dto.SearchParams{
		Query:  strings.TrimSpace(c.Query("q")),
		SortBy: c.Query("sort"),
	}
	params.Page, params.PageSize = h.ParsePagination(c)

	location, ok := h.parseLocation(c)
	if !ok {
		return params, false
	}
	params.Location = location

	filters := &dto.SearchFilters{}
	hasFilters := false

	if v, ok, valid := queryInt64Ptr(c, "min_price"); valid {
		if ok {
			filters.MinPrice = v
			hasFilters = true
		}
	} else {
		h.RespondBadRequest(c, "Invalid 'min_price' parameter")
		return params, false
	}
	if v, ok, valid := queryInt64Ptr(c, "max_price"); valid {
		if ok {
			filters.MaxPrice = v
			hasFilters = true
		}
	} else {
		h.RespondBadRequest(c, "Invalid 'max_price' parameter")
		return params, false
	}
	if v, ok, valid := queryIntPtr(c, "bedrooms"); valid {
		if ok {
			filters.Bedrooms = v
			hasFilters = true
		}
	} else {
		h.RespondBadRequest(c, "Invalid 'bedrooms' parameter")
		return params, false
	}
	if v, ok, valid := queryIntPtr(c, "bathrooms"); valid {
		if ok {
			filters.Bathrooms = v
			hasFilters = true
		}
	} else {
		h.RespondBadRequest(c, "Invalid 'bathrooms' parameter")
		return params, false
	}
	if types := c.Query("types"); types != "" {
		filters.PropertyTypes = strings.Split(types, ",")
		hasFilters = true
	}
	if v, ok, valid := queryBoolPtr(c, "pets"); valid {
		if ok {
			filters.PetsAllowed = v
			hasFilters = true
		}
	} else {
		h.RespondBadRequest(c, "Invalid 'pets' parameter")
		return params, false
	}
	if v, ok, valid := queryBoolPtr(c, "furnished"); valid {
		if ok {
			filters.Furnished = v
			hasFilters = true
		}
	} else {
		h.RespondBadRequest(c, "Invalid 'furnished' parameter")
		return params, false
	}

	if hasFilters {
		params.Filters = filters
	}
	return params, true
}

// parseLocation reads the optional lat/lng pair; both must be present together
func (h *SearchHandler) parseLocation(c *gin.Context) (*dto.Coordinates, bool) {
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw == "" && lngRaw == "" {
		return nil, true
	}
	if latRaw == "" || lngRaw == "" {
		h.RespondBadRequest(c, "Parameters 'lat' and 'lng' must be provided together")
		return nil, false
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		h.RespondBadRequest(c, "Invalid 'lat' parameter")
		return nil, false
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		h.RespondBadRequest(c, "Invalid 'lng' parameter")
		return nil, false
	}

	return &dto.Coordinates{Lat: lat, Lng: lng}, true
}

// query*Ptr helpers return (value, set, valid)

func queryInt64Ptr(c *gin.Context, name string) (*int64, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false, false
	}
	return &value, true, true
}

func queryIntPtr(c *gin.Context, name string) (*int, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false, false
	}
	return &value, true, true
}

func queryBoolPtr(c *gin.Context, name string) (*bool, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false, false
	}
	return &value, true, true
}
