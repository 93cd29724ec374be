package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// Coordinates is a WGS84 point used for location-scoped search and suggestions
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchFilters narrows a property search. Nil pointer fields are "not set".
type SearchFilters struct {
	MinPrice      *int64   `json:"min_price,omitempty"`
	MaxPrice      *int64   `json:"max_price,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *int     `json:"bathrooms,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	PetsAllowed   *bool    `json:"pets_allowed,omitempty"`
	Furnished     *bool    `json:"furnished,omitempty"`
}

// SearchParams is one search/discovery request as the cache fingerprints it
type SearchParams struct {
	Query    string         `json:"query"`
	Location *Coordinates   `json:"location,omitempty"`
	Filters  *SearchFilters `json:"filters,omitempty"`
	SortBy   string         `json:"sort_by"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// SearchResults is one page of search results
type SearchResults struct {
	Properties []models.Property `json:"properties"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// Suggestion is one autocomplete entry for the search box
type Suggestion struct {
	Text       string     `json:"text"`
	Type       string     `json:"type"` // "location" or "property"
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
}

// PopularSearch is a search term with its recorded hit count
type PopularSearch struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// HomepageData is the composed payload behind the landing page
type HomepageData struct {
	Featured        []models.Property `json:"featured"`
	PopularSearches []PopularSearch   `json:"popular_searches"`
	TotalListings   int64             `json:"total_listings"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// UserSession tracks an anonymous visitor across requests
type UserSession struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
	RecentSearches []string  `json:"recent_searches,omitempty"`
}

// ContactRequest is a renter's inquiry about a listing
type ContactRequest struct {
	Name    string `json:"name" binding:"omitempty,max=100"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Message string `json:"message" binding:"required,max=500"`
}
