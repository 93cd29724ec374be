package services

import (
	"testing"

	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestSearchHashIsDeterministic(t *testing.T) {
	params := dto.SearchParams{
		Query:    "apartment",
		Location: &dto.Coordinates{Lat: 14.0723, Lng: -87.2072},
		Filters: &dto.SearchFilters{
			MinPrice:      int64Ptr(5000),
			MaxPrice:      int64Ptr(15000),
			Bedrooms:      intPtr(2),
			PropertyTypes: []string{"apartment", "house"},
			PetsAllowed:   boolPtr(true),
		},
		SortBy:   "price_asc",
		Page:     2,
		PageSize: 24,
	}

	// Structurally equal values hash identically
	other := params
	other.Filters = &dto.SearchFilters{
		MinPrice:      int64Ptr(5000),
		MaxPrice:      int64Ptr(15000),
		Bedrooms:      intPtr(2),
		PropertyTypes: []string{"house", "apartment"}, // order must not matter
		PetsAllowed:   boolPtr(true),
	}
	other.Location = &dto.Coordinates{Lat: 14.0723, Lng: -87.2072}

	assert.Equal(t, SearchHash(params), SearchHash(params))
	assert.Equal(t, SearchHash(params), SearchHash(other))
}

func TestSearchHashDistinguishesInputs(t *testing.T) {
	base := dto.SearchParams{Query: "apartment"}

	variants := []dto.SearchParams{
		{Query: "house"},
		{Query: "apartment", Page: 2},
		{Query: "apartment", PageSize: 48},
		{Query: "apartment", SortBy: "price_desc"},
		{Query: "apartment", Location: &dto.Coordinates{Lat: 14.072, Lng: -87.207}},
		{Query: "apartment", Filters: &dto.SearchFilters{Bedrooms: intPtr(3)}},
	}

	baseHash := SearchHash(base)
	for _, v := range variants {
		assert.NotEqual(t, baseHash, SearchHash(v), "%+v should hash differently", v)
	}
}

func TestSearchHashDefaultsFillUnsetFields(t *testing.T) {
	implicit := dto.SearchParams{Query: "apartment"}
	explicit := dto.SearchParams{
		Query:    "apartment",
		SortBy:   DefaultSort,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	assert.Equal(t, SearchHash(explicit), SearchHash(implicit))
}

func TestSearchHashBoundedAndTotal(t *testing.T) {
	// Must tolerate a fully empty input and stay within 32 characters
	inputs := []dto.SearchParams{
		{},
		{Query: "apartment"},
		{Filters: &dto.SearchFilters{}},
		{Query: "a very long query with many words repeated many times over and over"},
	}
	for _, in := range inputs {
		hash := SearchHash(in)
		assert.NotEmpty(t, hash)
		assert.LessOrEqual(t, len(hash), 32)
	}

	// Nil and empty filter sets are equivalent
	assert.Equal(t, SearchHash(dto.SearchParams{}), SearchHash(dto.SearchParams{Filters: &dto.SearchFilters{}}))
}

func TestLocationHashFixedPointFormatting(t *testing.T) {
	assert.Equal(t, "14.072_-87.207", LocationHash(dto.Coordinates{Lat: 14.0723, Lng: -87.2072}))
	assert.Equal(t, "14.072_-87.192", LocationHash(dto.Coordinates{Lat: 14.072345, Lng: -87.192156}))

	// Trailing zeros are preserved
	assert.Equal(t, "14.070_-87.190", LocationHash(dto.Coordinates{Lat: 14.07, Lng: -87.19}))
	assert.Equal(t, "0.000_0.000", LocationHash(dto.Coordinates{}))
}

func TestLocationHashBucketsNearbyPoints(t *testing.T) {
	a := LocationHash(dto.Coordinates{Lat: 14.0721, Lng: -87.2069})
	b := LocationHash(dto.Coordinates{Lat: 14.07235, Lng: -87.20718})
	assert.Equal(t, a, b)
}
