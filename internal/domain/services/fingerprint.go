package services

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/heurekka/heurekka/internal/domain/dto"
)

// SearchHash reduces a search request to a short deterministic fingerprint
// used as the search-results cache key. Unset fields are filled with the
// documented defaults first, so a zero-value SearchParams and an explicitly
// defaulted one fingerprint identically. The digest is hex-encoded FNV-1a,
// well under the 32-character bound.
func SearchHash(params dto.SearchParams) string {
	var b strings.Builder

	b.WriteString("q=")
	b.WriteString(params.Query)

	b.WriteString("|loc=")
	if params.Location != nil {
		b.WriteString(LocationHash(*params.Location))
	}

	b.WriteString("|f=")
	b.WriteString(canonicalFilters(params.Filters))

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = DefaultSort
	}
	page := params.Page
	if page <= 0 {
		page = DefaultPage
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	fmt.Fprintf(&b, "|sort=%s|page=%d|size=%d", sortBy, page, pageSize)

	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return strconv.FormatUint(h.Sum64(), 16)
}

// LocationHash buckets a coordinate pair to 3 decimal places (roughly a city
// block) with fixed-point formatting, e.g. {14.0723, -87.2072} -> "14.072_-87.207".
// Trailing zeros are preserved.
func LocationHash(c dto.Coordinates) string {
	return fmt.Sprintf("%.3f_%.3f", c.Lat, c.Lng)
}

// canonicalFilters serializes filters field-by-field in a fixed order. A nil
// filter set and an empty one serialize identically.
func canonicalFilters(f *dto.SearchFilters) string {
	if f == nil {
		return ""
	}

	var parts []string
	if f.MinPrice != nil {
		parts = append(parts, "min="+strconv.FormatInt(*f.MinPrice, 10))
	}
	if f.MaxPrice != nil {
		parts = append(parts, "max="+strconv.FormatInt(*f.MaxPrice, 10))
	}
	if f.Bedrooms != nil {
		parts = append(parts, "bed="+strconv.Itoa(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		parts = append(parts, "bath="+strconv.Itoa(*f.Bathrooms))
	}
	if len(f.PropertyTypes) > 0 {
		types := append([]string(nil), f.PropertyTypes...)
		sort.Strings(types)
		parts = append(parts, "types="+strings.Join(types, ","))
	}
	if f.PetsAllowed != nil {
		parts = append(parts, "pets="+strconv.FormatBool(*f.PetsAllowed))
	}
	if f.Furnished != nil {
		parts = append(parts, "furn="+strconv.FormatBool(*f.Furnished))
	}
	return strings.Join(parts, "&")
}
