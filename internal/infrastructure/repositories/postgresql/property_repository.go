package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/domain/repositories"
	"github.com/heurekka/heurekka/internal/domain/services"
	"github.com/heurekka/heurekka/internal/infrastructure/database"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository struct {
	db *database.DB
}

func NewPropertyRepository(db *database.DB) repositories.PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

func (r *PropertyRepository) Update(ctx context.Context, property *models.Property) error {
	result := r.db.WithContext(ctx).Save(property)
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Search(ctx context.Context, params dto.SearchParams) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Property{}).Where("is_active = ?", true)

	if params.Query != "" {
		term := "%" + strings.ToLower(params.Query) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(neighborhood) LIKE ? OR LOWER(city) LIKE ?",
			term, term, term, term,
		)
	}

	if f := params.Filters; f != nil {
		if f.MinPrice != nil {
			query = query.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			query = query.Where("price <= ?", *f.MaxPrice)
		}
		if f.Bedrooms != nil {
			query = query.Where("bedrooms >= ?", *f.Bedrooms)
		}
		if f.Bathrooms != nil {
			query = query.Where("bathrooms >= ?", *f.Bathrooms)
		}
		if len(f.PropertyTypes) > 0 {
			query = query.Where("property_type IN ?", f.PropertyTypes)
		}
		if f.PetsAllowed != nil {
			query = query.Where("pets_allowed = ?", *f.PetsAllowed)
		}
		if f.Furnished != nil {
			query = query.Where("furnished = ?", *f.Furnished)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query = applySort(query, params)

	page := params.Page
	if page <= 0 {
		page = services.DefaultPage
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = services.DefaultPageSize
	}
	offset := (page - 1) * pageSize

	if err := query.Offset(offset).Limit(pageSize).Find(&properties).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search properties: %w", err)
	}

	return properties, total, nil
}

// applySort orders results; "distance" needs a location and degrades to the
// default ordering without one. The squared-distance expression is portable
// across postgres and sqlite and is good enough for ranking nearby listings.
func applySort(query *gorm.DB, params dto.SearchParams) *gorm.DB {
	switch params.SortBy {
	case "price_asc":
		return query.Order("price ASC")
	case "price_desc":
		return query.Order("price DESC")
	case "newest":
		return query.Order("created_at DESC")
	case "distance":
		if params.Location != nil {
			return query.Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL: "(latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?)",
				Vars: []interface{}{
					params.Location.Lat, params.Location.Lat,
					params.Location.Lng, params.Location.Lng,
				},
				WithoutParentheses: true,
			}})
		}
		fallthrough
	default: // relevance
		return query.Order("is_featured DESC, created_at DESC")
	}
}

func (r *PropertyRepository) Suggest(ctx context.Context, query string, limit int) ([]dto.Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	prefix := strings.ToLower(strings.TrimSpace(query)) + "%"

	var neighborhoods []string
	err := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("is_active = ? AND LOWER(neighborhood) LIKE ?", true, prefix).
		Distinct("neighborhood").
		Limit(limit).
		Pluck("neighborhood", &neighborhoods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to suggest neighborhoods: %w", err)
	}

	suggestions := make([]dto.Suggestion, 0, limit)
	for _, n := range neighborhoods {
		suggestions = append(suggestions, dto.Suggestion{Text: n, Type: "location"})
	}

	remaining := limit - len(suggestions)
	if remaining > 0 {
		var matches []models.Property
		err := r.db.WithContext(ctx).Model(&models.Property{}).
			Select("id", "title").
			Where("is_active = ? AND LOWER(title) LIKE ?", true, "%"+strings.ToLower(strings.TrimSpace(query))+"%").
			Order("created_at DESC").
			Limit(remaining).
			Find(&matches).Error
		if err != nil {
			return nil, fmt.Errorf("failed to suggest properties: %w", err)
		}
		for i := range matches {
			id := matches[i].ID
			suggestions = append(suggestions, dto.Suggestion{
				Text:       matches[i].Title,
				Type:       "property",
				PropertyID: &id,
			})
		}
	}

	return suggestions, nil
}

func (r *PropertyRepository) Featured(ctx context.Context, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = 12
	}
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured properties: %w", err)
	}
	return properties, nil
}

func (r *PropertyRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("is_active = ?", true).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active properties: %w", err)
	}
	return total, nil
}
