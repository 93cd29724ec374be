package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeRoom       PropertyType = "room"
	PropertyTypeCommercial PropertyType = "commercial"
)

// StringArray stores a list of strings as a JSON column
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for StringArray")
	}
}

// Property is a rental listing, the source of truth the cache layer fronts
type Property struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Title         string       `gorm:"not null;index" json:"title"`
	Description   string       `json:"description"`
	PropertyType  PropertyType `gorm:"index" json:"property_type"`
	Address       string       `json:"address"`
	Neighborhood  string       `gorm:"index" json:"neighborhood"`
	City          string       `gorm:"index" json:"city"`
	Price         int64        `gorm:"index" json:"price"`
	Currency      string       `gorm:"default:HNL" json:"currency"`
	Bedrooms      int          `json:"bedrooms"`
	Bathrooms     int          `json:"bathrooms"`
	AreaSqm       float64      `json:"area_sqm"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	PetsAllowed   bool         `json:"pets_allowed"`
	Furnished     bool         `json:"furnished"`
	Amenities     StringArray  `gorm:"type:text" json:"amenities"`
	Images        StringArray  `gorm:"type:text" json:"images"`
	LandlordName  string       `json:"landlord_name"`
	LandlordPhone string       `json:"landlord_phone"`
	IsFeatured    bool         `gorm:"index" json:"is_featured"`
	IsActive      bool         `gorm:"index;default:true" json:"is_active"`
	AvailableFrom *time.Time   `json:"available_from,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// GetAllModels returns every model for migrations
func GetAllModels() []interface{} {
	return []interface{}{
		&Property{},
	}
}
