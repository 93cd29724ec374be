package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/infrastructure/database"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// TestDB wraps the database for testing
type TestDB struct {
	*database.DB
}

// NewTestDB creates a new test database connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	// Use DATABASE_URL_TEST if available (for Docker), otherwise SQLite
	databaseURL := os.Getenv("DATABASE_URL_TEST")
	if databaseURL == "" {
		databaseURL = "file::memory:?cache=shared"
		t.Logf("Using SQLite in-memory database for testing")
	} else {
		t.Logf("Using PostgreSQL database for testing: %s", databaseURL)
	}

	db, err := database.New(databaseURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{DB: db}
}

// Cleanup removes all rows and closes the test database
func (db *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	if err := db.Exec("DELETE FROM properties").Error; err != nil {
		t.Errorf("Failed to clear test properties: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Failed to close test database: %v", err)
	}
}

// CreateTestProperty creates a test property, applying any overrides
func (db *TestDB) CreateTestProperty(t *testing.T, overrides ...func(*models.Property)) *models.Property {
	t.Helper()

	property := &models.Property{
		ID:            uuid.New(),
		Title:         fmt.Sprintf("Test Listing %s", uuid.New().String()[:8]),
		Description:   "Bright two bedroom apartment close to the university",
		PropertyType:  models.PropertyTypeApartment,
		Address:       "Col. Palmira, Calle Principal",
		Neighborhood:  "Palmira",
		City:          "Tegucigalpa",
		Price:         12000,
		Currency:      "HNL",
		Bedrooms:      2,
		Bathrooms:     1,
		AreaSqm:       85,
		Latitude:      14.0723,
		Longitude:     -87.2072,
		LandlordName:  "Test Landlord",
		LandlordPhone: "+50499990000",
		IsActive:      true,
	}

	for _, override := range overrides {
		override(property)
	}

	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}

	return property
}
