package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/catalog"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
)

// TestInvestmentConfig returns the investment defaults used across tests.
func TestInvestmentConfig() config.InvestmentConfig {
	return config.InvestmentConfig{
		BenchmarkRate:        21,
		Years:                5,
		AppreciationRate:     10,
		OccupancyRate:        70,
		OperatingExpensesPct: 10,
		ManagementFeePct:     20,
		TaxRate:              4,
	}
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(repository.NewUserRepository(db))
}

func NewTestPropertyService(t *testing.T, db *sql.DB) *service.PropertyService {
	t.Helper()

	return service.NewPropertyService(
		repository.NewPropertyRepository(db),
		repository.NewBuildingRepository(db),
		repository.NewUnitRepository(db),
	)
}

func NewTestSearchService(t *testing.T, db *sql.DB) *service.SearchService {
	t.Helper()

	return service.NewSearchService(repository.NewUnitRepository(db))
}

func NewTestCalculatorService(t *testing.T, db *sql.DB) *service.CalculatorService {
	t.Helper()

	return service.NewCalculatorService(
		NewTestPropertyService(t, db),
		repository.NewBuildingRepository(db),
		repository.NewUnitRepository(db),
		repository.NewAssumptionsRepository(db),
		TestInvestmentConfig(),
	)
}

func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	return service.NewSettingsService(repository.NewAssumptionsRepository(db))
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, nil)
}

// NewTestImportService creates an ImportService backed by mockCatalog, with the
// facility cache already loaded.
func NewTestImportService(t *testing.T, db *sql.DB, mockCatalog *MockCatalogClient) *service.ImportService {
	t.Helper()

	cache := catalog.NewFacilityCache(mockCatalog, nil)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Failed to load catalog cache: %v", err)
	}

	return service.NewImportService(
		db,
		cache,
		mockCatalog,
		repository.NewPropertyRepository(db),
		repository.NewBuildingRepository(db),
		repository.NewUnitRepository(db),
		repository.NewAssumptionsRepository(db),
		TestInvestmentConfig(),
	)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUserID generates a Telegram-like user ID.
func MakeUserID() int64 {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return 100_000_000 + rand.Int63n(900_000_000)
}

// MakeFacilityID generates a catalog facility ID.
//
// Example usage:
//
//	id := testutil.MakeFacilityID()
//	// Returns: "f-48213"
func MakeFacilityID() string {
	return "f-" + randomDigits(5)
}

// MakePropertyName generates a unique property name for testing.
//
// Example usage:
//
//	name := testutil.MakePropertyName("ЖК Море")
//	// Returns: "ЖК Море ABC123"
func MakePropertyName(base string) string {
	if base == "" {
		base = "ЖК"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// randomDigits generates a random string of decimal digits without a leading zero.
func randomDigits(length int) string {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = digits[rand.Intn(len(digits))]
	}
	if result[0] == '0' {
		result[0] = '1'
	}
	return string(result)
}
