package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/testutil"
)

// TestImportService_ImportFacility verifies importing a catalog facility as a property.
//
// WHY: The import is the only way lots enter the bot; a partial import would show
// buildings without units, and a duplicate would split one development in two.
func TestImportService_ImportFacility(t *testing.T) {
	ctx := context.Background()

	t.Run("imports buildings and units", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockCatalogClient()
		svc := testutil.NewTestImportService(t, db, mock)
		user := testutil.CreateUser(t, db)

		// Execute
		result, err := svc.ImportFacility(ctx, user.ID, "f-100")

		// Assert
		if err != nil {
			t.Fatalf("ImportFacility() returned unexpected error: %v", err)
		}
		if result.Buildings != 2 || result.Units != 6 {
			t.Errorf("Expected 2 buildings and 6 units, got %d and %d", result.Buildings, result.Units)
		}
		if result.Property.Name != "ЖК Тестовый" || result.Property.City != "Сочи" {
			t.Errorf("Unexpected property: %+v", result.Property)
		}
		if result.Property.LotsCount != 6 {
			t.Errorf("Expected lots count 6, got %d", result.Property.LotsCount)
		}
		if result.Property.MinPrice == nil || *result.Property.MinPrice != 8_250_000 {
			t.Errorf("Expected min price 8250000, got %v", result.Property.MinPrice)
		}
		if result.Property.Description != "Описание ЖК Тестовый" {
			t.Errorf("Expected description from facility details, got %q", result.Property.Description)
		}

		testutil.AssertRowCount(t, db, "building", 2)
		testutil.AssertRowCount(t, db, "unit", 6)
		testutil.AssertRowCount(t, db, "property_custom", 1)
	})

	t.Run("unit codes follow building letters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockCatalogClient()
		svc := testutil.NewTestImportService(t, db, mock)
		search := testutil.NewTestSearchService(t, db)
		user := testutil.CreateUser(t, db)

		result, err := svc.ImportFacility(ctx, user.ID, "f-100")
		if err != nil {
			t.Fatalf("ImportFacility() returned unexpected error: %v", err)
		}

		for _, code := range []string{"А101", "А103", "В101", "В103"} {
			res, err := search.ByCode(result.Property.ID, code)
			if err != nil {
				t.Fatalf("ByCode() returned unexpected error: %v", err)
			}
			if res.Unit == nil {
				t.Errorf("Expected unit %s to be imported", code)
			}
		}
	})

	t.Run("default assumptions are stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db, testutil.NewMockCatalogClient())
		settings := testutil.NewTestSettingsService(t, db)
		user := testutil.CreateUser(t, db)

		result, err := svc.ImportFacility(ctx, user.ID, "f-100")
		if err != nil {
			t.Fatalf("ImportFacility() returned unexpected error: %v", err)
		}

		a, err := settings.GetAssumptions(result.Property.ID)
		if err != nil {
			t.Fatalf("GetAssumptions() returned unexpected error: %v", err)
		}
		if a.OccupancyRate == nil || *a.OccupancyRate != 70 {
			t.Errorf("Expected occupancy 70, got %v", a.OccupancyRate)
		}
		if a.RentalDailyRate != nil {
			t.Errorf("Expected no rent, got %d", *a.RentalDailyRate)
		}
	})

	t.Run("duplicate facility", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db, testutil.NewMockCatalogClient())
		user := testutil.CreateUser(t, db)

		if _, err := svc.ImportFacility(ctx, user.ID, "f-100"); err != nil {
			t.Fatalf("ImportFacility() returned unexpected error: %v", err)
		}
		_, err := svc.ImportFacility(ctx, user.ID, "f-100")
		if !errors.Is(err, apperrors.ErrDuplicateProperty) {
			t.Errorf("Expected ErrDuplicateProperty, got %v", err)
		}
		testutil.AssertRowCount(t, db, "property", 1)
	})

	t.Run("same facility for different users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db, testutil.NewMockCatalogClient())
		first := testutil.CreateUser(t, db)
		second := testutil.CreateUser(t, db)

		if _, err := svc.ImportFacility(ctx, first.ID, "f-100"); err != nil {
			t.Fatalf("ImportFacility() returned unexpected error: %v", err)
		}
		if _, err := svc.ImportFacility(ctx, second.ID, "f-100"); err != nil {
			t.Fatalf("ImportFacility() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "property", 2)
		testutil.AssertRowCount(t, db, "unit", 12)
	})

	t.Run("unknown facility", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db, testutil.NewMockCatalogClient())
		user := testutil.CreateUser(t, db)

		_, err := svc.ImportFacility(ctx, user.ID, "f-404")
		if !errors.Is(err, apperrors.ErrFacilityNotFound) {
			t.Errorf("Expected ErrFacilityNotFound, got %v", err)
		}
	})

	t.Run("failed lot fetch leaves nothing behind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockCatalogClient()
		svc := testutil.NewTestImportService(t, db, mock)
		user := testutil.CreateUser(t, db)
		mock.WithLotsError(apperrors.ErrCatalogUnavailable)

		_, err := svc.ImportFacility(ctx, user.ID, "f-100")
		if !errors.Is(err, apperrors.ErrCatalogUnavailable) {
			t.Errorf("Expected ErrCatalogUnavailable, got %v", err)
		}
		testutil.AssertRowCount(t, db, "property", 0)
		testutil.AssertRowCount(t, db, "building", 0)
		testutil.AssertRowCount(t, db, "unit", 0)
	})
}

func TestImportService_SearchFacilities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mock := testutil.NewMockCatalogClient()
	mock.AddFacility(testutil.CreateMockFacility("f-200", "ЖК Морской Бриз"), 1, 1)
	svc := testutil.NewTestImportService(t, db, mock)

	results, err := svc.SearchFacilities("морской", 0)
	if err != nil {
		t.Fatalf("SearchFacilities() returned unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID.String() != "f-200" {
		t.Errorf("Expected facility f-200, got %+v", results)
	}
}
