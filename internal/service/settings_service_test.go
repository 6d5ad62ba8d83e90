package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/testutil"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/validation"
)

// TestSettingsService_UpdateSetting verifies editing assumptions from typed values.
//
// WHY: Settings arrive as free chat text ("4 500", "12,5"); a value that is stored
// unvalidated feeds straight into every projection of the property.
func TestSettingsService_UpdateSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("stores typed values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)
		_, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		updates := map[string]string{
			"rent":   "4 500",
			"occ":    "65,5",
			"months": "24",
			"notes":  "Вид на море",
		}
		for key, raw := range updates {
			if _, err := svc.UpdateSetting(ctx, property.ID, key, raw); err != nil {
				t.Fatalf("UpdateSetting(%s) returned unexpected error: %v", key, err)
			}
		}

		a, err := svc.GetAssumptions(property.ID)
		if err != nil {
			t.Fatalf("GetAssumptions() returned unexpected error: %v", err)
		}
		if a.RentalDailyRate == nil || *a.RentalDailyRate != 4500 {
			t.Errorf("Expected rent 4500, got %v", a.RentalDailyRate)
		}
		if a.OccupancyRate == nil || *a.OccupancyRate != 65.5 {
			t.Errorf("Expected occupancy 65.5, got %v", a.OccupancyRate)
		}
		if a.InstallmentMonths == nil || *a.InstallmentMonths != 24 {
			t.Errorf("Expected 24 months, got %v", a.InstallmentMonths)
		}
		if a.Notes == nil || *a.Notes != "Вид на море" {
			t.Errorf("Expected notes to be stored, got %v", a.Notes)
		}
	})

	t.Run("reset clears a value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)
		_, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)
		testutil.NewAssumptions(property.ID).WithRentalDailyRate(3000).Build(t, db)

		if _, err := svc.UpdateSetting(ctx, property.ID, "rent", "сброс"); err != nil {
			t.Fatalf("UpdateSetting() returned unexpected error: %v", err)
		}

		a, _ := svc.GetAssumptions(property.ID)
		if a.RentalDailyRate != nil {
			t.Errorf("Expected rent to be cleared, got %d", *a.RentalDailyRate)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)
		_, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		tests := []struct {
			key string
			raw string
		}{
			{"occ", "120"},
			{"rent", "-5"},
			{"months", "12.5"},
			{"tax", "много"},
			{"notes", ""},
		}
		for _, tt := range tests {
			_, err := svc.UpdateSetting(ctx, property.ID, tt.key, tt.raw)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Errorf("UpdateSetting(%s, %q) expected validation error, got %v", tt.key, tt.raw, err)
			}
		}
		testutil.AssertRowCount(t, db, "property_custom", 0)
	})

	t.Run("unknown setting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)
		_, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

		if _, err := svc.UpdateSetting(ctx, property.ID, "color", "red"); !errors.Is(err, apperrors.ErrUnknownSetting) {
			t.Errorf("Expected ErrUnknownSetting, got %v", err)
		}
	})
}

func TestSettingsService_GetAssumptions_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSettingsService(t, db)
	_, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 1)

	a, err := svc.GetAssumptions(property.ID)
	if err != nil {
		t.Fatalf("GetAssumptions() returned unexpected error: %v", err)
	}
	if a.PropertyID != property.ID || a.RentalDailyRate != nil {
		t.Errorf("Expected empty assumptions, got %+v", a)
	}
}
