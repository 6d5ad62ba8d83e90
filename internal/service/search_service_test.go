package service_test

import (
	"errors"
	"testing"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/testutil"
)

// TestParseAreaRange verifies parsing of typed area ranges.
//
// WHY: Realtors type ranges in whatever form a client said them ("30-50", "от 30 до 50",
// "42,5"); an unparsed range means an empty search result instead of matching lots.
func TestParseAreaRange(t *testing.T) {
	tests := []struct {
		input    string
		min, max float64
	}{
		{"30-50", 30, 50},
		{"40 60", 40, 60},
		{"от 30 до 50 м²", 30, 50},
		{"50-30", 30, 50},
		{"40", 35, 45},
		{"42,5", 37.5, 47.5},
		{"3", 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := service.ParseAreaRange(tt.input)
			if err != nil {
				t.Fatalf("ParseAreaRange() returned unexpected error: %v", err)
			}
			if r.Min != tt.min || r.Max != tt.max {
				t.Errorf("ParseAreaRange(%q) = %v-%v, want %v-%v", tt.input, r.Min, r.Max, tt.min, tt.max)
			}
		})
	}

	if _, err := service.ParseAreaRange("большая"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestParseBudgetRange(t *testing.T) {
	tests := []struct {
		input    string
		min, max int64
	}{
		{"10-15", 10_000_000, 15_000_000},
		{"10 15", 10_000_000, 15_000_000},
		{"12", 0, 12_000_000},
		{"7.5", 0, 7_500_000},
		{"8,35 - 9,1", 8_350_000, 9_100_000},
		{"15-10", 10_000_000, 15_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := service.ParseBudgetRange(tt.input)
			if err != nil {
				t.Fatalf("ParseBudgetRange() returned unexpected error: %v", err)
			}
			if r.Min != tt.min || r.Max != tt.max {
				t.Errorf("ParseBudgetRange(%q) = %d-%d, want %d-%d", tt.input, r.Min, r.Max, tt.min, tt.max)
			}
		})
	}

	if _, err := service.ParseBudgetRange(""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeLotCode(t *testing.T) {
	tests := map[string]string{
		"а101":   "А101",
		" A101 ": "А101",
		"b 205":  "В205",
		"c7":     "С7",
		"d12":    "D12",
		"F9":     "F9",
	}
	for input, want := range tests {
		if got := service.NormalizeLotCode(input); got != want {
			t.Errorf("NormalizeLotCode(%q) = %q, want %q", input, got, want)
		}
	}
}

// TestSearchService verifies unit searches over a property with five units:
// codes А101..А105 on floors 1..5, prices 10.5M..12.5M and areas 35..55 m².
func TestSearchService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSearchService(t, db)
	_, property, building, _ := testutil.CreatePropertyWithUnits(t, db, 5)

	t.Run("by area", func(t *testing.T) {
		r, units, err := svc.ByArea(property.ID, "40-50")
		if err != nil {
			t.Fatalf("ByArea() returned unexpected error: %v", err)
		}
		if r.Min != 40 || r.Max != 50 {
			t.Errorf("Unexpected range %+v", r)
		}
		if len(units) != 3 {
			t.Errorf("Expected 3 units between 40 and 50 m², got %d", len(units))
		}
	})

	t.Run("by single budget is a maximum", func(t *testing.T) {
		_, units, err := svc.ByBudget(property.ID, "11")
		if err != nil {
			t.Fatalf("ByBudget() returned unexpected error: %v", err)
		}
		if len(units) != 2 {
			t.Errorf("Expected 2 units up to 11M, got %d", len(units))
		}
		for i := 1; i < len(units); i++ {
			if *units[i].Price < *units[i-1].Price {
				t.Error("Expected units ordered by price")
			}
		}
	})

	t.Run("invalid budget", func(t *testing.T) {
		if _, _, err := svc.ByBudget(property.ID, "дорого"); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("by exact code", func(t *testing.T) {
		res, err := svc.ByCode(property.ID, "a103")
		if err != nil {
			t.Fatalf("ByCode() returned unexpected error: %v", err)
		}
		if res.Unit == nil || res.Unit.Code != "А103" {
			t.Fatalf("Expected unit А103, got %+v", res)
		}
	})

	t.Run("unknown code suggests similar", func(t *testing.T) {
		res, err := svc.ByCode(property.ID, "10")
		if err != nil {
			t.Fatalf("ByCode() returned unexpected error: %v", err)
		}
		if res.Unit != nil {
			t.Fatalf("Expected no exact match, got %s", res.Unit.Code)
		}
		if len(res.Similar) != 5 {
			t.Errorf("Expected 5 similar units, got %d", len(res.Similar))
		}
	})

	t.Run("unknown code without matches", func(t *testing.T) {
		res, err := svc.ByCode(property.ID, "Z999")
		if err != nil {
			t.Fatalf("ByCode() returned unexpected error: %v", err)
		}
		if res.Unit != nil || len(res.Similar) != 0 {
			t.Errorf("Expected no results, got %+v", res)
		}
	})

	t.Run("floors and units on floor", func(t *testing.T) {
		floors, err := svc.Floors(property.ID, building.Number)
		if err != nil {
			t.Fatalf("Floors() returned unexpected error: %v", err)
		}
		if len(floors) != 5 {
			t.Errorf("Expected 5 floors, got %d", len(floors))
		}

		units, err := svc.UnitsOnFloor(property.ID, building.Number, 2)
		if err != nil {
			t.Fatalf("UnitsOnFloor() returned unexpected error: %v", err)
		}
		if len(units) != 1 || units[0].Code != "А102" {
			t.Errorf("Expected А102 on floor 2, got %+v", units)
		}
	})
}
