// Package investment turns a unit's price and a set of investment assumptions into
// return figures: a year-by-year ROI projection, a comparison against a compounding
// deposit, and an installment plan.
//
// Every function in this package is pure. Inputs are fully resolved value types and
// outputs are raw numbers; defaulting, rounding for display and formatting belong to
// the caller.
package investment

import (
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

// MaxYears bounds the projection horizon so that year windows stay within time.Duration range.
const MaxYears = 100

// Parameters holds the fully resolved inputs of a projection.
// Percentages are expressed in the 0-100 domain (10 means 10%).
type Parameters struct {
	UnitPrice            int64      // Purchase price in whole currency units
	CommissioningTime    *time.Time // When the unit becomes usable; nil means already usable
	IsCompleted          bool       // Forces the unit to be treated as already usable
	RentalDailyRate      int64      // Rent per occupied day; 0 disables rental modeling
	OccupancyRate        float64    // Share of days the unit is rented
	OperatingExpensesPct float64    // Operating expenses as share of gross rent
	ManagementFeePct     float64    // Management company fee as share of gross rent
	TaxRate              float64    // Tax as share of gross rent
	AppreciationRate     float64    // Annual growth of the property value
	Years                int        // Number of 365-day periods to simulate
}

// Validate reports whether the parameters can produce well-defined figures.
// All failures wrap apperrors.ErrInvalidInput.
func (p Parameters) Validate() error {
	if p.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit price must be positive, got %d", apperrors.ErrInvalidInput, p.UnitPrice)
	}
	if p.Years < 0 || p.Years > MaxYears {
		return fmt.Errorf("%w: years must be between 0 and %d, got %d", apperrors.ErrInvalidInput, MaxYears, p.Years)
	}
	if p.RentalDailyRate < 0 {
		return fmt.Errorf("%w: rental daily rate cannot be negative, got %d", apperrors.ErrInvalidInput, p.RentalDailyRate)
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"occupancy rate", p.OccupancyRate},
		{"operating expenses", p.OperatingExpensesPct},
		{"management fee", p.ManagementFeePct},
		{"tax rate", p.TaxRate},
		{"appreciation rate", p.AppreciationRate},
	}
	for _, r := range rates {
		if !isFinite(r.value) {
			return fmt.Errorf("%w: %s must be a finite number", apperrors.ErrInvalidInput, r.name)
		}
	}
	return nil
}

// effectiveCompletion returns the moment rental income may start accruing.
// A completed unit, or one without a commissioning time, is treated as usable just before now.
func (p Parameters) effectiveCompletion(now time.Time) time.Time {
	if p.IsCompleted || p.CommissioningTime == nil {
		return now.Add(-time.Second)
	}
	return *p.CommissioningTime
}

// netRental converts rentable days into net income for the year.
// The three deductions are taken additively off gross income.
func (p Parameters) netRental(days float64) float64 {
	occupied := days * (p.OccupancyRate / 100)
	gross := float64(p.RentalDailyRate) * occupied
	return gross * (1 - p.OperatingExpensesPct/100 - p.ManagementFeePct/100 - p.TaxRate/100)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
