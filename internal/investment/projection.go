package investment

import (
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

const (
	daysPerYear   = 365
	secondsPerDay = 24 * 60 * 60
	yearLength    = daysPerYear * 24 * time.Hour

	// NoPayback is reported as PaybackYears when no rental income is realized over the horizon.
	NoPayback = 999.0
)

// YearlyProjection is the state of the investment at the end of one simulated year.
type YearlyProjection struct {
	Year             int     `json:"year"`
	PropertyValue    float64 `json:"propertyValue"`    // Appreciated price
	Appreciation     float64 `json:"appreciation"`     // PropertyValue - unit price
	YearRental       float64 `json:"yearRental"`       // Net rent realized in this year
	CumulativeRental float64 `json:"cumulativeRental"` // Net rent realized so far
	TotalProfit      float64 `json:"totalProfit"`      // Appreciation + CumulativeRental
	RoiPct           float64 `json:"roiPct"`
	AnnualYield      float64 `json:"annualYield"` // RoiPct / Year
}

// RoiSummary is the outcome of a projection.
type RoiSummary struct {
	ByYear       []YearlyProjection `json:"byYear"`
	PaybackYears float64            `json:"paybackYears"` // NoPayback when no rent was realized
	FinalRoi     float64            `json:"finalRoi"`     // RoiPct of the last year, 0 for an empty horizon
	HasRental    bool               `json:"hasRental"`
}

// Year returns the projection for the given 1-indexed year.
func (s RoiSummary) Year(year int) (YearlyProjection, bool) {
	for _, y := range s.ByYear {
		if y.Year == year {
			return y, true
		}
	}
	return YearlyProjection{}, false
}

// PaysBack reports whether rental income recovers the price in a finite number of years.
func (s RoiSummary) PaysBack() bool {
	return s.PaybackYears < NoPayback
}

// Project simulates the investment year by year starting from the current time.
// See ProjectAt.
func Project(p Parameters) (RoiSummary, error) {
	return ProjectAt(p, time.Now())
}

// ProjectAt simulates the investment year by year starting from now.
//
// Year y covers [now+(y-1)*365d, now+y*365d). The property value compounds from the
// first year regardless of completion. Rental income accrues only for the part of a
// year after the effective completion time, prorated by the second when completion
// falls inside the year.
//
// Returns an error wrapping apperrors.ErrInvalidInput when the parameters fail Validate
// or a yearly figure is too large to represent.
func ProjectAt(p Parameters, now time.Time) (RoiSummary, error) {
	if err := p.Validate(); err != nil {
		return RoiSummary{}, err
	}

	completion := p.effectiveCompletion(now)
	price := float64(p.UnitPrice)
	growth := 1 + p.AppreciationRate/100
	hasRental := p.RentalDailyRate > 0

	byYear := make([]YearlyProjection, 0, p.Years)
	var cumulative float64

	for year := 1; year <= p.Years; year++ {
		yearStart := now.Add(time.Duration(year-1) * yearLength)
		yearEnd := now.Add(time.Duration(year) * yearLength)

		value := price * math.Pow(growth, float64(year))
		appreciation := value - price

		var yearRental float64
		if hasRental {
			yearRental = p.netRental(rentableDays(completion, yearStart, yearEnd))
			cumulative += yearRental
		}

		total := appreciation + cumulative
		roi := total / price * 100
		if !isFinite(value) || !isFinite(total) || !isFinite(roi) {
			return RoiSummary{}, fmt.Errorf("%w: projection overflows in year %d", apperrors.ErrInvalidInput, year)
		}

		byYear = append(byYear, YearlyProjection{
			Year:             year,
			PropertyValue:    value,
			Appreciation:     appreciation,
			YearRental:       yearRental,
			CumulativeRental: cumulative,
			TotalProfit:      total,
			RoiPct:           roi,
			AnnualYield:      roi / float64(year),
		})
	}

	summary := RoiSummary{
		ByYear:       byYear,
		PaybackYears: paybackYears(price, cumulative, p.Years),
		HasRental:    hasRental,
	}
	if n := len(byYear); n > 0 {
		summary.FinalRoi = byYear[n-1].RoiPct
	}

	return summary, nil
}

// rentableDays returns how many days of [start, end) fall after completion.
func rentableDays(completion, start, end time.Time) float64 {
	switch {
	case !end.After(completion):
		return 0
	case completion.After(start):
		return end.Sub(completion).Seconds() / secondsPerDay
	default:
		return daysPerYear
	}
}

// paybackYears divides the price by the average annual net rent over the horizon.
func paybackYears(price, cumulative float64, years int) float64 {
	if cumulative <= 0 || years <= 0 {
		return NoPayback
	}
	annual := cumulative / float64(years)
	if annual <= 0 {
		return NoPayback
	}
	return price / annual
}
