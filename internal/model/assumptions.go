package model

import "time"

// Assumptions are the realtor-editable investment inputs of a property.
// A nil field has not been set and is resolved to a configured default by the caller.
type Assumptions struct {
	PropertyID           string     `json:"propertyId"`
	RentalDailyRate      *int64     `json:"rentalDailyRate,omitempty"`
	OccupancyRate        *float64   `json:"occupancyRate,omitempty"`
	OperatingExpensesPct *float64   `json:"operatingExpensesPct,omitempty"`
	ManagementFeePct     *float64   `json:"managementFeePct,omitempty"`
	TaxRate              *float64   `json:"taxRate,omitempty"`
	AppreciationRate     *float64   `json:"appreciationRate,omitempty"`
	InstallmentPV        *float64   `json:"installmentPv,omitempty"` // Down payment percent
	InstallmentMonths    *int       `json:"installmentMonths,omitempty"`
	InstallmentMarkup    *float64   `json:"installmentMarkup,omitempty"`
	Commission           *string    `json:"commission,omitempty"`
	CommissionPct        *float64   `json:"commissionPct,omitempty"`
	UTP                  *string    `json:"utp,omitempty"` // Unique selling points
	Notes                *string    `json:"notes,omitempty"`
	DeveloperPhone       *string    `json:"developerPhone,omitempty"`
	DeveloperWebsite     *string    `json:"developerWebsite,omitempty"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}
