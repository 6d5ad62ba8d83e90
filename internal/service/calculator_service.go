package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/investment"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
)

// CalculatorService runs investment projections for the units of a property.
type CalculatorService struct {
	propertyService *PropertyService
	buildingRepo    *repository.BuildingRepository
	unitRepo        *repository.UnitRepository
	assumptionsRepo *repository.AssumptionsRepository
	defaults        config.InvestmentConfig
	now             func() time.Time
}

// NewCalculatorService creates a new CalculatorService. Unset assumptions fall back to defaults.
func NewCalculatorService(
	propertyService *PropertyService,
	buildingRepo *repository.BuildingRepository,
	unitRepo *repository.UnitRepository,
	assumptionsRepo *repository.AssumptionsRepository,
	defaults config.InvestmentConfig,
) *CalculatorService {
	return &CalculatorService{
		propertyService: propertyService,
		buildingRepo:    buildingRepo,
		unitRepo:        unitRepo,
		assumptionsRepo: assumptionsRepo,
		defaults:        defaults,
		now:             time.Now,
	}
}

// ResolvedAssumptions are the assumptions of a property with defaults applied.
type ResolvedAssumptions struct {
	RentalDailyRate      int64
	OccupancyRate        float64
	OperatingExpensesPct float64
	ManagementFeePct     float64
	TaxRate              float64
	AppreciationRate     float64
	InstallmentPV        *float64
	InstallmentMonths    *int
	InstallmentMarkup    float64
}

// Lot is a unit with everything needed to evaluate it.
type Lot struct {
	Property    model.Property
	Unit        model.Unit
	Building    *model.Building // nil when the unit has no building record
	Assumptions ResolvedAssumptions
}

// RoiReport is the projection of a lot.
type RoiReport struct {
	Lot     Lot
	Years   int
	Summary investment.RoiSummary
}

// ComparisonReport is the projection of a lot compared against a bank deposit.
type ComparisonReport struct {
	Lot        Lot
	Summary    investment.RoiSummary
	Comparison investment.DepositComparison
}

// InstallmentReport is the installment plan of a lot.
type InstallmentReport struct {
	Lot  Lot
	Plan investment.InstallmentPlan
}

// WithClock replaces the clock used to place the projection in time.
func (s *CalculatorService) WithClock(now func() time.Time) *CalculatorService {
	s.now = now
	return s
}

// DefaultYears returns the configured projection horizon.
func (s *CalculatorService) DefaultYears() int {
	return s.defaults.Years
}

// GetLot loads a unit of a property owned by userID along with its building and assumptions.
func (s *CalculatorService) GetLot(userID int64, propertyID, code string) (Lot, error) {
	p, err := s.propertyService.GetProperty(userID, propertyID)
	if err != nil {
		return Lot{}, err
	}

	u, err := s.unitRepo.GetByCode(propertyID, code)
	if err != nil {
		return Lot{}, err
	}

	lot := Lot{Property: p, Unit: u}

	if u.BuildingID != nil {
		b, err := s.buildingRepo.GetBuilding(*u.BuildingID)
		switch {
		case err == nil:
			lot.Building = &b
		case !errors.Is(err, apperrors.ErrBuildingNotFound):
			return Lot{}, err
		}
	}

	a, err := s.assumptionsRepo.GetAssumptions(propertyID)
	if err != nil && !errors.Is(err, apperrors.ErrAssumptionsNotFound) {
		return Lot{}, err
	}
	lot.Assumptions = s.resolve(a)

	return lot, nil
}

func (s *CalculatorService) resolve(a model.Assumptions) ResolvedAssumptions {
	return ResolvedAssumptions{
		RentalDailyRate:      valueOr(a.RentalDailyRate, 0),
		OccupancyRate:        valueOr(a.OccupancyRate, s.defaults.OccupancyRate),
		OperatingExpensesPct: valueOr(a.OperatingExpensesPct, s.defaults.OperatingExpensesPct),
		ManagementFeePct:     valueOr(a.ManagementFeePct, s.defaults.ManagementFeePct),
		TaxRate:              valueOr(a.TaxRate, s.defaults.TaxRate),
		AppreciationRate:     valueOr(a.AppreciationRate, s.defaults.AppreciationRate),
		InstallmentPV:        a.InstallmentPV,
		InstallmentMonths:    a.InstallmentMonths,
		InstallmentMarkup:    valueOr(a.InstallmentMarkup, 0),
	}
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// parameters builds the projection inputs of a lot.
func (s *CalculatorService) parameters(lot Lot, years int) (investment.Parameters, error) {
	if lot.Unit.Price == nil || *lot.Unit.Price <= 0 {
		return investment.Parameters{}, apperrors.ErrNoPriceForUnit
	}

	p := investment.Parameters{
		UnitPrice:            *lot.Unit.Price,
		RentalDailyRate:      lot.Assumptions.RentalDailyRate,
		OccupancyRate:        lot.Assumptions.OccupancyRate,
		OperatingExpensesPct: lot.Assumptions.OperatingExpensesPct,
		ManagementFeePct:     lot.Assumptions.ManagementFeePct,
		TaxRate:              lot.Assumptions.TaxRate,
		AppreciationRate:     lot.Assumptions.AppreciationRate,
		Years:                years,
	}
	if lot.Building != nil {
		p.IsCompleted = lot.Building.IsCompleted
		p.CommissioningTime = lot.Building.CommissioningTime
	}
	return p, nil
}

func (s *CalculatorService) project(lot Lot, years int) (investment.RoiSummary, error) {
	params, err := s.parameters(lot, years)
	if err != nil {
		return investment.RoiSummary{}, err
	}
	summary, err := investment.ProjectAt(params, s.now())
	if err != nil {
		return investment.RoiSummary{}, fmt.Errorf("failed to project lot %s: %w", lot.Unit.Code, err)
	}
	return summary, nil
}

// Roi projects a lot over years; zero years uses the configured horizon.
func (s *CalculatorService) Roi(userID int64, propertyID, code string, years int) (RoiReport, error) {
	if years == 0 {
		years = s.defaults.Years
	}

	lot, err := s.GetLot(userID, propertyID, code)
	if err != nil {
		return RoiReport{}, err
	}

	summary, err := s.project(lot, years)
	if err != nil {
		return RoiReport{}, err
	}

	return RoiReport{Lot: lot, Years: years, Summary: summary}, nil
}

// CompareToDeposit compares a lot against a deposit at the configured benchmark rate
// over years; zero years uses the configured horizon.
func (s *CalculatorService) CompareToDeposit(userID int64, propertyID, code string, years int) (ComparisonReport, error) {
	if years == 0 {
		years = s.defaults.Years
	}

	lot, err := s.GetLot(userID, propertyID, code)
	if err != nil {
		return ComparisonReport{}, err
	}

	summary, err := s.project(lot, years)
	if err != nil {
		return ComparisonReport{}, err
	}

	cmp, err := investment.CompareToDeposit(*lot.Unit.Price, summary, s.defaults.BenchmarkRate, years)
	if err != nil {
		return ComparisonReport{}, fmt.Errorf("failed to compare lot %s: %w", code, err)
	}

	return ComparisonReport{Lot: lot, Summary: summary, Comparison: cmp}, nil
}

// Installment computes the installment plan of a lot from the property's installment terms.
// Returns apperrors.ErrInstallmentNotConfigured when the down payment or term is not set.
func (s *CalculatorService) Installment(userID int64, propertyID, code string) (InstallmentReport, error) {
	lot, err := s.GetLot(userID, propertyID, code)
	if err != nil {
		return InstallmentReport{}, err
	}

	if lot.Unit.Price == nil || *lot.Unit.Price <= 0 {
		return InstallmentReport{}, apperrors.ErrNoPriceForUnit
	}
	a := lot.Assumptions
	if a.InstallmentPV == nil || a.InstallmentMonths == nil {
		return InstallmentReport{}, apperrors.ErrInstallmentNotConfigured
	}

	plan, err := investment.Amortize(*lot.Unit.Price, *a.InstallmentPV, *a.InstallmentMonths, a.InstallmentMarkup)
	if err != nil {
		return InstallmentReport{}, fmt.Errorf("failed to build installment plan for lot %s: %w", code, err)
	}

	return InstallmentReport{Lot: lot, Plan: plan}, nil
}
