package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
)

const (
	// areaTolerance widens a single area into a range, in square meters.
	areaTolerance = 5
	// similarCodesLimit caps the suggestions returned for an unknown lot code.
	similarCodesLimit = 5
)

var million = decimal.NewFromInt(1_000_000)

// latinToCyrillic maps Latin look-alikes to the Cyrillic building letters used in lot codes.
var latinToCyrillic = strings.NewReplacer("A", "А", "B", "В", "C", "С")

// SearchService finds units of a property.
type SearchService struct {
	unitRepo *repository.UnitRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(unitRepo *repository.UnitRepository) *SearchService {
	return &SearchService{
		unitRepo: unitRepo,
	}
}

// AreaRange is an inclusive range of unit areas in square meters.
type AreaRange struct {
	Min float64
	Max float64
}

// BudgetRange is an inclusive range of unit prices in rubles.
type BudgetRange struct {
	Min int64
	Max int64
}

// CodeResult is the outcome of a lot code search: either the exact unit or
// up to five units whose code contains the query.
type CodeResult struct {
	Code    string
	Unit    *model.Unit
	Similar []model.Unit
}

// ParseAreaRange reads an area range from user input. One number means ±5 m² around it.
func ParseAreaRange(text string) (AreaRange, error) {
	nums := extractNumbers(text)
	switch len(nums) {
	case 0:
		return AreaRange{}, fmt.Errorf("%w: no area in %q", apperrors.ErrInvalidInput, text)
	case 1:
		center, _ := nums[0].Float64()
		return AreaRange{Min: max(center-areaTolerance, 0), Max: center + areaTolerance}, nil
	}
	lo, hi := ordered(nums[0], nums[1])
	minArea, _ := lo.Float64()
	maxArea, _ := hi.Float64()
	return AreaRange{Min: minArea, Max: maxArea}, nil
}

// ParseBudgetRange reads a budget in millions of rubles from user input.
// One number is the maximum budget.
func ParseBudgetRange(text string) (BudgetRange, error) {
	nums := extractNumbers(text)
	switch len(nums) {
	case 0:
		return BudgetRange{}, fmt.Errorf("%w: no budget in %q", apperrors.ErrInvalidInput, text)
	case 1:
		return BudgetRange{Max: nums[0].Mul(million).IntPart()}, nil
	}
	lo, hi := ordered(nums[0], nums[1])
	return BudgetRange{Min: lo.Mul(million).IntPart(), Max: hi.Mul(million).IntPart()}, nil
}

// NormalizeLotCode upper-cases a typed lot code and replaces Latin look-alike letters
// with the Cyrillic ones used for buildings 1 to 3.
func NormalizeLotCode(code string) string {
	code = strings.ToUpper(strings.Join(strings.Fields(code), ""))
	return latinToCyrillic.Replace(code)
}

// BuildingStats returns unit statistics per building number.
func (s *SearchService) BuildingStats(propertyID string) ([]model.BuildingStats, error) {
	return s.unitRepo.BuildingStats(propertyID)
}

// Floors returns the floors of a building that have units.
func (s *SearchService) Floors(propertyID string, building int) ([]model.FloorStats, error) {
	return s.unitRepo.Floors(propertyID, building)
}

// UnitsOnFloor returns the units on one floor of a building.
func (s *SearchService) UnitsOnFloor(propertyID string, building, floor int) ([]model.Unit, error) {
	return s.unitRepo.ListUnits(propertyID, building, floor)
}

// ByArea returns the units within the area range typed by the user.
func (s *SearchService) ByArea(propertyID, text string) (AreaRange, []model.Unit, error) {
	r, err := ParseAreaRange(text)
	if err != nil {
		return AreaRange{}, nil, err
	}
	units, err := s.unitRepo.ListByAreaRange(propertyID, r.Min, r.Max)
	if err != nil {
		return r, nil, err
	}
	return r, units, nil
}

// ByBudget returns the units within the budget typed by the user.
func (s *SearchService) ByBudget(propertyID, text string) (BudgetRange, []model.Unit, error) {
	r, err := ParseBudgetRange(text)
	if err != nil {
		return BudgetRange{}, nil, err
	}
	units, err := s.unitRepo.ListByPriceRange(propertyID, r.Min, r.Max)
	if err != nil {
		return r, nil, err
	}
	return r, units, nil
}

// ByCode looks a unit up by its code, falling back to similar codes.
func (s *SearchService) ByCode(propertyID, text string) (CodeResult, error) {
	code := NormalizeLotCode(text)
	if code == "" {
		return CodeResult{}, fmt.Errorf("%w: empty lot code", apperrors.ErrInvalidInput)
	}

	u, err := s.unitRepo.GetByCode(propertyID, code)
	if err == nil {
		return CodeResult{Code: code, Unit: &u}, nil
	}
	if !errors.Is(err, apperrors.ErrUnitNotFound) {
		return CodeResult{}, err
	}

	similar, err := s.unitRepo.FindByCodeFragment(propertyID, code, similarCodesLimit)
	if err != nil {
		return CodeResult{}, err
	}
	return CodeResult{Code: code, Similar: similar}, nil
}
