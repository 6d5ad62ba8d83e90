package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBuildingNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Корпус 3", 3},
		{"Дом 12, секция 2", 12},
		{"Family", 1},
		{"BUSINESS tower", 2},
		{"Центральный", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildingNumber(tt.name))
		})
	}
}

func TestQuarterTimestamp(t *testing.T) {
	assert.Equal(t, time.Date(2027, time.March, 1, 0, 0, 0, 0, time.Local), QuarterTimestamp(1, 2027))
	assert.Equal(t, time.Date(2027, time.June, 1, 0, 0, 0, 0, time.Local), QuarterTimestamp(2, 2027))
	assert.Equal(t, time.Date(2027, time.September, 1, 0, 0, 0, 0, time.Local), QuarterTimestamp(3, 2027))
	assert.Equal(t, time.Date(2027, time.December, 1, 0, 0, 0, 0, time.Local), QuarterTimestamp(4, 2027))
	assert.Equal(t, time.Date(2027, time.December, 1, 0, 0, 0, 0, time.Local), QuarterTimestamp(7, 2027))
}

// TestLotCode verifies lot code generation.
//
// WHY: Realtors type these codes into the bot; a code that does not match the
// developer's price list makes the unit unreachable.
func TestLotCode(t *testing.T) {
	assert.Equal(t, "А101", LotCode(Lot{ID: "9", Name: ptr("Кв. 101")}, 1))
	assert.Equal(t, "В7", LotCode(Lot{ID: "9", Name: ptr("№7 (2 этаж)")}, 2))
	assert.Equal(t, "С15", LotCode(Lot{Name: ptr("15")}, 3))
	assert.Equal(t, "F9", LotCode(Lot{ID: "9", Name: ptr("Студия")}, 6))
	assert.Equal(t, "А9", LotCode(Lot{ID: "9"}, 8))
	assert.Equal(t, "АX", LotCode(Lot{}, 1))
}

func TestLotStatus(t *testing.T) {
	assert.Equal(t, model.UnitAvailable, LotStatus(nil))
	assert.Equal(t, model.UnitAvailable, LotStatus(ptr(1)))
	assert.Equal(t, model.UnitBooked, LotStatus(ptr(2)))
	assert.Equal(t, model.UnitSold, LotStatus(ptr(3)))
}

func TestToProperty(t *testing.T) {
	f := Facility{
		ID:               "f-1",
		Name:             "ЖК Море",
		CityName:         "Сочи",
		Address:          "ул. Листовая",
		ActiveLotsAmount: 40,
		MinTotalPrice:    ptr(7_350_000.6),
	}

	t.Run("without details", func(t *testing.T) {
		p := ToProperty(f, nil, 42)

		assert.Equal(t, int64(42), p.UserID)
		assert.Equal(t, "f-1", p.FacilityID)
		assert.Equal(t, "Сочи", p.City)
		require.NotNil(t, p.MinPrice)
		assert.Equal(t, int64(7_350_001), *p.MinPrice)
		assert.Empty(t, p.Details.FacilityClass)
	})

	t.Run("details resolve dictionaries", func(t *testing.T) {
		d := &FacilityDetails{
			Address:        "ул. Листовая, 5",
			Class:          3,
			HasGas:         true,
			ParkingTypes:   []int{1, 9, 4},
			PaymentMethods: []int{2, 3},
			ContractType:   2,
		}
		p := ToProperty(f, d, 42)

		assert.Equal(t, "ул. Листовая, 5", p.Address)
		assert.Equal(t, "Бизнес", p.Details.FacilityClass)
		assert.True(t, p.Details.HasGas)
		assert.Equal(t, "Подземная, Гостевая", p.Details.ParkingTypes)
		assert.Equal(t, "Рассрочка, Ипотека", p.Details.PaymentMethods)
		assert.Equal(t, "ДДУ", p.Details.ContractType)
	})
}

func TestToBuildingAndUnit(t *testing.T) {
	c := Cluster{
		ID:                   "c-1",
		Name:                 "Корпус 2",
		TotalFloors:          ptr(9),
		CommissioningYear:    ptr(2027),
		CommissioningQuarter: ptr(3),
	}

	b := ToBuilding(c, "p-1")
	assert.Equal(t, 2, b.Number)
	require.NotNil(t, b.CommissioningDate)
	assert.Equal(t, "Q3 2027", *b.CommissioningDate)
	require.NotNil(t, b.CommissioningTime)
	assert.Equal(t, QuarterTimestamp(3, 2027), *b.CommissioningTime)

	t.Run("missing quarter leaves commissioning empty", func(t *testing.T) {
		b := ToBuilding(Cluster{Name: "Корпус 1", CommissioningYear: ptr(2027)}, "p-1")
		assert.Nil(t, b.CommissioningDate)
		assert.Nil(t, b.CommissioningTime)
	})

	b.ID = "b-1"
	lot := Lot{
		ID:           "l-1",
		Name:         ptr("Квартира 204"),
		Position:     LotPosition{VerticalPosition: ptr(2)},
		LayoutType:   ptr(0),
		AreaM2:       ptr(24.3),
		TotalPrice:   ptr(6_100_000.0),
		LayoutImages: []LayoutImage{{}, {URL: "https://img/204.png"}},
		Status:       ptr(3),
	}

	u := ToUnit(lot, b)
	assert.Equal(t, "В204", u.Code)
	assert.Equal(t, "p-1", u.PropertyID)
	require.NotNil(t, u.BuildingID)
	assert.Equal(t, "b-1", *u.BuildingID)
	assert.Equal(t, 2, u.Building)
	assert.Equal(t, 2, *u.Floor)
	assert.Equal(t, 0, *u.Rooms)
	assert.Equal(t, int64(6_100_000), *u.Price)
	assert.Nil(t, u.PricePerM2)
	assert.Equal(t, "https://img/204.png", *u.LayoutURL)
	assert.Equal(t, model.UnitSold, u.Status)
}
