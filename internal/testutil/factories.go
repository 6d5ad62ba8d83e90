package testutil

import (
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

// UserBuilder provides a fluent interface for creating test Telegram users.
//
// Example usage:
//
//	user := testutil.NewUser().WithUsername("realtor").Build(t, db)
type UserBuilder struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// NewUser creates a UserBuilder with a random Telegram ID.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:        MakeUserID(),
		Username:  "realtor_" + randomAlphanumeric(5),
		FirstName: "Test",
		LastName:  "Realtor",
	}
}

// WithID sets a custom Telegram ID.
func (b *UserBuilder) WithID(id int64) *UserBuilder {
	b.ID = id
	return b
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `INSERT INTO users (user_id, username, first_name, last_name) VALUES (?, ?, ?, ?)`
	if _, err := db.Exec(query, b.ID, b.Username, b.FirstName, b.LastName); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:        b.ID,
		Username:  b.Username,
		FirstName: b.FirstName,
		LastName:  b.LastName,
	}
}

// PropertyBuilder provides a fluent interface for creating test properties.
//
// Example usage:
//
//	property := testutil.NewProperty(user.ID).
//	    WithName("ЖК Солнечный").
//	    WithFacilityID("fac-1").
//	    Build(t, db)
type PropertyBuilder struct {
	ID         string
	UserID     int64
	FacilityID string
	Name       string
	City       string
	District   string
	Developer  string
	LotsCount  int
	MinPrice   *int64
}

// NewProperty creates a PropertyBuilder owned by the given user with sensible defaults.
func NewProperty(userID int64) *PropertyBuilder {
	return &PropertyBuilder{
		ID:         MakeID(),
		UserID:     userID,
		FacilityID: MakeFacilityID(),
		Name:       MakePropertyName("ЖК Тест"),
		City:       "Сочи",
		District:   "Адлер",
		Developer:  "Test Developer",
	}
}

// WithID sets a custom ID.
func (b *PropertyBuilder) WithID(id string) *PropertyBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PropertyBuilder) WithName(name string) *PropertyBuilder {
	b.Name = name
	return b
}

// WithFacilityID sets the catalog facility the property was imported from.
func (b *PropertyBuilder) WithFacilityID(facilityID string) *PropertyBuilder {
	b.FacilityID = facilityID
	return b
}

// WithStats sets the cached unit count and minimum price.
func (b *PropertyBuilder) WithStats(lotsCount int, minPrice int64) *PropertyBuilder {
	b.LotsCount = lotsCount
	b.MinPrice = &minPrice
	return b
}

// Build creates the property in the database and returns it.
func (b *PropertyBuilder) Build(t *testing.T, db *sql.DB) model.Property {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO property (id, user_id, facility_id, name, city, district, developer, lots_count, min_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.FacilityID, b.Name, b.City, b.District, b.Developer,
		b.LotsCount, b.MinPrice, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}

	return model.Property{
		ID:         b.ID,
		UserID:     b.UserID,
		FacilityID: b.FacilityID,
		Name:       b.Name,
		City:       b.City,
		District:   b.District,
		Developer:  b.Developer,
		LotsCount:  b.LotsCount,
		MinPrice:   b.MinPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// BuildingBuilder provides a fluent interface for creating test buildings.
type BuildingBuilder struct {
	ID                string
	PropertyID        string
	Name              string
	Number            int
	FloorsCount       int
	CommissioningDate *string
	CommissioningTime *time.Time
	IsCompleted       bool
}

// NewBuilding creates a BuildingBuilder for building number 1 of the given property.
func NewBuilding(propertyID string) *BuildingBuilder {
	return &BuildingBuilder{
		ID:          MakeID(),
		PropertyID:  propertyID,
		Name:        "Корпус 1",
		Number:      1,
		FloorsCount: 12,
	}
}

// WithNumber sets the building number.
func (b *BuildingBuilder) WithNumber(number int) *BuildingBuilder {
	b.Number = number
	return b
}

// WithCommissioning sets the commissioning label and time.
func (b *BuildingBuilder) WithCommissioning(label string, at time.Time) *BuildingBuilder {
	b.CommissioningDate = &label
	at = at.UTC().Truncate(time.Second)
	b.CommissioningTime = &at
	return b
}

// Completed marks the building as finished.
func (b *BuildingBuilder) Completed() *BuildingBuilder {
	b.IsCompleted = true
	return b
}

// Build creates the building in the database and returns it.
func (b *BuildingBuilder) Build(t *testing.T, db *sql.DB) model.Building {
	t.Helper()

	var commissioningTime any
	if b.CommissioningTime != nil {
		commissioningTime = b.CommissioningTime.Format(time.RFC3339)
	}

	query := `
		INSERT INTO building (id, property_id, cluster_id, name, number, floors_count, commissioning_date, commissioning_time, is_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, b.ID, b.PropertyID, "cluster-"+randomAlphanumeric(6), b.Name, b.Number,
		b.FloorsCount, b.CommissioningDate, commissioningTime, b.IsCompleted)
	if err != nil {
		t.Fatalf("Failed to create test building: %v", err)
	}

	floors := b.FloorsCount
	return model.Building{
		ID:                b.ID,
		PropertyID:        b.PropertyID,
		Name:              b.Name,
		Number:            b.Number,
		FloorsCount:       &floors,
		CommissioningDate: b.CommissioningDate,
		CommissioningTime: b.CommissioningTime,
		IsCompleted:       b.IsCompleted,
	}
}

// UnitBuilder provides a fluent interface for creating test units.
//
// Example usage:
//
//	unit := testutil.NewUnit(property.ID, building).
//	    WithCode("А101").
//	    WithPrice(12_500_000).
//	    WithArea(42.5).
//	    Build(t, db)
type UnitBuilder struct {
	ID         string
	PropertyID string
	BuildingID *string
	Building   int
	Code       string
	Floor      *int
	Rooms      *int
	AreaM2     *float64
	Price      *int64
	Status     string
}

// NewUnit creates a UnitBuilder inside the given building of a property.
func NewUnit(propertyID string, building model.Building) *UnitBuilder {
	buildingID := building.ID
	floor, rooms, area, price := 3, 1, 35.0, int64(10_000_000)
	return &UnitBuilder{
		ID:         MakeID(),
		PropertyID: propertyID,
		BuildingID: &buildingID,
		Building:   building.Number,
		Code:       "А" + randomDigits(3),
		Floor:      &floor,
		Rooms:      &rooms,
		AreaM2:     &area,
		Price:      &price,
		Status:     model.UnitAvailable,
	}
}

// WithCode sets the lot code.
func (b *UnitBuilder) WithCode(code string) *UnitBuilder {
	b.Code = code
	return b
}

// WithFloor sets the floor.
func (b *UnitBuilder) WithFloor(floor int) *UnitBuilder {
	b.Floor = &floor
	return b
}

// WithRooms sets the room count; 0 is a studio.
func (b *UnitBuilder) WithRooms(rooms int) *UnitBuilder {
	b.Rooms = &rooms
	return b
}

// WithArea sets the area in square meters.
func (b *UnitBuilder) WithArea(area float64) *UnitBuilder {
	b.AreaM2 = &area
	return b
}

// WithPrice sets the price.
func (b *UnitBuilder) WithPrice(price int64) *UnitBuilder {
	b.Price = &price
	return b
}

// WithoutPrice clears the price.
func (b *UnitBuilder) WithoutPrice() *UnitBuilder {
	b.Price = nil
	return b
}

// WithStatus sets the sale status.
func (b *UnitBuilder) WithStatus(status string) *UnitBuilder {
	b.Status = status
	return b
}

// Build creates the unit in the database and returns it.
func (b *UnitBuilder) Build(t *testing.T, db *sql.DB) model.Unit {
	t.Helper()

	var pricePerM2 *int64
	if b.Price != nil && b.AreaM2 != nil && *b.AreaM2 > 0 {
		v := int64(float64(*b.Price) / *b.AreaM2)
		pricePerM2 = &v
	}

	query := `
		INSERT INTO unit (id, property_id, building_id, lot_id, code, building, floor, rooms, area_m2, price, price_per_m2, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, b.ID, b.PropertyID, b.BuildingID, "lot-"+randomAlphanumeric(6), b.Code, b.Building,
		b.Floor, b.Rooms, b.AreaM2, b.Price, pricePerM2, b.Status)
	if err != nil {
		t.Fatalf("Failed to create test unit: %v", err)
	}

	return model.Unit{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		BuildingID: b.BuildingID,
		Code:       b.Code,
		Building:   b.Building,
		Floor:      b.Floor,
		Rooms:      b.Rooms,
		AreaM2:     b.AreaM2,
		Price:      b.Price,
		PricePerM2: pricePerM2,
		Status:     b.Status,
	}
}

// AssumptionsBuilder provides a fluent interface for creating investment assumptions.
// Fields that are not set stay NULL.
type AssumptionsBuilder struct {
	a model.Assumptions
}

// NewAssumptions creates an AssumptionsBuilder for a property with no fields set.
func NewAssumptions(propertyID string) *AssumptionsBuilder {
	return &AssumptionsBuilder{a: model.Assumptions{PropertyID: propertyID}}
}

// WithRentalDailyRate sets the daily rent.
func (b *AssumptionsBuilder) WithRentalDailyRate(rate int64) *AssumptionsBuilder {
	b.a.RentalDailyRate = &rate
	return b
}

// WithRates sets occupancy, operating expenses, management fee, tax and appreciation.
func (b *AssumptionsBuilder) WithRates(occupancy, operating, management, tax, appreciation float64) *AssumptionsBuilder {
	b.a.OccupancyRate = &occupancy
	b.a.OperatingExpensesPct = &operating
	b.a.ManagementFeePct = &management
	b.a.TaxRate = &tax
	b.a.AppreciationRate = &appreciation
	return b
}

// WithInstallment sets the installment terms.
func (b *AssumptionsBuilder) WithInstallment(downPaymentPct float64, months int, markupPct float64) *AssumptionsBuilder {
	b.a.InstallmentPV = &downPaymentPct
	b.a.InstallmentMonths = &months
	b.a.InstallmentMarkup = &markupPct
	return b
}

// Build creates the assumptions row in the database and returns it.
func (b *AssumptionsBuilder) Build(t *testing.T, db *sql.DB) model.Assumptions {
	t.Helper()

	query := `
		INSERT INTO property_custom (property_id, rental_daily_rate, occupancy_rate, operating_expenses_pct,
			management_fee_pct, tax_rate, appreciation_rate, installment_pv, installment_months, installment_markup)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	a := b.a
	_, err := db.Exec(query, a.PropertyID, a.RentalDailyRate, a.OccupancyRate, a.OperatingExpensesPct,
		a.ManagementFeePct, a.TaxRate, a.AppreciationRate, a.InstallmentPV, a.InstallmentMonths, a.InstallmentMarkup)
	if err != nil {
		t.Fatalf("Failed to create test assumptions: %v", err)
	}

	return a
}

// Convenience functions

// CreateUser creates a user with default values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// CreateProperty creates a property with the given name for a user.
//
// Example usage:
//
//	property := testutil.CreateProperty(t, db, user.ID, "ЖК Морской")
func CreateProperty(t *testing.T, db *sql.DB, userID int64, name string) model.Property {
	t.Helper()
	return NewProperty(userID).WithName(name).Build(t, db)
}

// CreatePropertyWithUnits creates a user, a property, one building and count units
// on floors 1..count with increasing prices starting at 10 000 000.
func CreatePropertyWithUnits(t *testing.T, db *sql.DB, count int) (model.User, model.Property, model.Building, []model.Unit) {
	t.Helper()

	user := CreateUser(t, db)
	property := NewProperty(user.ID).Build(t, db)
	building := NewBuilding(property.ID).Build(t, db)

	units := make([]model.Unit, 0, count)
	for i := 1; i <= count; i++ {
		units = append(units, NewUnit(property.ID, building).
			WithCode("А"+strconv.Itoa(100+i)).
			WithFloor(i).
			WithPrice(int64(10_000_000+i*500_000)).
			WithArea(30+float64(i)*5).
			Build(t, db))
	}

	return user, property, building, units
}
