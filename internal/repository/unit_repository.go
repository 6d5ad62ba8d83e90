package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

// UnitRepository provides data access methods for the unit table.
type UnitRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUnitRepository creates a new UnitRepository with the provided database connection.
func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// WithTx returns a new UnitRepository scoped to the provided transaction.
func (r *UnitRepository) WithTx(tx *sql.Tx) *UnitRepository {
	return &UnitRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *UnitRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const unitColumns = `
	id, property_id, building_id, lot_id, code, building, floor, rooms, area_m2,
	price, price_per_m2, layout_url, decoration_type, status, block_section
`

func scanUnit(row rowScanner) (model.Unit, error) {
	var u model.Unit
	err := row.Scan(
		&u.ID,
		&u.PropertyID,
		&u.BuildingID,
		&u.LotID,
		&u.Code,
		&u.Building,
		&u.Floor,
		&u.Rooms,
		&u.AreaM2,
		&u.Price,
		&u.PricePerM2,
		&u.LayoutURL,
		&u.DecorationType,
		&u.Status,
		&u.BlockSection,
	)
	return u, err
}

func (r *UnitRepository) queryUnits(query string, args ...any) ([]model.Unit, error) {
	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit table: %w", err)
	}
	defer rows.Close()

	units := []model.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit table results: %w", err)
		}
		units = append(units, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit table: %w", err)
	}

	return units, nil
}

// ListUnits retrieves the units of a property, optionally narrowed to a building number
// and floor. A zero building or floor means no filter.
func (r *UnitRepository) ListUnits(propertyID string, building, floor int) ([]model.Unit, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + unitColumns + ` FROM unit WHERE property_id = ?`
	args := []any{propertyID}

	if building != 0 {
		query += ` AND building = ?`
		args = append(args, building)
	}
	if floor != 0 {
		query += ` AND floor = ?`
		args = append(args, floor)
	}
	query += ` ORDER BY building, floor, code`

	return r.queryUnits(query, args...)
}

// GetByCode retrieves a unit of a property by its lot code.
// Returns apperrors.ErrUnitNotFound if no unit has that code.
func (r *UnitRepository) GetByCode(propertyID, code string) (model.Unit, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + unitColumns + ` FROM unit WHERE property_id = ? AND code = ? ORDER BY building LIMIT 1`

	u, err := scanUnit(r.getQuerier().QueryRow(query, propertyID, code))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Unit{}, apperrors.ErrUnitNotFound
	}
	if err != nil {
		return model.Unit{}, fmt.Errorf("failed to query unit: %w", err)
	}
	return u, nil
}

// FindByCodeFragment retrieves up to limit units whose code contains the fragment.
func (r *UnitRepository) FindByCodeFragment(propertyID, fragment string, limit int) ([]model.Unit, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + unitColumns + ` FROM unit
		WHERE property_id = ? AND instr(code, ?) > 0
		ORDER BY building, code
		LIMIT ?`

	return r.queryUnits(query, propertyID, fragment, limit)
}

// ListByPriceRange retrieves units priced within [minPrice, maxPrice], cheapest first.
func (r *UnitRepository) ListByPriceRange(propertyID string, minPrice, maxPrice int64) ([]model.Unit, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + unitColumns + ` FROM unit
		WHERE property_id = ? AND price BETWEEN ? AND ?
		ORDER BY price`

	return r.queryUnits(query, propertyID, minPrice, maxPrice)
}

// ListByAreaRange retrieves units with an area within [minArea, maxArea], smallest first.
func (r *UnitRepository) ListByAreaRange(propertyID string, minArea, maxArea float64) ([]model.Unit, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + unitColumns + ` FROM unit
		WHERE property_id = ? AND area_m2 BETWEEN ? AND ?
		ORDER BY area_m2`

	return r.queryUnits(query, propertyID, minArea, maxArea)
}

// BuildingStats aggregates unit counts, prices and floors per building number.
func (r *UnitRepository) BuildingStats(propertyID string) ([]model.BuildingStats, error) {
	query := `
		SELECT building, COUNT(*), MIN(price), MAX(price), MIN(floor), MAX(floor)
		FROM unit
		WHERE property_id = ?
		GROUP BY building
		ORDER BY building
	`
	rows, err := r.getQuerier().Query(query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query building stats: %w", err)
	}
	defer rows.Close()

	stats := []model.BuildingStats{}
	for rows.Next() {
		var s model.BuildingStats
		if err := rows.Scan(&s.Building, &s.Count, &s.MinPrice, &s.MaxPrice, &s.MinFloor, &s.MaxFloor); err != nil {
			return nil, fmt.Errorf("failed to scan building stats: %w", err)
		}
		stats = append(stats, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating building stats: %w", err)
	}

	return stats, nil
}

// Floors lists the floors of a building number with their unit count and minimum price.
// Units without a floor are skipped.
func (r *UnitRepository) Floors(propertyID string, building int) ([]model.FloorStats, error) {
	query := `
		SELECT floor, COUNT(*), MIN(price)
		FROM unit
		WHERE property_id = ? AND building = ? AND floor IS NOT NULL
		GROUP BY floor
		ORDER BY floor
	`
	rows, err := r.getQuerier().Query(query, propertyID, building)
	if err != nil {
		return nil, fmt.Errorf("failed to query floors: %w", err)
	}
	defer rows.Close()

	floors := []model.FloorStats{}
	for rows.Next() {
		var f model.FloorStats
		if err := rows.Scan(&f.Floor, &f.Count, &f.MinPrice); err != nil {
			return nil, fmt.Errorf("failed to scan floors: %w", err)
		}
		floors = append(floors, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating floors: %w", err)
	}

	return floors, nil
}

// InsertUnit creates a unit row. The ID must already be set.
func (r *UnitRepository) InsertUnit(ctx context.Context, u model.Unit) error {
	query := `
		INSERT INTO unit (id, property_id, building_id, lot_id, code, building, floor, rooms, area_m2,
			price, price_per_m2, layout_url, decoration_type, status, block_section, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	status := u.Status
	if status == "" {
		status = model.UnitAvailable
	}
	now := formatTime(time.Now())

	_, err := r.getQuerier().ExecContext(ctx, query,
		u.ID,
		u.PropertyID,
		u.BuildingID,
		u.LotID,
		u.Code,
		u.Building,
		u.Floor,
		u.Rooms,
		u.AreaM2,
		u.Price,
		u.PricePerM2,
		u.LayoutURL,
		u.DecorationType,
		status,
		u.BlockSection,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}
