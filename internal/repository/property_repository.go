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

// PropertyRepository provides data access methods for the property table.
type PropertyRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPropertyRepository creates a new PropertyRepository with the provided database connection.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// WithTx returns a new PropertyRepository scoped to the provided transaction.
func (r *PropertyRepository) WithTx(tx *sql.Tx) *PropertyRepository {
	return &PropertyRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PropertyRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const propertyColumns = `
	id, user_id, facility_id, name, city, district, address, developer, description,
	main_image_url, lots_count, min_price, commission_percent,
	facility_class, facility_subtype, territory_type, has_gas, has_electricity,
	heating_type, sewerage_type, water_supply_type, parking_types, contract_type,
	payment_methods, commissioning_year, commissioning_quarter, is_commissioned,
	created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (model.Property, error) {
	var (
		p                    model.Property
		createdAt, updatedAt sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FacilityID,
		&p.Name,
		&p.City,
		&p.District,
		&p.Address,
		&p.Developer,
		&p.Description,
		&p.MainImageURL,
		&p.LotsCount,
		&p.MinPrice,
		&p.CommissionPercent,
		&p.Details.FacilityClass,
		&p.Details.FacilitySubtype,
		&p.Details.TerritoryType,
		&p.Details.HasGas,
		&p.Details.HasElectricity,
		&p.Details.HeatingType,
		&p.Details.SewerageType,
		&p.Details.WaterSupplyType,
		&p.Details.ParkingTypes,
		&p.Details.ContractType,
		&p.Details.PaymentMethods,
		&p.Details.CommissioningYear,
		&p.Details.CommissioningQuarter,
		&p.Details.IsCommissioned,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Property{}, err
	}

	if t, err := parseNullTime(createdAt); err != nil {
		return model.Property{}, err
	} else if t != nil {
		p.CreatedAt = *t
	}
	if t, err := parseNullTime(updatedAt); err != nil {
		return model.Property{}, err
	} else if t != nil {
		p.UpdatedAt = *t
	}

	return p, nil
}

// ListByUser retrieves the properties a user has added, ordered by name.
// Returns an empty slice if the user has none.
func (r *PropertyRepository) ListByUser(userID int64) ([]model.Property, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + propertyColumns + ` FROM property WHERE user_id = ? ORDER BY name`

	rows, err := r.getQuerier().Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property table: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property table results: %w", err)
		}
		properties = append(properties, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property table: %w", err)
	}

	return properties, nil
}

// GetProperty retrieves a property by ID.
// Returns apperrors.ErrPropertyNotFound if it does not exist.
func (r *PropertyRepository) GetProperty(propertyID string) (model.Property, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + propertyColumns + ` FROM property WHERE id = ?`

	p, err := scanProperty(r.getQuerier().QueryRow(query, propertyID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Property{}, apperrors.ErrPropertyNotFound
	}
	if err != nil {
		return model.Property{}, fmt.Errorf("failed to query property: %w", err)
	}
	return p, nil
}

// GetByFacility retrieves the property a user created from the given catalog facility.
// Returns apperrors.ErrPropertyNotFound if the user has not added it.
func (r *PropertyRepository) GetByFacility(userID int64, facilityID string) (model.Property, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `SELECT ` + propertyColumns + ` FROM property WHERE user_id = ? AND facility_id = ?`

	p, err := scanProperty(r.getQuerier().QueryRow(query, userID, facilityID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Property{}, apperrors.ErrPropertyNotFound
	}
	if err != nil {
		return model.Property{}, fmt.Errorf("failed to query property by facility: %w", err)
	}
	return p, nil
}

// InsertProperty creates a property row. The ID must already be set.
func (r *PropertyRepository) InsertProperty(ctx context.Context, p model.Property) error {
	query := `
		INSERT INTO property (
			id, user_id, facility_id, name, city, district, address, developer, description,
			main_image_url, lots_count, min_price, commission_percent,
			facility_class, facility_subtype, territory_type, has_gas, has_electricity,
			heating_type, sewerage_type, water_supply_type, parking_types, contract_type,
			payment_methods, commissioning_year, commissioning_quarter, is_commissioned,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := formatTime(time.Now())

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.FacilityID,
		p.Name,
		p.City,
		p.District,
		p.Address,
		p.Developer,
		p.Description,
		p.MainImageURL,
		p.LotsCount,
		p.MinPrice,
		p.CommissionPercent,
		p.Details.FacilityClass,
		p.Details.FacilitySubtype,
		p.Details.TerritoryType,
		p.Details.HasGas,
		p.Details.HasElectricity,
		p.Details.HeatingType,
		p.Details.SewerageType,
		p.Details.WaterSupplyType,
		p.Details.ParkingTypes,
		p.Details.ContractType,
		p.Details.PaymentMethods,
		p.Details.CommissioningYear,
		p.Details.CommissioningQuarter,
		p.Details.IsCommissioned,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

// DeleteProperty removes a property. Buildings, units and assumptions cascade.
// Returns apperrors.ErrPropertyNotFound if nothing was deleted.
func (r *PropertyRepository) DeleteProperty(ctx context.Context, propertyID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM property WHERE id = ?`, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrPropertyNotFound
	}
	return nil
}

// RefreshStats recalculates the cached unit count and minimum price of a property.
func (r *PropertyRepository) RefreshStats(ctx context.Context, propertyID string) error {
	query := `
		UPDATE property SET
			lots_count = (SELECT COUNT(*) FROM unit WHERE property_id = ?),
			min_price = (SELECT MIN(price) FROM unit WHERE property_id = ?),
			updated_at = ?
		WHERE id = ?
	`
	_, err := r.getQuerier().ExecContext(ctx, query, propertyID, propertyID, formatTime(time.Now()), propertyID)
	if err != nil {
		return fmt.Errorf("failed to refresh property stats: %w", err)
	}
	return nil
}
