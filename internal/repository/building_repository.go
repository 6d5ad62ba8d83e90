package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

// BuildingRepository provides data access methods for the building table.
type BuildingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewBuildingRepository creates a new BuildingRepository with the provided database connection.
func NewBuildingRepository(db *sql.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// WithTx returns a new BuildingRepository scoped to the provided transaction.
func (r *BuildingRepository) WithTx(tx *sql.Tx) *BuildingRepository {
	return &BuildingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *BuildingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanBuilding(row rowScanner) (model.Building, error) {
	var (
		b                 model.Building
		commissioningTime sql.NullString
	)
	err := row.Scan(
		&b.ID,
		&b.PropertyID,
		&b.ClusterID,
		&b.Name,
		&b.Number,
		&b.FloorsCount,
		&b.CommissioningDate,
		&commissioningTime,
		&b.IsCompleted,
	)
	if err != nil {
		return model.Building{}, err
	}

	if b.CommissioningTime, err = parseNullTime(commissioningTime); err != nil {
		return model.Building{}, err
	}
	return b, nil
}

// ListByProperty retrieves the buildings of a property ordered by number.
func (r *BuildingRepository) ListByProperty(propertyID string) ([]model.Building, error) {
	query := `
		SELECT id, property_id, cluster_id, name, number, floors_count,
			commissioning_date, commissioning_time, is_completed
		FROM building
		WHERE property_id = ?
		ORDER BY number, name
	`
	rows, err := r.getQuerier().Query(query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query building table: %w", err)
	}
	defer rows.Close()

	buildings := []model.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building table results: %w", err)
		}
		buildings = append(buildings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating building table: %w", err)
	}

	return buildings, nil
}

// GetBuilding retrieves a building by ID.
// Returns apperrors.ErrBuildingNotFound if it does not exist.
func (r *BuildingRepository) GetBuilding(buildingID string) (model.Building, error) {
	query := `
		SELECT id, property_id, cluster_id, name, number, floors_count,
			commissioning_date, commissioning_time, is_completed
		FROM building
		WHERE id = ?
	`
	b, err := scanBuilding(r.getQuerier().QueryRow(query, buildingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Building{}, apperrors.ErrBuildingNotFound
	}
	if err != nil {
		return model.Building{}, fmt.Errorf("failed to query building: %w", err)
	}
	return b, nil
}

// InsertBuilding creates a building row. The ID must already be set.
func (r *BuildingRepository) InsertBuilding(ctx context.Context, b model.Building) error {
	query := `
		INSERT INTO building (id, property_id, cluster_id, name, number, floors_count,
			commissioning_date, commissioning_time, is_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		b.ID,
		b.PropertyID,
		b.ClusterID,
		b.Name,
		b.Number,
		b.FloorsCount,
		b.CommissioningDate,
		nullTime(b.CommissioningTime),
		b.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert building: %w", err)
	}
	return nil
}
