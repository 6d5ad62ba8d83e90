package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

// AssumptionsRepository provides data access methods for the property_custom table,
// which holds the realtor-editable investment assumptions of a property.
type AssumptionsRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssumptionsRepository creates a new AssumptionsRepository with the provided database connection.
func NewAssumptionsRepository(db *sql.DB) *AssumptionsRepository {
	return &AssumptionsRepository{db: db}
}

// WithTx returns a new AssumptionsRepository scoped to the provided transaction.
func (r *AssumptionsRepository) WithTx(tx *sql.Tx) *AssumptionsRepository {
	return &AssumptionsRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AssumptionsRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// assumptionColumns maps settable field names to their column, in table order.
var assumptionColumns = []string{
	"rental_daily_rate",
	"occupancy_rate",
	"operating_expenses_pct",
	"management_fee_pct",
	"tax_rate",
	"appreciation_rate",
	"installment_pv",
	"installment_months",
	"installment_markup",
	"commission",
	"commission_pct",
	"utp",
	"notes",
	"developer_phone",
	"developer_website",
}

// GetAssumptions retrieves the assumptions of a property.
// Returns apperrors.ErrAssumptionsNotFound if none were ever stored.
func (r *AssumptionsRepository) GetAssumptions(propertyID string) (model.Assumptions, error) {
	query := `
		SELECT property_id, rental_daily_rate, occupancy_rate, operating_expenses_pct,
			management_fee_pct, tax_rate, appreciation_rate, installment_pv,
			installment_months, installment_markup, commission, commission_pct,
			utp, notes, developer_phone, developer_website, updated_at
		FROM property_custom
		WHERE property_id = ?
	`
	var (
		a         model.Assumptions
		updatedAt sql.NullString
	)
	err := r.getQuerier().QueryRow(query, propertyID).Scan(
		&a.PropertyID,
		&a.RentalDailyRate,
		&a.OccupancyRate,
		&a.OperatingExpensesPct,
		&a.ManagementFeePct,
		&a.TaxRate,
		&a.AppreciationRate,
		&a.InstallmentPV,
		&a.InstallmentMonths,
		&a.InstallmentMarkup,
		&a.Commission,
		&a.CommissionPct,
		&a.UTP,
		&a.Notes,
		&a.DeveloperPhone,
		&a.DeveloperWebsite,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Assumptions{}, apperrors.ErrAssumptionsNotFound
	}
	if err != nil {
		return model.Assumptions{}, fmt.Errorf("failed to query property assumptions: %w", err)
	}

	if a.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return model.Assumptions{}, err
	}
	return a, nil
}

// UpsertAssumptions stores all assumption fields of a property, replacing previous values.
func (r *AssumptionsRepository) UpsertAssumptions(ctx context.Context, a model.Assumptions) error {
	query := `
		INSERT INTO property_custom (
			property_id, rental_daily_rate, occupancy_rate, operating_expenses_pct,
			management_fee_pct, tax_rate, appreciation_rate, installment_pv,
			installment_months, installment_markup, commission, commission_pct,
			utp, notes, developer_phone, developer_website, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(property_id) DO UPDATE SET
			rental_daily_rate = excluded.rental_daily_rate,
			occupancy_rate = excluded.occupancy_rate,
			operating_expenses_pct = excluded.operating_expenses_pct,
			management_fee_pct = excluded.management_fee_pct,
			tax_rate = excluded.tax_rate,
			appreciation_rate = excluded.appreciation_rate,
			installment_pv = excluded.installment_pv,
			installment_months = excluded.installment_months,
			installment_markup = excluded.installment_markup,
			commission = excluded.commission,
			commission_pct = excluded.commission_pct,
			utp = excluded.utp,
			notes = excluded.notes,
			developer_phone = excluded.developer_phone,
			developer_website = excluded.developer_website,
			updated_at = excluded.updated_at
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		a.PropertyID,
		a.RentalDailyRate,
		a.OccupancyRate,
		a.OperatingExpensesPct,
		a.ManagementFeePct,
		a.TaxRate,
		a.AppreciationRate,
		a.InstallmentPV,
		a.InstallmentMonths,
		a.InstallmentMarkup,
		a.Commission,
		a.CommissionPct,
		a.UTP,
		a.Notes,
		a.DeveloperPhone,
		a.DeveloperWebsite,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert property assumptions: %w", err)
	}
	return nil
}

// SetField stores a single assumption column, creating the row if needed.
// A nil value clears the field. Returns apperrors.ErrUnknownSetting for an unknown column.
func (r *AssumptionsRepository) SetField(ctx context.Context, propertyID, column string, value any) error {
	if !slices.Contains(assumptionColumns, column) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownSetting, column)
	}

	//#nosec G202 -- Safe: column is checked against a fixed allow-list
	query := `
		INSERT INTO property_custom (property_id, ` + column + `, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(property_id) DO UPDATE SET
			` + column + ` = excluded.` + column + `,
			updated_at = excluded.updated_at
	`
	if _, err := r.getQuerier().ExecContext(ctx, query, propertyID, value, formatTime(time.Now())); err != nil {
		return fmt.Errorf("failed to update property assumption %s: %w", column, err)
	}
	return nil
}
