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

// UserRepository provides data access methods for the users and user_state tables.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser registers a Telegram user or refreshes the profile fields of a known one.
func (r *UserRepository) UpsertUser(ctx context.Context, u model.User) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by Telegram ID.
// Returns apperrors.ErrUserNotFound if the user never started the bot.
func (r *UserRepository) GetUser(userID int64) (model.User, error) {
	query := `
		SELECT user_id, username, first_name, last_name, created_at
		FROM users
		WHERE user_id = ?
	`
	var (
		u         model.User
		createdAt sql.NullString
	)
	err := r.db.QueryRow(query, userID).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if createdAt.Valid {
		if u.CreatedAt, err = ParseTime(createdAt.String); err != nil {
			return model.User{}, err
		}
	}
	return u, nil
}

// GetState retrieves the conversation state of a user.
// A user without a stored state is idle, which is not an error.
func (r *UserRepository) GetState(userID int64) (model.UserState, error) {
	query := `
		SELECT user_id, current_property_id, current_lot_code, state, state_data, updated_at
		FROM user_state
		WHERE user_id = ?
	`
	var (
		st        model.UserState
		state     string
		updatedAt string
	)
	err := r.db.QueryRow(query, userID).Scan(
		&st.UserID,
		&st.CurrentPropertyID,
		&st.CurrentLotCode,
		&state,
		&st.StateData,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserState{UserID: userID}, nil
	}
	if err != nil {
		return model.UserState{}, fmt.Errorf("failed to query user state: %w", err)
	}

	st.State = model.DialogState(state)
	if st.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.UserState{}, err
	}
	return st, nil
}

// SetState stores the conversation state of a user, replacing the previous one.
func (r *UserRepository) SetState(ctx context.Context, st model.UserState) error {
	query := `
		INSERT INTO user_state (user_id, current_property_id, current_lot_code, state, state_data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_property_id = excluded.current_property_id,
			current_lot_code = excluded.current_lot_code,
			state = excluded.state,
			state_data = excluded.state_data,
			updated_at = excluded.updated_at
	`
	updatedAt := st.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		st.UserID,
		st.CurrentPropertyID,
		st.CurrentLotCode,
		string(st.State),
		st.StateData,
		formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to store user state: %w", err)
	}
	return nil
}

// DeleteStaleStates removes conversation states last touched before the cutoff
// and returns how many were removed.
func (r *UserRepository) DeleteStaleStates(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_state WHERE updated_at < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale states: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
