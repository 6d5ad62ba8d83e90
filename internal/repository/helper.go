package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// sqliteTimestamp is the layout CURRENT_TIMESTAMP defaults are stored in.
const sqliteTimestamp = "2006-01-02 15:04:05"

// ParseTime parses a stored timestamp in RFC3339, "2006-01-02 15:04:05" or "2006-01-02" format.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, sqliteTimestamp, "2006-01-02"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// formatTime renders a time the way ParseTime reads it back. Stored values sort chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := ParseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
