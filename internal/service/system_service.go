package service

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/database"
)

// CatalogStatus reports the state of the facility cache.
type CatalogStatus interface {
	Loaded() bool
	Len() int
}

// SystemService handles system-related operations
type SystemService struct {
	db      *sql.DB
	catalog CatalogStatus
}

// NewSystemService creates a new SystemService. catalog may be nil.
func NewSystemService(db *sql.DB, catalog CatalogStatus) *SystemService {
	return &SystemService{
		db:      db,
		catalog: catalog,
	}
}

// SystemStatus describes the schema version and the facility cache.
type SystemStatus struct {
	SchemaVersion     int64 `json:"schemaVersion"`
	CatalogLoaded     bool  `json:"catalogLoaded"`
	CatalogFacilities int   `json:"catalogFacilities"`
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// Status returns the applied schema version and the facility cache state.
func (s *SystemService) Status() (SystemStatus, error) {
	v, err := goose.GetDBVersion(s.db)
	if err != nil {
		return SystemStatus{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	status := SystemStatus{SchemaVersion: v}
	if s.catalog != nil {
		status.CatalogLoaded = s.catalog.Loaded()
		status.CatalogFacilities = s.catalog.Len()
	}
	return status, nil
}
