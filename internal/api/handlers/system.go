package handlers

import (
	"net/http"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity.
//
// Endpoint: GET /api/system/health
// Response: 200 OK, or 503 Service Unavailable when the database is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Status reports the schema version and whether the facility catalog is loaded.
//
// Endpoint: GET /api/system/status
// Response: 200 OK with service.SystemStatus
// Error: 500 Internal Server Error if the schema version cannot be read
func (h *SystemHandler) Status(w http.ResponseWriter, _ *http.Request) {
	status, err := h.systemService.Status()
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "failed to get system status",
			"detail": err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, status)
}
