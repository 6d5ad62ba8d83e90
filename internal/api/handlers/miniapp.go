package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/middleware"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/response"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
)

// MiniAppHandler serves the lot picker mini app. Every route requires a user
// authenticated by middleware.MiniAppAuth and a {propertyId} URL parameter.
type MiniAppHandler struct {
	propertyService *service.PropertyService
	searchService   *service.SearchService
}

// NewMiniAppHandler creates a new MiniAppHandler
func NewMiniAppHandler(propertyService *service.PropertyService, searchService *service.SearchService) *MiniAppHandler {
	return &MiniAppHandler{
		propertyService: propertyService,
		searchService:   searchService,
	}
}

// ownedProperty loads the {propertyId} property of the authenticated user.
// It writes the error response and returns false on failure.
func (h *MiniAppHandler) ownedProperty(w http.ResponseWriter, r *http.Request) (model.Property, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "unauthorized", "")
		return model.Property{}, false
	}

	p, err := h.propertyService.GetProperty(userID, chi.URLParam(r, "propertyId"))
	if err != nil {
		respondServiceError(w, err)
		return model.Property{}, false
	}
	return p, true
}

// Property returns a property with its buildings and per-building unit statistics.
//
// Endpoint: GET /api/miniapp/properties/{propertyId}
// Response: 200 OK with service.PropertyOverview
// Error: 404 Not Found when the property does not exist or belongs to another user
func (h *MiniAppHandler) Property(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProperty(w, r)
	if !ok {
		return
	}

	overview, err := h.propertyService.About(p.UserID, p.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// Floors returns the floors of a building that have units.
//
// Endpoint: GET /api/miniapp/properties/{propertyId}/buildings/{building}/floors
// Response: 200 OK with []model.FloorStats
// Error: 400 Bad Request on a non-numeric building, 404 Not Found for a foreign property
func (h *MiniAppHandler) Floors(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProperty(w, r)
	if !ok {
		return
	}

	building, err := strconv.Atoi(chi.URLParam(r, "building"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid building", err.Error())
		return
	}

	floors, err := h.searchService.Floors(p.ID, building)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if floors == nil {
		floors = []model.FloorStats{}
	}
	respondJSON(w, http.StatusOK, floors)
}

// Units returns the units on one floor of a building.
//
// Endpoint: GET /api/miniapp/properties/{propertyId}/units?building=1&floor=3
// Response: 200 OK with []model.Unit
// Error: 400 Bad Request when building or floor is missing or not a number
func (h *MiniAppHandler) Units(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProperty(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	building, err := strconv.Atoi(q.Get("building"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid building", "building must be a number")
		return
	}
	floor, err := strconv.Atoi(q.Get("floor"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid floor", "floor must be a number")
		return
	}

	units, err := h.searchService.UnitsOnFloor(p.ID, building, floor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	respondJSON(w, http.StatusOK, units)
}
