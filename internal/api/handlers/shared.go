package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/response"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// respondServiceError maps a service error to an HTTP error response.
// Unexpected errors are logged and reported without details.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPropertyNotFound):
		response.RespondError(w, http.StatusNotFound, "property not found", "")
	case errors.Is(err, apperrors.ErrUnitNotFound):
		response.RespondError(w, http.StatusNotFound, "unit not found", "")
	case errors.Is(err, apperrors.ErrInvalidInput):
		response.RespondError(w, http.StatusBadRequest, "invalid input", err.Error())
	default:
		log.Printf("[http] request failed: %v", err)
		response.RespondError(w, http.StatusInternalServerError, "internal error", "")
	}
}
