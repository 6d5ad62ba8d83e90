// Package response provides helpers for consistent JSON responses.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the body of every error returned by the API.
// Details is optional additional context.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends data as JSON with the given status code.
// A nil data sends only the status code. Encoding errors are logged.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[http] failed to encode JSON response: %v", err)
		}
	}
}

// RespondError sends an ErrorResponse with the given status code.
//
// Example:
//
//	response.RespondError(w, http.StatusNotFound, "property not found", "")
//	response.RespondError(w, http.StatusBadRequest, "invalid floor", err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
