// Package middleware provides HTTP middleware for request validation and authentication.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/response"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/validation"
)

// ValidateUUIDParam validates that the named URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if it is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/properties/{propertyId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDParam("propertyId"))
//	    r.Get("/buildings", handler.Buildings)
//	})
func ValidateUUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, name)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, "valid "+name+" is required", "")
				return
			}

			if err := validation.ValidateUUID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid "+name+" format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
