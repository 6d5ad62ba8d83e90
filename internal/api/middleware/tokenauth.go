package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/response"
)

// TokenVerifier resolves a mini app access token to the Telegram user it was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type userIDKey struct{}

// MiniAppAuth authenticates mini app requests. The token is read from an
// "Authorization: Bearer" header, falling back to the "token" query parameter
// that the bot puts into the mini app URL. Returns 401 when it is missing or invalid.
func MiniAppAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing access token")
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Access token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
		})
	}
}

// UserIDFromContext returns the user authenticated by MiniAppAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
