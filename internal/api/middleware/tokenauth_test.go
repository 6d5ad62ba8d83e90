package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/middleware"
)

type stubVerifier map[string]int64

func (s stubVerifier) Verify(token string) (int64, error) {
	id, ok := s[token]
	if !ok {
		return 0, errors.New("bad token")
	}
	return id, nil
}

func TestMiniAppAuth(t *testing.T) {
	verifier := stubVerifier{"good-token": 777}

	run := func(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, int64, bool) {
		t.Helper()
		var (
			gotID  int64
			called bool
		)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			gotID, _ = middleware.UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		middleware.MiniAppAuth(verifier)(next).ServeHTTP(w, req)
		return w, gotID, called
	}

	t.Run("rejects request without token", func(t *testing.T) {
		w, _, called := run(t, httptest.NewRequest(http.MethodGet, "/test", nil))

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if response["details"] != "Missing access token" {
			t.Errorf("Expected 'Missing access token' error, got '%s'", response["details"])
		}
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer forged")

		w, _, called := run(t, req)

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test?token=good-token", nil)
		req.Header.Set("Authorization", "Basic good-token")

		w, _, called := run(t, req)

		if called || w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without calling handler, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("accepts bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "bearer good-token")

		w, id, called := run(t, req)

		if !called {
			t.Fatal("Expected handler to complete.")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
		if id != 777 {
			t.Errorf("Expected user 777 in context, got %d", id)
		}
	})

	t.Run("accepts query token", func(t *testing.T) {
		_, id, called := run(t, httptest.NewRequest(http.MethodGet, "/test?token=good-token", nil))

		if !called || id != 777 {
			t.Errorf("Expected handler with user 777, got called=%v id=%d", called, id)
		}
	})
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if _, ok := middleware.UserIDFromContext(req.Context()); ok {
		t.Error("Expected no user in a fresh context")
	}
}
