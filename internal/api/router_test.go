package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/miniapp"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/telegram"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/testutil"
)

type nopBot struct{ calls int }

func (b *nopBot) HandleUpdate(context.Context, telegram.Update) { b.calls++ }

// TestRouter exercises the wired routes end to end.
//
// WHY: The mini app is called cross-origin with a token issued by the bot; a
// route registered outside the auth group would expose other users' lots.
func TestRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user, property, _, _ := testutil.CreatePropertyWithUnits(t, db, 3)

	auth, err := miniapp.NewAuth(config.MiniAppConfig{URL: "https://app.example/miniapp", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewAuth() error = %v", err)
	}
	token, err := auth.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	bot := &nopBot{}
	cfg := &config.Config{
		CORS:     config.CORSConfig{AllowedOrigins: []string{"https://app.example"}},
		Telegram: config.TelegramConfig{WebhookSecret: "s3cret"},
	}
	router := NewRouter(Dependencies{
		System:     testutil.NewTestSystemService(t, db),
		Properties: testutil.NewTestPropertyService(t, db),
		Search:     testutil.NewTestSearchService(t, db),
		Bot:        bot,
		Tokens:     auth,
	}, cfg)

	do := func(method, target, bearer string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	unitsPath := "/api/miniapp/properties/" + property.ID + "/units?building=1&floor=1"

	t.Run("health", func(t *testing.T) {
		if w := do(http.MethodGet, "/api/system/health", "", ""); w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("status", func(t *testing.T) {
		w := do(http.MethodGet, "/api/system/status", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("webhook requires the secret", func(t *testing.T) {
		if w := do(http.MethodPost, "/webhook", "", `{"update_id": 1}`); w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", w.Code)
		}
		if bot.calls != 0 {
			t.Errorf("Expected no dispatched update, got %d", bot.calls)
		}
	})

	t.Run("mini app with a valid token", func(t *testing.T) {
		w := do(http.MethodGet, unitsPath, token, "")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "А101") {
			t.Errorf("Expected unit А101 in response, got %s", w.Body.String())
		}
	})

	t.Run("mini app without a token", func(t *testing.T) {
		if w := do(http.MethodGet, unitsPath, "", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("mini app with a forged token", func(t *testing.T) {
		if w := do(http.MethodGet, unitsPath, "not-a-token", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("mini app rejects a malformed property ID", func(t *testing.T) {
		w := do(http.MethodGet, "/api/miniapp/properties/not-a-uuid/units?building=1&floor=1", token, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("CORS preflight from the mini app origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, unitsPath, nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
			t.Errorf("Expected allowed origin header, got %q", got)
		}
	})
}
