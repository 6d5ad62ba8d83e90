package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/response"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/telegram"
)

// SecretTokenHeader carries the secret registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateSize = 1 << 20

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u telegram.Update)
}

// WebhookHandler receives updates pushed by Telegram.
type WebhookHandler struct {
	bot    UpdateHandler
	secret string
}

// NewWebhookHandler creates a WebhookHandler. An empty secret accepts every request.
func NewWebhookHandler(bot UpdateHandler, secret string) *WebhookHandler {
	return &WebhookHandler{
		bot:    bot,
		secret: secret,
	}
}

// Receive handles an update pushed by Telegram. The update is processed before
// responding so Telegram redelivers it if the process dies halfway.
//
// Endpoint: POST /webhook
// Response: 200 OK
// Error: 403 Forbidden on a wrong secret token, 400 Bad Request on an undecodable update
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			response.RespondError(w, http.StatusForbidden, "forbidden", "")
			return
		}
	}

	var u telegram.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateSize)).Decode(&u); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid update", err.Error())
		return
	}

	// Telegram may drop the connection while a slow import runs; finish the update anyway.
	h.bot.HandleUpdate(context.WithoutCancel(r.Context()), u)

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
