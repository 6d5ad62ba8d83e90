package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
)

type recordedCall struct {
	Method string
	Body   map[string]any
}

// newTestServer serves Bot API methods from responses keyed by method name
// and records every request.
func newTestServer(t *testing.T, responses map[string]string) (*Client, *[]recordedCall) {
	t.Helper()

	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		assert.True(t, strings.HasPrefix(r.URL.Path, "/bot123:abc/"), "unexpected path %s", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		calls = append(calls, recordedCall{Method: method, Body: body})

		resp, ok := responses[method]
		if !ok {
			resp = `{"ok":true,"result":true}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.TelegramConfig{APIURL: srv.URL + "/", Token: "123:abc"})
	return client, &calls
}

// TestClient_SendMessage verifies message requests and keyboard encoding.
//
// WHY: Every screen of the bot is a message with an inline keyboard; a keyboard
// encoded with the wrong field names is silently dropped by Telegram.
func TestClient_SendMessage(t *testing.T) {
	client, calls := newTestServer(t, map[string]string{
		"sendMessage": `{"ok":true,"result":{"message_id":42,"chat":{"id":7,"type":"private"},"text":"hi"}}`,
	})

	markup := Keyboard(
		Row(CallbackButton("Список", "list")),
		Row(WebAppButton("Выбор лота", "https://app.example/?property_id=1")),
	)
	msg, err := client.SendMessage(context.Background(), 7, "<b>hi</b>", markup)
	require.NoError(t, err)
	assert.Equal(t, 42, msg.MessageID)

	require.Len(t, *calls, 1)
	body := (*calls)[0].Body
	assert.Equal(t, float64(7), body["chat_id"])
	assert.Equal(t, "HTML", body["parse_mode"])

	rows := body["reply_markup"].(map[string]any)["inline_keyboard"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].([]any)[0].(map[string]any)
	assert.Equal(t, "list", first["callback_data"])
	assert.NotContains(t, first, "web_app")
	second := rows[1].([]any)[0].(map[string]any)
	assert.Equal(t, "https://app.example/?property_id=1", second["web_app"].(map[string]any)["url"])
	assert.NotContains(t, second, "callback_data")
}

func TestClient_EditMessageText(t *testing.T) {
	t.Run("not modified is ignored", func(t *testing.T) {
		client, _ := newTestServer(t, map[string]string{
			"editMessageText": `{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`,
		})

		err := client.EditMessageText(context.Background(), 7, 42, "same", nil)
		assert.NoError(t, err)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		client, _ := newTestServer(t, map[string]string{
			"editMessageText": `{"ok":false,"error_code":400,"description":"Bad Request: message to edit not found"}`,
		})

		err := client.EditMessageText(context.Background(), 7, 42, "text", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTelegram)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, "editMessageText", apiErr.Method)
	})
}

func TestClient_GetUpdates(t *testing.T) {
	client, calls := newTestServer(t, map[string]string{
		"getUpdates": `{"ok":true,"result":[
			{"update_id":10,"message":{"message_id":1,"from":{"id":5,"first_name":"Анна"},"chat":{"id":5,"type":"private"},"text":"/start"}},
			{"update_id":11,"callback_query":{"id":"cb1","from":{"id":5,"first_name":"Анна"},"data":"list"}}
		]}`,
	})

	updates, err := client.GetUpdates(context.Background(), 10, 25)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(5), updates[0].Message.From.ID)
	assert.Equal(t, "list", updates[1].CallbackQuery.Data)

	body := (*calls)[0].Body
	assert.Equal(t, float64(10), body["offset"])
	assert.Equal(t, float64(25), body["timeout"])
	assert.ElementsMatch(t, []any{"message", "callback_query"}, body["allowed_updates"])
}

func TestClient_Webhook(t *testing.T) {
	client, calls := newTestServer(t, nil)

	require.NoError(t, client.SetWebhook(context.Background(), "https://bot.example/webhook", "s3cret"))
	require.NoError(t, client.DeleteWebhook(context.Background()))
	require.NoError(t, client.AnswerCallbackQuery(context.Background(), "cb1", "Готово"))

	require.Len(t, *calls, 3)
	assert.Equal(t, "setWebhook", (*calls)[0].Method)
	assert.Equal(t, "s3cret", (*calls)[0].Body["secret_token"])
	assert.Equal(t, "deleteWebhook", (*calls)[1].Method)
	assert.Equal(t, "answerCallbackQuery", (*calls)[2].Method)
	assert.Equal(t, "cb1", (*calls)[2].Body["callback_query_id"])
}

func TestClient_Errors(t *testing.T) {
	t.Run("retry after is reported", func(t *testing.T) {
		client, _ := newTestServer(t, map[string]string{
			"sendMessage": `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":3}}`,
		})

		_, err := client.SendMessage(context.Background(), 1, "x", nil)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 3, apiErr.RetryAfter)
	})

	t.Run("undecodable body", func(t *testing.T) {
		client, _ := newTestServer(t, map[string]string{"sendMessage": `<html>bad gateway</html>`})

		_, err := client.SendMessage(context.Background(), 1, "x", nil)
		assert.ErrorIs(t, err, apperrors.ErrTelegram)
	})

	t.Run("unreachable server does not leak the token", func(t *testing.T) {
		client := NewClient(config.TelegramConfig{APIURL: "http://127.0.0.1:1", Token: "123:secret"})

		_, err := client.SendMessage(context.Background(), 1, "x", nil)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("cancelled context", func(t *testing.T) {
		client, _ := newTestServer(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetUpdates(ctx, 0, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
