package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
)

// ParseModeHTML makes Telegram render <b>, <i> and <a> tags in message text.
const ParseModeHTML = "HTML"

// allowedUpdates limits delivered updates to the kinds the bot handles.
var allowedUpdates = []string{"message", "callback_query"}

// APIError is an error reported by the Bot API.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.Code, e.Description)
}

func (e *APIError) Unwrap() error {
	return apperrors.ErrTelegram
}

// IsNotModified reports whether err is Telegram refusing an edit that changes nothing.
func IsNotModified(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message is not modified")
}

// Client is a Telegram Bot API client.
type Client struct {
	httpClient *http.Client
	baseURL    string // API URL with the bot token, e.g. https://api.telegram.org/bot<token>
}

// NewClient creates a Bot API client from configuration.
// The HTTP timeout leaves room for long polling requests.
func NewClient(cfg config.TelegramConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(cfg.APIURL, "/") + "/bot" + cfg.Token,
	}
}

// SendMessage sends an HTML message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (*Message, error) {
	req := sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             ParseModeHTML,
		DisableWebPagePreview: true,
		ReplyMarkup:           markup,
	}
	var msg Message
	if err := c.call(ctx, "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageText replaces the text and keyboard of a message sent by the bot.
// An edit that would not change the message is not an error.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) error {
	req := editMessageTextRequest{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  text,
		ParseMode:             ParseModeHTML,
		DisableWebPagePreview: true,
		ReplyMarkup:           markup,
	}
	err := c.call(ctx, "editMessageText", req, nil)
	if IsNotModified(err) {
		return nil
	}
	return err
}

// AnswerCallbackQuery stops the loading indicator of a pressed button,
// optionally showing text as a toast.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	}, nil)
}

// GetUpdates long-polls for updates after offset, waiting up to timeout seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", getUpdatesRequest{
		Offset:         offset,
		Timeout:        timeout,
		AllowedUpdates: allowedUpdates,
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// SetWebhook makes Telegram deliver updates to url, signed with secret.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	return c.call(ctx, "setWebhook", setWebhookRequest{
		URL:            url,
		SecretToken:    secret,
		AllowedUpdates: allowedUpdates,
	}, nil)
}

// DeleteWebhook removes the webhook so updates can be fetched with GetUpdates.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", deleteWebhookRequest{}, nil)
}

// call posts params as JSON to a Bot API method and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the bot token; report the method only.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s request failed", apperrors.ErrTelegram, method)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %s returned status %d with undecodable body", apperrors.ErrTelegram, method, resp.StatusCode)
	}
	if !envelope.OK {
		apiErr := &APIError{
			Method:      method,
			Code:        envelope.ErrorCode,
			Description: envelope.Description,
		}
		if envelope.Parameters != nil {
			apiErr.RetryAfter = envelope.Parameters.RetryAfter
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
