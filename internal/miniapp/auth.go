// Package miniapp issues and verifies the access tokens the Telegram mini app
// uses to call the lot picker API on behalf of a user.
package miniapp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
)

type claims struct {
	UserID    int64 `json:"u"`
	ExpiresAt int64 `json:"e"`
}

// Auth signs and encrypts mini app tokens with a fernet key.
type Auth struct {
	key     *fernet.Key
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

// NewAuth creates an Auth from configuration. Without a configured key a random one
// is generated, so tokens do not survive a restart.
func NewAuth(cfg config.MiniAppConfig) (*Auth, error) {
	var key *fernet.Key
	if cfg.TokenKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate mini app key: %w", err)
		}
		log.Println("[miniapp] MINIAPP_TOKEN_KEY not set, using an ephemeral key")
	} else {
		k, err := fernet.DecodeKey(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIAPP_TOKEN_KEY: %w", err)
		}
		key = k
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Auth{
		key:     key,
		ttl:     ttl,
		baseURL: cfg.URL,
		now:     time.Now,
	}, nil
}

// WithClock replaces the clock used for token expiry.
func (a *Auth) WithClock(now func() time.Time) *Auth {
	a.now = now
	return a
}

// Issue creates a token for userID that expires after the configured TTL.
func (a *Auth) Issue(userID int64) (string, error) {
	payload, err := json.Marshal(claims{
		UserID:    userID,
		ExpiresAt: a.now().Add(a.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	tok, err := fernet.EncryptAndSign(payload, a.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign mini app token: %w", err)
	}
	return string(tok), nil
}

// Verify returns the user a token was issued to.
// Returns apperrors.ErrInvalidToken for forged, malformed or expired tokens.
func (a *Auth) Verify(token string) (int64, error) {
	if token == "" {
		return 0, apperrors.ErrInvalidToken
	}

	// Negative TTL: expiry is checked against the claims with the injectable clock.
	payload := fernet.VerifyAndDecrypt([]byte(token), -1, []*fernet.Key{a.key})
	if payload == nil {
		return 0, apperrors.ErrInvalidToken
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil || c.UserID == 0 {
		return 0, apperrors.ErrInvalidToken
	}
	if a.now().Unix() >= c.ExpiresAt {
		return 0, fmt.Errorf("%w: expired", apperrors.ErrInvalidToken)
	}
	return c.UserID, nil
}

// LotPickerURL returns the mini app URL that opens the lot picker of a property for userID.
func (a *Auth) LotPickerURL(propertyID string, userID int64) (string, error) {
	token, err := a.Issue(userID)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid MINIAPP_URL: %w", err)
	}
	q := u.Query()
	q.Set("property_id", propertyID)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
