package video

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/config"
)

// TokenProvider mints ephemeral, room-scoped video access credentials.
type TokenProvider interface {
	AccessToken(identity, room string) (string, error)
}

// TwilioProvider builds Twilio Video access tokens: an HS256 JWT signed
// with the API secret, carrying a grants claim that scopes the holder to
// one named room.
type TwilioProvider struct {
	accountSID string
	apiKey     string
	apiSecret  []byte
	ttl        time.Duration
}

func NewTwilioProvider(cfg config.VideoConfig) *TwilioProvider {
	return &TwilioProvider{
		accountSID: cfg.AccountSID,
		apiKey:     cfg.APIKey,
		apiSecret:  []byte(cfg.APISecret),
		ttl:        cfg.TokenTTL(),
	}
}

func (p *TwilioProvider) AccessToken(identity, room string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": fmt.Sprintf("%s-%s", p.apiKey, uuid.New()),
		"iss": p.apiKey,
		"sub": p.accountSID,
		"iat": now.Unix(),
		"exp": now.Add(p.ttl).Unix(),
		"grants": map[string]interface{}{
			"identity": identity,
			"video": map[string]interface{}{
				"room": room,
			},
		},
	})
	token.Header["cty"] = "twilio-fpa;v=1"

	signed, err := token.SignedString(p.apiSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign video token: %w", err)
	}
	return signed, nil
}
