package video

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/telemed-api/internal/config"
)

func testProvider() *TwilioProvider {
	return NewTwilioProvider(config.VideoConfig{
		AccountSID:  "ACxxxx",
		APIKey:      "SKxxxx",
		APISecret:   "top-secret",
		TokenTTLMin: 15,
	})
}

func TestAccessToken_ClaimsAndHeader(t *testing.T) {
	p := testProvider()

	signed, err := p.AccessToken("user-1", "consultation-abc")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("top-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "twilio-fpa;v=1", token.Header["cty"])

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "SKxxxx", claims["iss"])
	assert.Equal(t, "ACxxxx", claims["sub"])
	assert.Contains(t, claims["jti"], "SKxxxx-")

	grants, ok := claims["grants"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-1", grants["identity"])

	video, ok := grants["video"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "consultation-abc", video["room"])
}

func TestAccessToken_UniquePerIssue(t *testing.T) {
	p := testProvider()

	a, err := p.AccessToken("user-1", "room")
	require.NoError(t, err)
	b, err := p.AccessToken("user-1", "room")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestAccessToken_WrongSecretRejected(t *testing.T) {
	p := testProvider()

	signed, err := p.AccessToken("user-1", "room")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
