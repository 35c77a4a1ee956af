package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("secret", "telemed-test", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "pat@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "pat@example.com", claims.Email)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "telemed-test", time.Hour)
	verifier := NewJWTService("secret-b", "telemed-test", time.Hour)

	token, err := issuer.GenerateToken(uuid.New(), "pat@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issuer := NewJWTService("secret", "other-service", time.Hour)
	verifier := NewJWTService("secret", "telemed-test", time.Hour)

	token, err := issuer.GenerateToken(uuid.New(), "pat@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("secret", "telemed-test", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "pat@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("secret", "telemed-test", time.Hour)

	_, err := svc.ValidateToken("definitely not a jwt")
	assert.Error(t, err)
}
