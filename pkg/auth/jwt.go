package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the verified contents of a bearer token.
type Claims struct {
	Subject string
	Email   string
}

// JWTService issues and validates locally signed HS256 tokens.
type JWTService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewJWTService(secret, issuer string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
	}
}

func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// GenerateToken issues an access token with the user id as subject.
func (s *JWTService) GenerateToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiry).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and issuer, and extracts claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	email, _ := claims["email"].(string)

	return &Claims{Subject: sub, Email: email}, nil
}
