package model

import "github.com/google/uuid"

type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user,omitempty"`
}
