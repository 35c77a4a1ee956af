package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ExternalID   *string   `db:"external_id" json:"external_id,omitempty"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// UpdateUserRequest is the admin-side mutation surface.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}
