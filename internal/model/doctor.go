package model

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Specialization string    `db:"specialization" json:"specialization"`
	LicenseNumber  string    `db:"license_number" json:"license_number"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreateDoctorRequest struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	Specialization string    `json:"specialization" binding:"required,max=255"`
	LicenseNumber  string    `json:"license_number" binding:"required,max=64"`
}

type UpdateDoctorRequest struct {
	Specialization *string `json:"specialization" binding:"omitempty,max=255"`
	LicenseNumber  *string `json:"license_number" binding:"omitempty,max=64"`
	IsActive       *bool   `json:"is_active"`
}
