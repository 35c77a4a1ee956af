package model

import (
	"time"

	"github.com/google/uuid"
)

type ConsultationStatus string

const (
	ConsultationStatusScheduled ConsultationStatus = "scheduled"
	ConsultationStatusCompleted ConsultationStatus = "completed"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
)

type Consultation struct {
	ID          uuid.UUID          `db:"id" json:"id"`
	PatientID   uuid.UUID          `db:"patient_id" json:"patient_id"`
	DoctorID    uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	ScheduledAt time.Time          `db:"scheduled_at" json:"scheduled_at"`
	Status      ConsultationStatus `db:"status" json:"status"`
	RoomName    string             `db:"room_name" json:"room_name"`
	RoomToken   string             `db:"room_token" json:"room_token,omitempty"`
	Notes       string             `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

type BookConsultationRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

// JoinResponse carries a freshly minted room credential.
type JoinResponse struct {
	RoomName string `json:"room_name"`
	Token    string `json:"token"`
}
