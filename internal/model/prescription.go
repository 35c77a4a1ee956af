package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration,omitempty"`
}

// MedicationList is stored as a jsonb column.
type MedicationList []Medication

func (l MedicationList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *MedicationList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported source type for medication list: %T", src)
	}
	return json.Unmarshal(b, l)
}

type Prescription struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	ConsultationID uuid.UUID      `db:"consultation_id" json:"consultation_id"`
	Diagnosis      string         `db:"diagnosis" json:"diagnosis"`
	Medications    MedicationList `db:"medications" json:"medications"`
	Notes          string         `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

type CreatePrescriptionRequest struct {
	ConsultationID uuid.UUID      `json:"consultation_id" binding:"required"`
	Diagnosis      string         `json:"diagnosis" binding:"required,max=2000"`
	Medications    MedicationList `json:"medications" binding:"required,min=1"`
	Notes          string         `json:"notes" binding:"max=2000"`
}

type UpdatePrescriptionRequest struct {
	Diagnosis   *string        `json:"diagnosis" binding:"omitempty,max=2000"`
	Medications MedicationList `json:"medications" binding:"omitempty,min=1"`
	Notes       *string        `json:"notes" binding:"omitempty,max=2000"`
}
