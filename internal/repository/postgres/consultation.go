package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

type consultationRepository struct {
	BaseRepository
}

func NewConsultationRepository(base BaseRepository) repository.ConsultationRepository {
	return &consultationRepository{base}
}

func (r *consultationRepository) Create(ctx context.Context, consultation *model.Consultation) error {
	query := `
		INSERT INTO consultations (
			id, patient_id, doctor_id, scheduled_at, status,
			room_name, room_token, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	consultation.ID = uuid.New()
	consultation.CreatedAt = time.Now()
	consultation.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		consultation.ID,
		consultation.PatientID,
		consultation.DoctorID,
		consultation.ScheduledAt,
		consultation.Status,
		consultation.RoomName,
		consultation.RoomToken,
		consultation.Notes,
		consultation.CreatedAt,
		consultation.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return apperrors.Conflict("room already booked", err)
		}
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *consultationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	query := `SELECT * FROM consultations WHERE id = $1`

	var consultation model.Consultation
	if err := r.db.GetContext(ctx, &consultation, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("consultation", err)
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

func (r *consultationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ConsultationStatus) error {
	query := `
		UPDATE consultations
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update consultation status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("consultation", nil)
	}
	return nil
}

func (r *consultationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Consultation, error) {
	query := `
		SELECT * FROM consultations
		WHERE patient_id = $1
		ORDER BY scheduled_at DESC
	`
	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (r *consultationRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Consultation, error) {
	query := `
		SELECT * FROM consultations
		WHERE doctor_id = $1
		ORDER BY scheduled_at DESC
	`
	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}
