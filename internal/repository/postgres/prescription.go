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

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(base BaseRepository) repository.PrescriptionRepository {
	return &prescriptionRepository{base}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			id, consultation_id, diagnosis, medications, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	prescription.ID = uuid.New()
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.ConsultationID,
		prescription.Diagnosis,
		prescription.Medications,
		prescription.Notes,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		// consultation_id is unique: one prescription per consultation.
		if IsUniqueViolation(err) {
			return apperrors.Conflict("prescription already exists for consultation", err)
		}
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `SELECT * FROM prescriptions WHERE id = $1`

	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, prescription *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET diagnosis = $1, medications = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	prescription.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		prescription.Diagnosis,
		prescription.Medications,
		prescription.Notes,
		prescription.UpdatedAt,
		prescription.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("prescription", nil)
	}
	return nil
}

func (r *prescriptionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT p.* FROM prescriptions p
		JOIN consultations c ON c.id = p.consultation_id
		WHERE c.patient_id = $1
		ORDER BY p.created_at DESC
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}
