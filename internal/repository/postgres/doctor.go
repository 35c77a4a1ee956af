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

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, user_id, specialization, license_number,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.IsActive,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return apperrors.Conflict("doctor already registered", err)
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE user_id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET specialization = $1, license_number = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.IsActive,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context, activeOnly bool) ([]*model.Doctor, error) {
	query := `SELECT * FROM doctors`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
