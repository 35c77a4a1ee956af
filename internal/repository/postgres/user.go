package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, external_id, email, password_hash, name,
			is_active, is_admin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.ExternalID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.IsActive,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return apperrors.Conflict("email already registered", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetOrCreateByExternalID resolves a provider subject to a local user,
// provisioning the row on first sight via upsert.
func (r *userRepository) GetOrCreateByExternalID(ctx context.Context, externalID, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE external_id = $1`, externalID)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up external user: %w", err)
	}

	query := `
		INSERT INTO users (id, external_id, email, password_hash, name, is_active, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, '', '', TRUE, FALSE, $4, $4)
		ON CONFLICT (external_id) DO UPDATE SET updated_at = users.updated_at
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &user, query, uuid.New(), externalID, email, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3,
			is_active = $4, is_admin = $5, updated_at = $6
		WHERE id = $7
	`
	user.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			user.Email,
			user.PasswordHash,
			user.Name,
			user.IsActive,
			user.IsAdmin,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return apperrors.Conflict("email already registered", err)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("user", nil)
		}
		return nil
	})
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT * FROM users ORDER BY created_at DESC`

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
