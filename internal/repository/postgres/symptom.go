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

type symptomRepository struct {
	BaseRepository
}

func NewSymptomRepository(base BaseRepository) repository.SymptomRepository {
	return &symptomRepository{base}
}

// CreateWithPrediction writes the check row and its prediction row in one
// transaction.
func (r *symptomRepository) CreateWithPrediction(ctx context.Context, check *model.SymptomCheck, prediction *model.Prediction) error {
	check.ID = uuid.New()
	check.CreatedAt = time.Now()

	prediction.ID = uuid.New()
	prediction.CheckID = check.ID
	prediction.CreatedAt = check.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO symptom_checks (id, user_id, features, created_at)
			VALUES ($1, $2, $3, $4)
		`, check.ID, check.UserID, check.Features, check.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create symptom check: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO predictions (id, check_id, label, score, confidence, recommendations, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, prediction.ID, prediction.CheckID, prediction.Label, prediction.Score,
			prediction.Confidence, prediction.Recommendations, prediction.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create prediction: %w", err)
		}
		return nil
	})
}

func (r *symptomRepository) GetCheck(ctx context.Context, id uuid.UUID) (*model.SymptomCheck, error) {
	query := `SELECT * FROM symptom_checks WHERE id = $1`

	var check model.SymptomCheck
	if err := r.db.GetContext(ctx, &check, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("symptom check", err)
		}
		return nil, fmt.Errorf("failed to get symptom check: %w", err)
	}
	return &check, nil
}

func (r *symptomRepository) GetPredictionForCheck(ctx context.Context, checkID uuid.UUID) (*model.Prediction, error) {
	query := `SELECT * FROM predictions WHERE check_id = $1`

	var prediction model.Prediction
	if err := r.db.GetContext(ctx, &prediction, query, checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("prediction", err)
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &prediction, nil
}

func (r *symptomRepository) History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.CheckHistoryEntry, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM symptom_checks WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	type historyRow struct {
		model.SymptomCheck
		PredID          *uuid.UUID             `db:"pred_id"`
		Label           *model.PredictionLabel `db:"label"`
		Score           *float64               `db:"score"`
		Confidence      *float64               `db:"confidence"`
		Recommendations model.StringList       `db:"recommendations"`
		PredCreatedAt   *time.Time             `db:"pred_created_at"`
	}

	query := `
		SELECT c.id, c.user_id, c.features, c.created_at,
			   p.id AS pred_id, p.label, p.score, p.confidence,
			   p.recommendations, p.created_at AS pred_created_at
		FROM symptom_checks c
		LEFT JOIN predictions p ON p.check_id = c.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
		OFFSET $2 LIMIT $3
	`
	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*model.CheckHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := &model.CheckHistoryEntry{Check: row.SymptomCheck}
		if row.PredID != nil {
			entry.Prediction = &model.Prediction{
				ID:              *row.PredID,
				CheckID:         row.SymptomCheck.ID,
				Label:           *row.Label,
				Score:           *row.Score,
				Confidence:      *row.Confidence,
				Recommendations: row.Recommendations,
				CreatedAt:       *row.PredCreatedAt,
			}
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}
