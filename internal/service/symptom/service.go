package symptom

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
	"github.com/medassist/telemed-api/internal/service/predictor"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
	"github.com/medassist/telemed-api/pkg/metrics"
)

const (
	historyCacheTTL = 30 * time.Second

	DefaultPerPage = 10
	MaxPerPage     = 100
)

// SubmitResult is the combined view returned by a submission: the
// persisted records for authenticated callers, or an ephemeral echo for
// anonymous ones.
type SubmitResult struct {
	Input      *model.SymptomCheck `json:"input,omitempty"`
	Prediction *model.Prediction   `json:"prediction,omitempty"`
	Result     *predictor.Result   `json:"result"`
	Ephemeral  bool                `json:"ephemeral"`
}

type HistoryPage struct {
	Entries []*model.CheckHistoryEntry `json:"entries"`
	Total   int                        `json:"total"`
	Page    int                        `json:"page"`
	PerPage int                        `json:"per_page"`
}

type Service struct {
	repo      repository.SymptomRepository
	predictor *predictor.Service
	cache     *redis.Client // optional; nil degrades to DB reads
	metrics   *metrics.Metrics
}

// NewService builds the symptom flow. cache and m may be nil.
func NewService(repo repository.SymptomRepository, pred *predictor.Service, cache *redis.Client, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		predictor: pred,
		cache:     cache,
		metrics:   m,
	}
}

// Submit runs the full symptom-check flow. Anonymous callers (nil userID)
// get a prediction with nothing persisted; authenticated callers get the
// input and prediction persisted together.
func (s *Service) Submit(ctx context.Context, userID *uuid.UUID, features []float64) (*SubmitResult, error) {
	// Arity is checked before any side effect.
	if len(features) != model.FeatureCount {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("features must contain exactly %d values", model.FeatureCount), nil)
	}

	result, err := s.predictor.Predict(features)
	if err != nil {
		return nil, err
	}

	if userID == nil {
		return &SubmitResult{Result: result, Ephemeral: true}, nil
	}

	check := &model.SymptomCheck{
		UserID:   *userID,
		Features: model.FeatureVector(features),
	}
	prediction := &model.Prediction{
		Label:           result.Label,
		Score:           result.Score,
		Confidence:      result.Confidence,
		Recommendations: model.StringList(result.Recommendations),
	}
	if err := s.repo.CreateWithPrediction(ctx, check, prediction); err != nil {
		return nil, err
	}

	s.invalidateHistory(ctx, *userID)

	return &SubmitResult{
		Input:      check,
		Prediction: prediction,
		Result:     result,
	}, nil
}

// GetCheck returns one check with its prediction; only the owner may read it.
func (s *Service) GetCheck(ctx context.Context, callerID, checkID uuid.UUID) (*model.CheckHistoryEntry, error) {
	check, err := s.repo.GetCheck(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check.UserID != callerID {
		return nil, apperrors.Forbidden("not your symptom check")
	}

	entry := &model.CheckHistoryEntry{Check: *check}
	prediction, err := s.repo.GetPredictionForCheck(ctx, checkID)
	if err == nil {
		entry.Prediction = prediction
	} else if _, ok := apperrors.AsAppError(err); !ok {
		return nil, err
	}
	return entry, nil
}

// History returns the caller's submissions, newest first. Pages are served
// from redis when available.
func (s *Service) History(ctx context.Context, userID uuid.UUID, page, perPage int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	if cached := s.cachedHistory(ctx, userID, page, perPage); cached != nil {
		return cached, nil
	}

	entries, total, err := s.repo.History(ctx, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}

	result := &HistoryPage{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	s.storeHistory(ctx, userID, page, perPage, result)
	return result, nil
}

func historyKey(userID uuid.UUID, page, perPage int) string {
	return fmt.Sprintf("history:%s:%d:%d", userID, page, perPage)
}

func (s *Service) cachedHistory(ctx context.Context, userID uuid.UUID, page, perPage int) *HistoryPage {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, historyKey(userID, page, perPage)).Bytes()
	if err != nil {
		s.cacheMiss()
		return nil
	}
	var cached HistoryPage
	if err := json.Unmarshal(data, &cached); err != nil {
		s.cacheMiss()
		return nil
	}
	if s.metrics != nil {
		s.metrics.CacheHits.WithLabelValues("history").Inc()
	}
	return &cached
}

func (s *Service) cacheMiss() {
	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues("history").Inc()
	}
}

func (s *Service) storeHistory(ctx context.Context, userID uuid.UUID, page, perPage int, result *HistoryPage) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, historyKey(userID, page, perPage), data, historyCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache history page")
	}
}

func (s *Service) invalidateHistory(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, fmt.Sprintf("history:%s:*", userID), 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate history cache")
		}
	}
}
