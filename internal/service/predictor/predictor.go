package predictor

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medassist/telemed-api/internal/model"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
	"github.com/medassist/telemed-api/pkg/metrics"
)

// Label thresholds are policy constants, not model-derived.
const (
	highThreshold   = 0.7
	mediumThreshold = 0.4

	neutralScore = 0.5
)

// Scorer is the model extension point: given a feature vector it returns a
// score in [0,1]. Substituting a real model means substituting this.
type Scorer interface {
	Score(features []float64) (float64, error)
}

// Result is the outcome of one prediction.
type Result struct {
	Score           float64               `json:"score"`
	Confidence      float64               `json:"confidence"`
	Label           model.PredictionLabel `json:"label"`
	Recommendations []string              `json:"recommendations,omitempty"`
	Degraded        bool                  `json:"degraded,omitempty"`
}

type Service struct {
	scorer  Scorer
	metrics *metrics.Metrics
}

// NewService builds a predictor around the given scorer. metrics may be nil.
func NewService(scorer Scorer, m *metrics.Metrics) *Service {
	return &Service{scorer: scorer, metrics: m}
}

// Predict validates the feature vector, scores it, and derives the
// qualitative label. A scorer failure never propagates: the result
// degrades to the neutral default and is marked as such.
func (s *Service) Predict(features []float64) (*Result, error) {
	if len(features) != model.FeatureCount {
		return nil, apperrors.BadRequest("features must contain exactly 10 values", nil)
	}

	start := time.Now()
	score, err := s.scorer.Score(features)
	if s.metrics != nil {
		s.metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		log.Error().Err(err).Msg("model scoring failed, returning degraded result")
		if s.metrics != nil {
			s.metrics.PredictionsDegraded.Inc()
		}
		return &Result{
			Score:      neutralScore,
			Confidence: 0,
			Label:      model.PredictionLabelUnavailable,
			Degraded:   true,
		}, nil
	}

	label := labelFor(score)
	result := &Result{
		Score:           score,
		Confidence:      confidenceFor(score),
		Label:           label,
		Recommendations: recommendationsFor(label),
	}
	if s.metrics != nil {
		s.metrics.PredictionsTotal.WithLabelValues(string(label)).Inc()
	}
	return result, nil
}

func labelFor(score float64) model.PredictionLabel {
	switch {
	case score > highThreshold:
		return model.PredictionLabelHigh
	case score > mediumThreshold:
		return model.PredictionLabelMedium
	default:
		return model.PredictionLabelLow
	}
}

// confidenceFor scales distance from the decision midpoint into [0,1].
func confidenceFor(score float64) float64 {
	c := (score - neutralScore) * 2
	if c < 0 {
		c = -c
	}
	return c
}

func recommendationsFor(label model.PredictionLabel) []string {
	switch label {
	case model.PredictionLabelHigh:
		return []string{
			"Seek medical attention promptly.",
			"Book a consultation with one of our doctors.",
		}
	case model.PredictionLabelMedium:
		return []string{
			"Schedule a follow-up with a healthcare provider.",
			"Monitor your symptoms and seek attention if they worsen.",
		}
	case model.PredictionLabelLow:
		return []string{
			"Monitor your symptoms and seek medical attention if they worsen.",
			"Get adequate rest and stay hydrated.",
		}
	default:
		return nil
	}
}
