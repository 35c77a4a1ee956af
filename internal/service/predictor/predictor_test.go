package predictor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/telemed-api/internal/model"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

type stubScorer struct {
	score float64
	err   error
}

func (s *stubScorer) Score(_ []float64) (float64, error) {
	return s.score, s.err
}

func validFeatures() []float64 {
	return make([]float64, model.FeatureCount)
}

func TestPredict_LabelThresholds(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		label model.PredictionLabel
	}{
		{"well above high", 0.95, model.PredictionLabelHigh},
		{"just above high", 0.701, model.PredictionLabelHigh},
		{"exactly high boundary", 0.7, model.PredictionLabelMedium},
		{"just above medium", 0.401, model.PredictionLabelMedium},
		{"exactly medium boundary", 0.4, model.PredictionLabelLow},
		{"well below medium", 0.1, model.PredictionLabelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubScorer{score: tt.score}, nil)

			result, err := svc.Predict(validFeatures())
			require.NoError(t, err)
			assert.Equal(t, tt.label, result.Label)
			assert.False(t, result.Degraded)
			assert.NotEmpty(t, result.Recommendations)
		})
	}
}

func TestPredict_Confidence(t *testing.T) {
	tests := []struct {
		score      float64
		confidence float64
	}{
		{0.5, 0},
		{0.75, 0.5},
		{0.25, 0.5},
		{1.0, 1.0},
		{0.0, 1.0},
	}

	for _, tt := range tests {
		svc := NewService(&stubScorer{score: tt.score}, nil)

		result, err := svc.Predict(validFeatures())
		require.NoError(t, err)
		assert.InDelta(t, tt.confidence, result.Confidence, 1e-9)
	}
}

func TestPredict_RejectsWrongArity(t *testing.T) {
	svc := NewService(&stubScorer{score: 0.5}, nil)

	for _, n := range []int{0, 9, 11} {
		_, err := svc.Predict(make([]float64, n))
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode())
	}
}

func TestPredict_ScorerFailureDegrades(t *testing.T) {
	svc := NewService(&stubScorer{err: errors.New("model unavailable")}, nil)

	result, err := svc.Predict(validFeatures())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Equal(t, model.PredictionLabelUnavailable, result.Label)
	assert.Equal(t, 0.5, result.Score)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Recommendations)
}

func TestPlaceholderScorer_Deterministic(t *testing.T) {
	features := []float64{1, 0, 1, 0, 0, 1, 0, 0, 1, 0}

	a := NewPlaceholderScorer(42)
	b := NewPlaceholderScorer(42)

	sa, err := a.Score(features)
	require.NoError(t, err)
	sb, err := b.Score(features)
	require.NoError(t, err)

	assert.Equal(t, sa, sb)
	assert.GreaterOrEqual(t, sa, 0.0)
	assert.LessOrEqual(t, sa, 1.0)
}

func TestPlaceholderScorer_WrongArity(t *testing.T) {
	s := NewPlaceholderScorer(1)

	_, err := s.Score([]float64{1, 2, 3})
	assert.Error(t, err)
}
