package predictor

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/medassist/telemed-api/internal/model"
)

const hiddenUnits = 16

// PlaceholderScorer is a fixed-weight single-hidden-layer network with a
// sigmoid output. It carries no training signal; it stands in for a real
// model until one is substituted through the Scorer interface. Weights are
// drawn once from a seeded source so output is stable across restarts.
type PlaceholderScorer struct {
	hidden [hiddenUnits][model.FeatureCount]float64
	bias   [hiddenUnits]float64
	output [hiddenUnits]float64
	outB   float64
}

func NewPlaceholderScorer(seed int64) *PlaceholderScorer {
	rng := rand.New(rand.NewSource(seed))
	s := &PlaceholderScorer{}
	for i := 0; i < hiddenUnits; i++ {
		for j := 0; j < model.FeatureCount; j++ {
			s.hidden[i][j] = rng.NormFloat64() * 0.3
		}
		s.bias[i] = rng.NormFloat64() * 0.1
		s.output[i] = rng.NormFloat64() * 0.3
	}
	s.outB = rng.NormFloat64() * 0.1
	return s
}

func (s *PlaceholderScorer) Score(features []float64) (float64, error) {
	if len(features) != model.FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", model.FeatureCount, len(features))
	}

	var sum float64
	for i := 0; i < hiddenUnits; i++ {
		var h float64
		for j, f := range features {
			h += s.hidden[i][j] * f
		}
		h += s.bias[i]
		if h > 0 { // relu
			sum += s.output[i] * h
		}
	}
	sum += s.outB

	return 1 / (1 + math.Exp(-sum)), nil
}
