package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeatureCount is the fixed arity of a symptom feature vector.
const FeatureCount = 10

// FeatureVector is the ordered list of symptom severity inputs, stored
// as a jsonb column.
type FeatureVector []float64

func (v FeatureVector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *FeatureVector) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported source type for feature vector: %T", src)
	}
	return json.Unmarshal(b, v)
}

type PredictionLabel string

const (
	PredictionLabelHigh        PredictionLabel = "high"
	PredictionLabelMedium      PredictionLabel = "medium"
	PredictionLabelLow         PredictionLabel = "low"
	PredictionLabelUnavailable PredictionLabel = "unavailable"
)

// SymptomCheck is an immutable record of a submitted feature vector.
type SymptomCheck struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	UserID    uuid.UUID     `db:"user_id" json:"user_id"`
	Features  FeatureVector `db:"features" json:"features"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// Prediction is the one-to-one result row linked to a SymptomCheck.
type Prediction struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	CheckID         uuid.UUID       `db:"check_id" json:"check_id"`
	Label           PredictionLabel `db:"label" json:"label"`
	Score           float64         `db:"score" json:"score"`
	Confidence      float64         `db:"confidence" json:"confidence"`
	Recommendations StringList      `db:"recommendations" json:"recommendations,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// CheckHistoryEntry joins a check with its prediction for history reads.
type CheckHistoryEntry struct {
	Check      SymptomCheck `json:"check"`
	Prediction *Prediction  `json:"prediction,omitempty"`
}

type SubmitCheckRequest struct {
	Features []float64 `json:"features" binding:"required,featurevector"`
}
