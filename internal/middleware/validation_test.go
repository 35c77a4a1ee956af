package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/telemed-api/internal/model"
)

func bindCheckRequest(t *testing.T, features []float64) error {
	t.Helper()

	body, err := json.Marshal(gin.H{"features": features})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var parsed model.SubmitCheckRequest
	return c.ShouldBindJSON(&parsed)
}

func TestFeatureVectorValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidations()

	valid := make([]float64, model.FeatureCount)
	assert.NoError(t, bindCheckRequest(t, valid))

	assert.Error(t, bindCheckRequest(t, make([]float64, 3)), "too few values")
	assert.Error(t, bindCheckRequest(t, make([]float64, model.FeatureCount+1)), "too many values")

	outOfRange := make([]float64, model.FeatureCount)
	outOfRange[4] = 11
	assert.Error(t, bindCheckRequest(t, outOfRange), "severity above bound")

	negative := make([]float64, model.FeatureCount)
	negative[0] = -0.5
	assert.Error(t, bindCheckRequest(t, negative), "negative severity")
}
