package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validModelJSON = `{
	"model_type": "logistic_regression",
	"intercept": -1.5,
	"coefficients": [0.8, -0.3, 1.2]
}`

const validMetadataJSON = `{
	"model_type": "logistic_regression",
	"version": "1.0.0",
	"training_date": "2026-08-01T12:00:00Z",
	"random_seed": 42,
	"feature_names": ["return_rate", "user_age_days", "order_value"],
	"feature_importance": [0.5, 0.2, 0.3]
}`

func TestLoad_ModelAndMetadata(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", validModelJSON)
	metaPath := writeFile(t, dir, "metadata.json", validMetadataJSON)

	art, err := Load(modelPath, metaPath)
	require.NoError(t, err)

	assert.True(t, art.ModelLoaded())
	assert.True(t, art.MetadataLoaded())
	assert.Equal(t, 3, art.Scorer().NumFeatures())
	assert.Equal(t, "logistic_regression", art.Scorer().Type())
	assert.Equal(t, "2026-08-01T12:00:00Z", art.Version())
	assert.Equal(t, []string{"return_rate", "user_age_days", "order_value"}, art.Metadata().FeatureNames)
}

func TestLoad_ModelFileAbsent_Degraded(t *testing.T) {
	dir := t.TempDir()
	metaPath := writeFile(t, dir, "metadata.json", validMetadataJSON)

	art, err := Load(filepath.Join(dir, "missing.json"), metaPath)
	require.NoError(t, err)

	assert.False(t, art.ModelLoaded())
	assert.False(t, art.MetadataLoaded())
	assert.Nil(t, art.Scorer())
	assert.Equal(t, "unknown", art.Version())
}

func TestLoad_MetadataAbsent(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", validModelJSON)

	art, err := Load(modelPath, filepath.Join(dir, "missing.json"))
	require.NoError(t, err)

	assert.True(t, art.ModelLoaded())
	assert.False(t, art.MetadataLoaded())
	assert.Equal(t, "unknown", art.Version())
}

func TestLoad_CorruptModelFile(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", "{not json")

	_, err := Load(modelPath, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoad_ImportanceLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", validModelJSON)
	metaPath := writeFile(t, dir, "metadata.json", `{
		"feature_names": ["a", "b", "c"],
		"feature_importance": [0.5, 0.5]
	}`)

	_, err := Load(modelPath, metaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature_importance length")
}

func TestLoad_CoefficientCountMismatch(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", `{
		"model_type": "logistic_regression",
		"intercept": 0,
		"coefficients": [1.0, 2.0]
	}`)
	metaPath := writeFile(t, dir, "metadata.json", validMetadataJSON)

	_, err := Load(modelPath, metaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature names")
}

func TestLoad_NegativeImportanceRejected(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", validModelJSON)
	metaPath := writeFile(t, dir, "metadata.json", `{
		"feature_names": ["a", "b", "c"],
		"feature_importance": [0.5, -0.1, 0.6]
	}`)

	_, err := Load(modelPath, metaPath)
	assert.Error(t, err)
}

func TestLoad_UnsupportedModelType(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.json", `{
		"model_type": "gradient_boosting",
		"intercept": 0,
		"coefficients": [1.0]
	}`)

	_, err := Load(modelPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model_type")
}

func TestLogisticScorer_ScoreBounds(t *testing.T) {
	scorer, err := NewLogisticScorer(0, []float64{5.0, -5.0})
	require.NoError(t, err)

	cases := [][]float64{
		{0, 0},
		{1, 0},
		{0, 1},
		{100, -100},
		{-100, 100},
	}
	for _, features := range cases {
		score, err := scorer.Predict(features)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestLogisticScorer_Deterministic(t *testing.T) {
	scorer, err := NewLogisticScorer(-1.0, []float64{0.5, 0.25, -0.75})
	require.NoError(t, err)

	features := []float64{1.0, 2.0, 0.5}
	first, err := scorer.Predict(features)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := scorer.Predict(features)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLogisticScorer_WrongLength(t *testing.T) {
	scorer, err := NewLogisticScorer(0, []float64{1.0, 1.0})
	require.NoError(t, err)

	_, err = scorer.Predict([]float64{1.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedVector)
}

func TestLogisticScorer_NonFiniteFeature(t *testing.T) {
	scorer, err := NewLogisticScorer(0, []float64{1.0, 1.0})
	require.NoError(t, err)

	_, err = scorer.Predict([]float64{math.NaN(), 1.0})
	assert.ErrorIs(t, err, ErrMalformedVector)

	_, err = scorer.Predict([]float64{1.0, math.Inf(1)})
	assert.ErrorIs(t, err, ErrMalformedVector)
}

func TestLogisticScorer_SigmoidSaturation(t *testing.T) {
	scorer, err := NewLogisticScorer(1000, []float64{0})
	require.NoError(t, err)

	score, err := scorer.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	scorer, err = NewLogisticScorer(-1000, []float64{0})
	require.NoError(t, err)

	score, err = scorer.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestMetadata_Validate(t *testing.T) {
	meta := &Metadata{
		FeatureNames:      []string{"a", "b"},
		FeatureImportance: []float64{0.6, 0.4},
	}
	assert.NoError(t, meta.Validate())

	meta.FeatureImportance = []float64{0.6, math.NaN()}
	assert.Error(t, meta.Validate())

	meta.FeatureNames = nil
	meta.FeatureImportance = nil
	assert.Error(t, meta.Validate())
}
