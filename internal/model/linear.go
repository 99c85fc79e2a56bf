package model

import (
	"fmt"
	"math"
)

// linearModelFile is the on-disk representation of a logistic scorer.
type linearModelFile struct {
	ModelType    string    `json:"model_type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// LogisticScorer is a serialized logistic-regression scorer. The training
// pipeline exports intercept and per-feature coefficients in the same order
// as the metadata's feature_names.
type LogisticScorer struct {
	intercept    float64
	coefficients []float64
}

// NewLogisticScorer creates a scorer from raw weights.
func NewLogisticScorer(intercept float64, coefficients []float64) (*LogisticScorer, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("logistic scorer: coefficients must not be empty")
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("logistic scorer: coefficient %d is not finite", i)
		}
	}
	coefs := make([]float64, len(coefficients))
	copy(coefs, coefficients)
	return &LogisticScorer{intercept: intercept, coefficients: coefs}, nil
}

// Predict computes sigmoid(intercept + w·x). The sigmoid keeps the score
// strictly inside [0,1] for any finite input.
func (s *LogisticScorer) Predict(features []float64) (float64, error) {
	if len(features) != len(s.coefficients) {
		return 0, fmt.Errorf("%w: expected %d features, got %d",
			ErrMalformedVector, len(s.coefficients), len(features))
	}

	z := s.intercept
	for i, x := range features {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: feature %d is not finite", ErrMalformedVector, i)
		}
		z += s.coefficients[i] * x
	}

	return sigmoid(z), nil
}

// NumFeatures returns the expected vector length.
func (s *LogisticScorer) NumFeatures() int {
	return len(s.coefficients)
}

// Type identifies the model family.
func (s *LogisticScorer) Type() string {
	return "logistic_regression"
}

func sigmoid(z float64) float64 {
	// Guard the exp overflow edges; beyond ±500 the result saturates anyway.
	if z > 500 {
		return 1.0
	}
	if z < -500 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}
