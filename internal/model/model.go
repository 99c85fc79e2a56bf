// Package model loads the trained fraud scorer and its companion metadata.
//
// The artifact is the fixed contract between the (external) training pipeline
// and this service: a serialized scorer producing risk scores in [0,1], plus
// a metadata document holding the feature name ordering, the global feature
// importance weights, and training provenance. Both are loaded once at
// process start and never mutated afterwards, so every request can read them
// concurrently without locking.
package model

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for scoring failures.
var (
	// ErrMalformedVector signals a feature vector whose shape or contents
	// the scorer cannot evaluate (wrong length, NaN, Inf).
	ErrMalformedVector = errors.New("malformed feature vector")
)

// Scorer is an opaque, pre-trained prediction function. Implementations must
// be pure: the same vector yields the same score on every call, with no side
// effects.
type Scorer interface {
	// Predict returns P(fraudulent return) in [0,1] for one feature vector.
	Predict(features []float64) (float64, error)
	// NumFeatures is the vector length the scorer was trained on.
	NumFeatures() int
	// Type identifies the model family for provenance reporting.
	Type() string
}

// Metadata mirrors the companion document written by the training pipeline.
// FeatureNames defines the authoritative vector layout; FeatureImportance is
// a parallel sequence of non-negative global weights, one per name.
type Metadata struct {
	ModelType         string    `json:"model_type"`
	Version           string    `json:"version"`
	TrainingDate      string    `json:"training_date"`
	RandomSeed        int64     `json:"random_seed"`
	FeatureNames      []string  `json:"feature_names"`
	FeatureImportance []float64 `json:"feature_importance"`
}

// Validate checks the internal consistency of the metadata document.
// A mismatch here is a startup-time configuration fault, never a
// per-request error.
func (m *Metadata) Validate() error {
	if len(m.FeatureNames) == 0 {
		return fmt.Errorf("metadata: feature_names must not be empty")
	}
	if len(m.FeatureImportance) != len(m.FeatureNames) {
		return fmt.Errorf("metadata: feature_importance length %d does not match feature_names length %d",
			len(m.FeatureImportance), len(m.FeatureNames))
	}
	for i, w := range m.FeatureImportance {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("metadata: feature_importance[%d] (%s) must be a non-negative finite number, got %g",
				i, m.FeatureNames[i], w)
		}
	}
	return nil
}

// Artifact is the immutable process-lifetime handle to the loaded model.
// Either part may be absent (degraded boot); accessors report what loaded.
type Artifact struct {
	scorer Scorer
	meta   *Metadata
}

// NewArtifact builds an artifact handle. Used directly by tests to inject
// stub scorers; production code goes through Load.
func NewArtifact(scorer Scorer, meta *Metadata) *Artifact {
	return &Artifact{scorer: scorer, meta: meta}
}

// Scorer returns the loaded scorer, or nil when the model file was absent.
func (a *Artifact) Scorer() Scorer {
	if a == nil {
		return nil
	}
	return a.scorer
}

// Metadata returns the loaded metadata, or nil when absent.
func (a *Artifact) Metadata() *Metadata {
	if a == nil {
		return nil
	}
	return a.meta
}

// ModelLoaded reports whether the serialized scorer loaded successfully.
func (a *Artifact) ModelLoaded() bool {
	return a != nil && a.scorer != nil
}

// MetadataLoaded reports whether the companion metadata loaded successfully.
func (a *Artifact) MetadataLoaded() bool {
	return a != nil && a.meta != nil
}

// Version reports the model version string used in scoring responses.
// The training pipeline stamps the training date as the version; "unknown"
// when metadata is unavailable.
func (a *Artifact) Version() string {
	if a == nil || a.meta == nil || a.meta.TrainingDate == "" {
		return "unknown"
	}
	return a.meta.TrainingDate
}
