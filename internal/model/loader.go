package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads the serialized scorer and its companion metadata from disk.
//
// Absence is tolerated: a missing model file yields a degraded artifact
// (health reports model_loaded=false, scoring fails with an unavailable
// error), and a missing metadata file yields an artifact without feature
// names or importances. Corrupt files and internally inconsistent metadata
// are configuration faults and fail the load outright.
func Load(modelPath, metadataPath string) (*Artifact, error) {
	scorer, err := loadScorer(modelPath)
	if err != nil {
		return nil, err
	}
	if scorer == nil {
		// No model on disk: boot degraded, metadata is irrelevant.
		return &Artifact{}, nil
	}

	meta, err := loadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	if meta != nil && scorer.NumFeatures() != len(meta.FeatureNames) {
		return nil, fmt.Errorf("model expects %d features but metadata declares %d feature names",
			scorer.NumFeatures(), len(meta.FeatureNames))
	}

	return &Artifact{scorer: scorer, meta: meta}, nil
}

func loadScorer(path string) (Scorer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var file linearModelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}

	switch file.ModelType {
	case "logistic_regression", "":
		return NewLogisticScorer(file.Intercept, file.Coefficients)
	default:
		return nil, fmt.Errorf("unsupported model_type %q in %s", file.ModelType, path)
	}
}

func loadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata file: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata file %s: %w", path, err)
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}

	return &meta, nil
}
