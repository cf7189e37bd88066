// Package mlmodel serves the pre-trained regression artifacts the
// training pipeline exports. An artifact carries its own feature schema;
// serving code never guesses which features a model wants.
package mlmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrFeatureSchema marks a mismatch between a model's declared feature
// schema and the feature vector it was given. Never padded over.
var ErrFeatureSchema = errors.New("feature schema mismatch")

// FeatureVector holds named feature values. The deriver always produces
// the full superset; each artifact selects the subset it declares.
type FeatureVector map[string]float64

const (
	KindLoyalty = "loyalty"
	KindChurn   = "churn"
)

// Artifact is a fitted regression model distilled to linear form by the
// training pipeline, together with the exact feature schema it was
// trained on. Immutable for the process lifetime.
type Artifact struct {
	Name      string             `json:"name"`
	Version   string             `json:"version"`
	Kind      string             `json:"kind"`
	Features  []string           `json:"features"`
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

// LoadArtifact reads and validates a model artifact from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if a.Name == "" || a.Version == "" {
		return fmt.Errorf("%w: artifact missing name or version", ErrFeatureSchema)
	}
	if a.Kind != KindLoyalty && a.Kind != KindChurn {
		return fmt.Errorf("%w: unknown artifact kind %q", ErrFeatureSchema, a.Kind)
	}
	if len(a.Features) == 0 {
		return fmt.Errorf("%w: artifact declares no features", ErrFeatureSchema)
	}
	seen := make(map[string]bool, len(a.Features))
	for _, f := range a.Features {
		if seen[f] {
			return fmt.Errorf("%w: duplicate feature %q", ErrFeatureSchema, f)
		}
		seen[f] = true
		if _, ok := a.Weights[f]; !ok {
			return fmt.Errorf("%w: no weight for feature %q", ErrFeatureSchema, f)
		}
	}
	for f := range a.Weights {
		if !seen[f] {
			return fmt.Errorf("%w: weight for undeclared feature %q", ErrFeatureSchema, f)
		}
	}
	return nil
}

// Predict evaluates the regression over the artifact's declared features,
// in declaration order. A feature absent from the vector is a schema
// error, not a zero.
func (a *Artifact) Predict(v FeatureVector) (float64, error) {
	score := a.Intercept
	for _, f := range a.Features {
		x, ok := v[f]
		if !ok {
			return 0, fmt.Errorf("%w: model %s v%s expects feature %q", ErrFeatureSchema, a.Name, a.Version, f)
		}
		score += a.Weights[f] * x
	}
	return score, nil
}
