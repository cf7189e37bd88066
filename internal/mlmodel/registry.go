package mlmodel

import (
	"fmt"
	"log"
	"path/filepath"

	"loyaltyengine/internal/platform"
)

// Registry holds the loaded models: one loyalty model per platform plus
// the shared churn model. Loaded once at startup, read-only afterwards,
// safe for concurrent use without locking.
type Registry struct {
	loyalty map[platform.Platform]*Artifact
	churn   *Artifact
}

// LoadRegistry loads every model artifact from dir. Any missing or
// malformed artifact is a startup failure.
func LoadRegistry(dir string) (*Registry, error) {
	r := &Registry{loyalty: make(map[platform.Platform]*Artifact, len(platform.All()))}

	for _, p := range platform.All() {
		a, err := LoadArtifact(filepath.Join(dir, fmt.Sprintf("%s-model.json", p)))
		if err != nil {
			return nil, err
		}
		if a.Kind != KindLoyalty {
			return nil, fmt.Errorf("%w: %s artifact has kind %q, want %q", ErrFeatureSchema, p, a.Kind, KindLoyalty)
		}
		r.loyalty[p] = a
		log.Printf("loaded %s loyalty model %s v%s (%d features)", p, a.Name, a.Version, len(a.Features))
	}

	churn, err := LoadArtifact(filepath.Join(dir, "merchant-churn-model.json"))
	if err != nil {
		return nil, err
	}
	if churn.Kind != KindChurn {
		return nil, fmt.Errorf("%w: churn artifact has kind %q, want %q", ErrFeatureSchema, churn.Kind, KindChurn)
	}
	r.churn = churn
	log.Printf("loaded churn model %s v%s (%d features)", churn.Name, churn.Version, len(churn.Features))

	return r, nil
}

// Loyalty returns the loyalty model for the platform.
func (r *Registry) Loyalty(p platform.Platform) *Artifact {
	return r.loyalty[p]
}

// Churn returns the shared churn model.
func (r *Registry) Churn() *Artifact {
	return r.churn
}
