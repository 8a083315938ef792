package config

import (
	"fmt"

	"github.com/quakecase/engine/internal/similarity"
)

// WeightsFile is the top-level structure of the similarity weights
// config file, hot-reloadable at runtime so operators can retune the
// scoring dimensions without a restart. Adapted from the teacher's
// integrations-file shape (schema_version + typed body).
//
// Example YAML:
//
//	schema_version: v1
//	weights:
//	  scale: 0.30
//	  spatial: 0.25
//	  human: 0.20
//	  built: 0.25
type WeightsFile struct {
	SchemaVersion string           `yaml:"schema_version"`
	Weights       similarity.Weights `yaml:"weights"`
}

// Validate checks that the WeightsFile is structurally valid. It does not
// reject a zero-sum weight set — similarity.Weights.Normalize already
// handles that by falling back to defaults.
func (f *WeightsFile) Validate() error {
	if f.SchemaVersion != "v1" {
		return NewConfigError(fmt.Sprintf("unsupported schema_version: %q (expected \"v1\")", f.SchemaVersion))
	}
	w := f.Weights
	if w.Scale < 0 || w.Spatial < 0 || w.Human < 0 || w.Built < 0 {
		return NewConfigError("weights must not be negative")
	}
	return nil
}
