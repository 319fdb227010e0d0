package config

import (
	"math"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// Validate checks the structural invariants of the configuration.
//
// Rules:
//   - At least one layer; layer names unique and well-formed
//   - Each layer has at least one value, and values/weights/filename lists have equal length
//   - Weights are finite, non-negative and sum to a positive number
//   - Asset filenames are plain basenames
//   - Every incompatibility rule references an existing layer and one of its values
//   - A rule default, when present, is a non-empty value
//
// Weight problems are reported as INVALID_WEIGHTS, everything else as INVALID_CONFIG
// (or INVALID_PATH for filenames).
func (c *Config) Validate() error {
	if len(c.Layers) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "configuration has no layers")
	}

	seen := make(map[string]bool, len(c.Layers))
	for i := range c.Layers {
		l := &c.Layers[i]
		if err := errors.ValidateName("layer name", l.Name); err != nil {
			return err
		}
		if seen[l.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate layer name %q", l.Name)
		}
		seen[l.Name] = true

		if err := l.validate(); err != nil {
			return err
		}
	}

	for i, r := range c.Incompatibilities {
		if err := c.validateRule(i, r); err != nil {
			return err
		}
	}
	return nil
}

func (l *Layer) validate() error {
	if len(l.Values) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layer %q has no values", l.Name)
	}
	if len(l.Weights) != len(l.Values) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"layer %q: %d values but %d weights", l.Name, len(l.Values), len(l.Weights))
	}
	if len(l.Filenames) != len(l.Values) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"layer %q: %d values but %d filenames", l.Name, len(l.Values), len(l.Filenames))
	}
	if err := errors.ValidatePath(l.TraitPath); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %q trait_path", l.Name)
	}
	for _, v := range l.Values {
		if err := errors.ValidateName("trait value", v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %q", l.Name)
		}
	}
	for _, f := range l.Filenames {
		if err := errors.ValidateAssetFilename(f); err != nil {
			return err
		}
	}
	return ValidateWeights(l.Name, l.Weights)
}

// ValidateWeights checks that weights are finite, non-negative and not all zero.
func ValidateWeights(layer string, weights []float64) error {
	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.New(errors.ErrCodeInvalidWeights, "layer %q: weight %d is not a finite number", layer, i)
		}
		if w < 0 {
			return errors.New(errors.ErrCodeInvalidWeights, "layer %q: weight %d is negative (%g)", layer, i, w)
		}
		total += w
	}
	if total <= 0 {
		return errors.New(errors.ErrCodeInvalidWeights, "layer %q: weights must sum to a positive number", layer)
	}
	return nil
}

func (c *Config) validateRule(i int, r Incompatibility) error {
	l, ok := c.Layer(r.Layer)
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig,
			"incompatibility %d references unknown layer %q", i, r.Layer)
	}
	if l.IndexOf(r.Value) < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"incompatibility %d: %q is not a value of layer %q", i, r.Value, r.Layer)
	}
	if len(r.IncompatibleWith) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"incompatibility %d (%s=%s) has an empty incompatible_with list", i, r.Layer, r.Value)
	}
	if r.Default != nil && r.Default.Value == "" {
		return errors.New(errors.ErrCodeInvalidConfig,
			"incompatibility %d (%s=%s) has an empty default value", i, r.Layer, r.Value)
	}
	return nil
}
