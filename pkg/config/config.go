// Package config defines the collection configuration consumed by the generator.
//
// A collection is an ordered list of layers (the first layer is the bottom of the
// composite) and an ordered list of incompatibility rules. Configurations are
// loaded from JSON with [Load] and checked once with [Config.Validate]; the rest
// of traitforge treats a *Config as immutable, already-validated data.
//
// # Format
//
//	{
//	  "name": "Tower #",
//	  "description": "A generated tower",
//	  "layers": [
//	    {
//	      "name": "Background",
//	      "trait_path": "./trait-layers/backgrounds",
//	      "values": ["Red", "Blue"],
//	      "weights": [50, 50],
//	      "filename": ["red", "blue"]
//	    }
//	  ],
//	  "incompatibilities": [
//	    {
//	      "layer": "Background",
//	      "value": "Red",
//	      "incompatible_with": ["Frown"],
//	      "default": {"value": "Smile"}
//	    }
//	  ]
//	}
package config

import (
	"path/filepath"
	"slices"
)

// Config is a validated collection configuration.
type Config struct {
	// Name is the display-name prefix; the (optionally padded) token id is appended.
	Name string `json:"name"`

	// Description is copied verbatim into every metadata record.
	Description string `json:"description"`

	// Layers in stacking order, first = bottom.
	Layers []Layer `json:"layers"`

	// Incompatibilities are applied in order during constraint resolution.
	Incompatibilities []Incompatibility `json:"incompatibilities"`
}

// Layer is one visual attribute dimension with weighted candidate values.
// Values, Weights and Filenames are parallel lists.
type Layer struct {
	Name      string    `json:"name"`
	TraitPath string    `json:"trait_path"`
	Values    []string  `json:"values"`
	Weights   []float64 `json:"weights"`
	Filenames []string  `json:"filename"`
}

// Incompatibility forbids Layer=Value from co-occurring with any of IncompatibleWith
// in other layers. With a Default the offending value is substituted instead of
// forcing the whole token to be re-drawn.
type Incompatibility struct {
	Layer            string   `json:"layer"`
	Value            string   `json:"value"`
	IncompatibleWith []string `json:"incompatible_with"`
	Default          *Default `json:"default,omitempty"`
}

// Default is the substitution value of an incompatibility rule.
type Default struct {
	Value string `json:"value"`
}

// HasDefault reports whether the rule resolves conflicts by substitution.
func (r Incompatibility) HasDefault() bool {
	return r.Default != nil
}

// Forbids reports whether value is in the rule's incompatible set.
func (r Incompatibility) Forbids(value string) bool {
	return slices.Contains(r.IncompatibleWith, value)
}

// LayerNames returns the layer names in stacking order.
func (c *Config) LayerNames() []string {
	names := make([]string, len(c.Layers))
	for i, l := range c.Layers {
		names[i] = l.Name
	}
	return names
}

// Layer returns the layer with the given name.
func (c *Config) Layer(name string) (*Layer, bool) {
	for i := range c.Layers {
		if c.Layers[i].Name == name {
			return &c.Layers[i], true
		}
	}
	return nil, false
}

// IndexOf returns the index of value in the layer's values, or -1.
func (l *Layer) IndexOf(value string) int {
	return slices.Index(l.Values, value)
}

// AssetPath returns the PNG path backing value, or false if value is not a
// candidate of this layer.
func (l *Layer) AssetPath(value string) (string, bool) {
	i := l.IndexOf(value)
	if i < 0 || i >= len(l.Filenames) {
		return "", false
	}
	return filepath.Join(l.TraitPath, l.Filenames[i]+".png"), true
}

// Selectable returns the number of distinct values that can actually be drawn,
// i.e. values with at least one positive weight.
func (l *Layer) Selectable() int {
	seen := make(map[string]struct{}, len(l.Values))
	for i, v := range l.Values {
		if i < len(l.Weights) && l.Weights[i] > 0 {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
