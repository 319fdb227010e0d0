package genome

import (
	"maps"
	"strings"
)

// keySep separates values in a genome key. Layer values are validated to
// contain no control characters, so the key is unambiguous.
const keySep = "\x1f"

// Genome maps layer name to the selected value.
type Genome map[string]string

// Clone returns a copy of g.
func (g Genome) Clone() Genome {
	return maps.Clone(g)
}

// Key returns the canonical identity of g: its values in layer order.
func (g Genome) Key(layers []string) string {
	parts := make([]string, len(layers))
	for i, name := range layers {
		parts[i] = g[name]
	}
	return strings.Join(parts, keySep)
}

// Attribute is one (trait_type, value) pair of a metadata record.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the record of one accepted token. It is created once and never
// mutated afterwards.
type Metadata struct {
	TokenID     int         `json:"token_id"`
	Image       string      `json:"image"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
}

// Trait returns the value recorded for traitType.
func (m Metadata) Trait(traitType string) (string, bool) {
	for _, a := range m.Attributes {
		if a.TraitType == traitType {
			return a.Value, true
		}
	}
	return "", false
}

// Genome reconstructs the genome recorded in m.
func (m Metadata) Genome() Genome {
	g := make(Genome, len(m.Attributes))
	for _, a := range m.Attributes {
		g[a.TraitType] = a.Value
	}
	return g
}
