package genome

import (
	"github.com/matzehuels/traitforge/pkg/config"
)

// Resolution is the outcome of [Resolve].
type Resolution struct {
	// Genome is the corrected genome. Nil when Retry is set.
	Genome Genome

	// Retry is set when a rule without a default was violated; the whole
	// token must be re-drawn.
	Retry bool

	// Rule and Layer identify the violation that forced the retry.
	Rule  int
	Layer string

	// Substitutions counts default substitutions applied.
	Substitutions int
}

// Resolve applies incompatibility rules to a draft genome.
//
// Rules run in order in a single pass. A rule fires when the genome's value at
// the rule's layer equals the rule's value, evaluated on the genome as left by
// earlier rules. Each other layer, in configured order, holding a forbidden value
// is then either substituted with the rule's default or, without a default,
// the draft is rejected with Retry. There is no fixed-point iteration: a
// substitution is never re-checked against earlier rules.
//
// The draft is not modified.
func Resolve(draft Genome, layers []string, rules []config.Incompatibility) Resolution {
	g := draft.Clone()
	res := Resolution{}

	for i, r := range rules {
		if v, ok := g[r.Layer]; !ok || v != r.Value {
			continue
		}
		for _, name := range layers {
			if name == r.Layer || !r.Forbids(g[name]) {
				continue
			}
			if !r.HasDefault() {
				return Resolution{Retry: true, Rule: i, Layer: name, Substitutions: res.Substitutions}
			}
			g[name] = r.Default.Value
			res.Substitutions++
		}
	}

	res.Genome = g
	return res
}
