package genome

import (
	"math"

	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
)

// Candidate is one weighted value of a layer.
type Candidate struct {
	Value  string
	Weight float64
}

// Candidates returns the weighted values of a layer in configured order.
func Candidates(l *config.Layer) []Candidate {
	out := make([]Candidate, len(l.Values))
	for i, v := range l.Values {
		out[i] = Candidate{Value: v}
		if i < len(l.Weights) {
			out[i].Weight = l.Weights[i]
		}
	}
	return out
}

// Select makes one deterministic weighted draw.
//
// Identical (candidates, seed, nonce) always yield the same value. Callers must
// use a fresh nonce per draw within a run; reusing a nonce repeats the draw.
//
// It fails with INVALID_WEIGHTS when there are no candidates, a weight is
// negative or not finite, or all weights are zero.
func Select(candidates []Candidate, seed Seed, nonce uint64) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New(errors.ErrCodeInvalidWeights, "no candidates to select from")
	}
	total := 0.0
	for _, c := range candidates {
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight < 0 {
			return "", errors.New(errors.ErrCodeInvalidWeights, "invalid weight %g for %q", c.Weight, c.Value)
		}
		total += c.Weight
	}
	if total <= 0 {
		return "", errors.New(errors.ErrCodeInvalidWeights, "all weights are zero")
	}

	r := seed.stream(nonce).Float64() * total
	last := ""
	cum := 0.0
	for _, c := range candidates {
		if c.Weight == 0 {
			continue
		}
		cum += c.Weight
		last = c.Value
		if r < cum {
			return c.Value, nil
		}
	}
	// r can only reach cum through float rounding; the last positive candidate owns it.
	return last, nil
}
