// Package rarity summarizes how often each trait occurs in a generated
// collection and ranks tokens by how rare their combination is.
package rarity

import (
	"sort"

	"github.com/matzehuels/traitforge/pkg/genome"
)

// Tier is a named rarity band.
type Tier string

const (
	Common    Tier = "COMMON"
	Uncommon  Tier = "UNCOMMON"
	Rare      Tier = "RARE"
	Epic      Tier = "EPIC"
	Legendary Tier = "LEGENDARY"
	Mythic    Tier = "MYTHIC"
)

// TierOf returns the band of a trait occurring in percent of all tokens.
func TierOf(percent float64) Tier {
	switch {
	case percent < 1:
		return Mythic
	case percent < 3:
		return Legendary
	case percent < 7:
		return Epic
	case percent < 15:
		return Rare
	case percent < 30:
		return Uncommon
	default:
		return Common
	}
}

// Trait is the occurrence count of one (trait type, value) pair.
type Trait struct {
	TraitType string  `json:"trait_type"`
	Value     string  `json:"value"`
	Count     int     `json:"count"`
	Percent   float64 `json:"percent"`
	Tier      Tier    `json:"tier"`
}

// Table is the trait distribution of a collection.
type Table struct {
	Total  int     `json:"total"`
	Traits []Trait `json:"traits"`
}

// Compute counts the traits of mds. Trait types keep the order in which
// they first appear (the layer order); values within a type are sorted by
// count, most common first, then by name.
func Compute(mds []genome.Metadata) Table {
	type key struct{ traitType, value string }
	counts := make(map[key]int)
	typeOrder := make(map[string]int)

	for _, md := range mds {
		for _, a := range md.Attributes {
			if _, ok := typeOrder[a.TraitType]; !ok {
				typeOrder[a.TraitType] = len(typeOrder)
			}
			counts[key{a.TraitType, a.Value}]++
		}
	}

	t := Table{Total: len(mds), Traits: make([]Trait, 0, len(counts))}
	for k, n := range counts {
		pct := 100 * float64(n) / float64(len(mds))
		t.Traits = append(t.Traits, Trait{
			TraitType: k.traitType,
			Value:     k.value,
			Count:     n,
			Percent:   pct,
			Tier:      TierOf(pct),
		})
	}
	sort.Slice(t.Traits, func(i, j int) bool {
		a, b := t.Traits[i], t.Traits[j]
		if a.TraitType != b.TraitType {
			return typeOrder[a.TraitType] < typeOrder[b.TraitType]
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Value < b.Value
	})
	return t
}

// Score is the rarity of one token.
type Score struct {
	TokenID int     `json:"token_id"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// Scores ranks tokens by statistical rarity: the sum over a token's traits of
// total/count. Rank 1 is the rarest token; ties share the lower token id first.
func Scores(mds []genome.Metadata) []Score {
	table := Compute(mds)
	freq := make(map[[2]string]int, len(table.Traits))
	for _, tr := range table.Traits {
		freq[[2]string{tr.TraitType, tr.Value}] = tr.Count
	}

	scores := make([]Score, len(mds))
	for i, md := range mds {
		s := Score{TokenID: md.TokenID}
		for _, a := range md.Attributes {
			s.Score += float64(table.Total) / float64(freq[[2]string{a.TraitType, a.Value}])
		}
		scores[i] = s
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].TokenID < scores[j].TokenID
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}
