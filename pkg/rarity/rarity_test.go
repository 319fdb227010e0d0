package rarity

import (
	"testing"

	"github.com/matzehuels/traitforge/pkg/genome"
)

func md(id int, bg, mouth string) genome.Metadata {
	return genome.Metadata{TokenID: id, Attributes: []genome.Attribute{
		{TraitType: "Background", Value: bg},
		{TraitType: "Mouth", Value: mouth},
	}}
}

func collection() []genome.Metadata {
	return []genome.Metadata{
		md(0, "Red", "Smile"),
		md(1, "Red", "Smile"),
		md(2, "Blue", "Smile"),
		md(3, "Red", "Frown"),
	}
}

func TestCompute(t *testing.T) {
	table := Compute(collection())
	if table.Total != 4 {
		t.Fatalf("Total = %d, want 4", table.Total)
	}

	want := []struct {
		traitType, value string
		count            int
		percent          float64
	}{
		{"Background", "Red", 3, 75},
		{"Background", "Blue", 1, 25},
		{"Mouth", "Smile", 3, 75},
		{"Mouth", "Frown", 1, 25},
	}
	if len(table.Traits) != len(want) {
		t.Fatalf("got %d traits, want %d", len(table.Traits), len(want))
	}
	for i, w := range want {
		got := table.Traits[i]
		if got.TraitType != w.traitType || got.Value != w.value || got.Count != w.count || got.Percent != w.percent {
			t.Errorf("trait %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	table := Compute(nil)
	if table.Total != 0 || len(table.Traits) != 0 {
		t.Errorf("Compute(nil) = %+v, want empty", table)
	}
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		percent float64
		want    Tier
	}{
		{0.5, Mythic},
		{2, Legendary},
		{5, Epic},
		{10, Rare},
		{20, Uncommon},
		{30, Common},
		{100, Common},
	}
	for _, tt := range tests {
		if got := TierOf(tt.percent); got != tt.want {
			t.Errorf("TierOf(%v) = %s, want %s", tt.percent, got, tt.want)
		}
	}
}

func TestScores(t *testing.T) {
	scores := Scores(collection())
	if len(scores) != 4 {
		t.Fatalf("got %d scores, want 4", len(scores))
	}

	// Tokens 2 and 3 each carry one 25% trait: 4/1 + 4/3.
	if scores[0].TokenID != 2 || scores[1].TokenID != 3 {
		t.Errorf("rarest tokens = %d, %d; want 2, 3", scores[0].TokenID, scores[1].TokenID)
	}
	if scores[0].Score != scores[1].Score {
		t.Errorf("tied scores differ: %v vs %v", scores[0].Score, scores[1].Score)
	}
	for i, s := range scores {
		if s.Rank != i+1 {
			t.Errorf("score %d has rank %d", i, s.Rank)
		}
	}
}
