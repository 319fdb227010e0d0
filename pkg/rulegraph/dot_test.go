package rulegraph

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/traitforge/pkg/config"
)

func rulesConfig() *config.Config {
	return &config.Config{
		Layers: []config.Layer{
			{Name: "Background", Values: []string{"Red", "Blue"}, Weights: []float64{70, 30}, Filenames: []string{"red", "blue"}},
			{Name: "Face", Values: []string{"Smile", "Frown", "Wink"}, Weights: []float64{1, 1, 1}, Filenames: []string{"s", "f", "w"}},
			{Name: "Hat", Values: []string{"Cap", "Frown"}, Weights: []float64{1, 1}, Filenames: []string{"c", "f"}},
		},
		Incompatibilities: []config.Incompatibility{
			{Layer: "Background", Value: "Red", IncompatibleWith: []string{"Frown"}},
			{Layer: "Face", Value: "Wink", IncompatibleWith: []string{"Cap"}, Default: &config.Default{Value: "Frown"}},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(rulesConfig(), Options{})

	if !strings.Contains(dot, "digraph rules") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `label="Background"`) {
		t.Error("ToDOT() output missing layer cluster")
	}
	// A forbidden value is matched in every other layer holding it.
	for _, want := range []string{
		`"Background/Red" -> "Face/Frown"`,
		`"Background/Red" -> "Hat/Frown"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing edge %s", want)
		}
	}
	if strings.Contains(dot, `"Background/Blue"`) {
		t.Error("ToDOT() should omit values no rule mentions")
	}
}

func TestToDOT_DefaultEdgesAreDashed(t *testing.T) {
	dot := ToDOT(rulesConfig(), Options{})

	var line string
	for _, l := range strings.Split(dot, "\n") {
		if strings.Contains(l, `"Face/Wink" -> "Hat/Cap"`) {
			line = l
		}
	}
	if line == "" {
		t.Fatal("ToDOT() output missing default rule edge")
	}
	if !strings.Contains(line, "dashed") || !strings.Contains(line, "Frown") {
		t.Errorf("default rule edge = %q, want dashed with default label", line)
	}
}

func TestToDOT_All(t *testing.T) {
	dot := ToDOT(rulesConfig(), Options{All: true, Weights: true})

	if !strings.Contains(dot, `"Background/Blue"`) {
		t.Error("ToDOT(All) should include every value")
	}
	if !strings.Contains(dot, `Red\n(70)`) {
		t.Error("ToDOT(Weights) should include weights in labels")
	}
}

func TestToDOT_NoRules(t *testing.T) {
	cfg := rulesConfig()
	cfg.Incompatibilities = nil

	dot := ToDOT(cfg, Options{})
	if strings.Contains(dot, "->") || strings.Contains(dot, "subgraph") {
		t.Errorf("ToDOT() without rules should be empty, got:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(rulesConfig(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="200"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}
