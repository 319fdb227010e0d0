package rulegraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
)

// Options configures rule graph rendering.
type Options struct {
	// Weights appends each value's weight to its label.
	Weights bool

	// All includes values that no rule mentions. By default only values
	// touched by a rule are drawn.
	All bool
}

// ToDOT converts the rules of cfg to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(cfg *config.Config, opts Options) string {
	used := involved(cfg)

	var buf bytes.Buffer
	buf.WriteString("digraph rules {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for i, l := range cfg.Layers {
		var nodes []string
		for j, v := range l.Values {
			if !opts.All && !used[nodeID(l.Name, v)] {
				continue
			}
			label := v
			if opts.Weights && j < len(l.Weights) {
				label = fmt.Sprintf("%s\n(%s)", v, strconv.FormatFloat(l.Weights[j], 'g', -1, 64))
			}
			nodes = append(nodes, fmt.Sprintf("    %q [label=%q];\n", nodeID(l.Name, v), label))
		}
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", l.Name)
		buf.WriteString("    style=\"rounded\";\n")
		buf.WriteString("    color=grey;\n")
		for _, n := range nodes {
			buf.WriteString(n)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range edges(cfg) {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.from, e.to, strings.Join(e.attrs(), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

type edge struct {
	from, to string
	rule     int
	dflt     string
}

func (e edge) attrs() []string {
	if e.dflt != "" {
		return []string{"style=dashed", fmt.Sprintf("label=%q", fmt.Sprintf("#%d → %s", e.rule, e.dflt))}
	}
	return []string{"color=red", fmt.Sprintf("label=%q", fmt.Sprintf("#%d", e.rule))}
}

// edges lists one edge per (rule, forbidden value, layer holding the value).
func edges(cfg *config.Config) []edge {
	var out []edge
	for i, r := range cfg.Incompatibilities {
		from := nodeID(r.Layer, r.Value)
		for _, l := range cfg.Layers {
			if l.Name == r.Layer {
				continue
			}
			for _, v := range l.Values {
				if !r.Forbids(v) {
					continue
				}
				e := edge{from: from, to: nodeID(l.Name, v), rule: i}
				if r.HasDefault() {
					e.dflt = r.Default.Value
				}
				out = append(out, e)
			}
		}
	}
	return out
}

func involved(cfg *config.Config) map[string]bool {
	used := make(map[string]bool)
	for _, e := range edges(cfg) {
		used[e.from] = true
		used[e.to] = true
	}
	return used
}

func nodeID(layer, value string) string {
	return layer + "/" + value
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
