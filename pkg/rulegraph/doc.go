// Package rulegraph renders a collection's incompatibility rules as a
// node-link diagram.
//
// # Overview
//
// Every layer becomes a cluster of its values. Each rule draws an edge from
// its trigger value to every value it forbids in the other layers:
//
//   - solid red edges force a full re-draw of the token
//   - dashed edges are resolved by substitution; the label names the default
//
// Large collections grow many rules and interactions between them are hard
// to follow in JSON. The graph makes chains visible, for example a default
// value that is itself forbidden by a later rule.
//
// # Usage
//
//	dot := rulegraph.ToDOT(cfg, rulegraph.Options{Weights: true})
//	svg, err := rulegraph.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package rulegraph
