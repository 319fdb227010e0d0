// Package pkg provides the core libraries for traitforge, a generator for
// layered generative-art collections.
//
// # Overview
//
// A collection is a stack of trait layers (background, body, mouth, ...).
// Each layer offers weighted values backed by same-sized PNG images. A token
// picks one value per layer; incompatibility rules forbid some combinations
// and either force a re-draw or substitute a default value. Every random
// draw derives from one seed, so a run is reproducible byte for byte.
//
// # Architecture
//
// The data flow of a generation run:
//
//	config.json
//	     ↓
//	[config] (load + validate layers, weights, rules)
//	     ↓
//	[genome] (seeded draws → constraint resolution → uniqueness)
//	     ↓
//	[output] (metadata/<id>.json, all-objects.json, .generatorrc, report.json)
//	     ↓
//	[render] (alpha-composite layer PNGs → images/<id>.png)
//
// [pipeline] orchestrates the phases and runs the renders on a bounded
// worker pool.
//
// # Quick Start
//
//	cfg, _ := config.Load("config.json")
//	seed := genome.NewSeed(42)
//	res, err := pipeline.NewRunner(nil, nil).Execute(ctx, cfg, pipeline.Options{
//	    Amount: 100,
//	    Output: "output",
//	    Seed:   &seed,
//	})
//	for _, o := range res.Batch.Failed() {
//	    fmt.Println(o.TokenID, o.Err)
//	}
//
// # Main Packages
//
// ## Generation
//
// [config] - Collection configuration: layers in stacking order and ordered
// incompatibility rules.
//
// [genome] - Seeded weighted selection, constraint resolution, uniqueness
// tracking and metadata assembly. [genome.Capacity] counts the distinct
// combinations a configuration can produce.
//
// [pipeline] - Pre-flight checks, the metadata phase and the concurrent
// render phase. Per-token failures are collected, not fatal.
//
// ## Images
//
// [render] - Source-over compositing of layer images and atomic PNG writes.
//
// [cache] - Decoded layer images shared by all render workers; concurrent
// loads of the same asset are collapsed into one.
//
// [assets] - Asset maintenance: file name normalization, resizing and a
// pre-flight check of every configured image.
//
// ## Artifacts
//
// [output] - Layout and codecs of the output directory.
//
// [rarity] - Trait distribution and per-token rarity ranks.
//
// [rulegraph] - Incompatibility rules as a Graphviz diagram.
//
// [server] - Read-only HTTP access to a generated collection.
//
// ## Support
//
// [errors] - Coded errors shared across packages.
//
// [observability] - Hooks for progress reporting and metrics.
//
// [buildinfo] - Version information set at build time.
package pkg
