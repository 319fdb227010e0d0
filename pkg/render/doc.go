// Package render composites trait layers into token images.
//
// # Overview
//
// A token's metadata lists one attribute per configured layer, bottom first.
// [Renderer.Render] resolves each attribute to its layer asset
// (<trait_path>/<filename>.png), loads it through an asset cache, composites
// the layers source-over in order and writes <output>/images/<token_id>.png.
//
//	r := render.NewRenderer(cfg, "output",
//	    render.WithCache(cache.NewMemoryCache()),
//	    render.WithLogger(logger),
//	)
//	res, err := r.Render(ctx, md)
//
// # Failures
//
// A layer whose asset is missing or cannot be decoded is logged and skipped.
// The remaining layers are still composited and written so the result can be
// inspected, [Result.Skipped] records what was left out, and the token is
// reported as failed (FILE_NOT_FOUND or DECODE_FAILED). A token also fails when:
//   - no layer could be loaded (SKIPPED_ALL_LAYERS)
//   - a layer's size differs from the bottom layer (DIMENSION_MISMATCH)
//   - the output file cannot be written
//
// All of these are per-token failures: callers render the remaining tokens and
// report the failures at the end of the run.
//
// # Compositing
//
// [Composite] is exposed on its own so the blend can be checked without any
// filesystem fixtures.
package render
