package render

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// Composite stacks layers bottom to top with source-over blending.
//
// All layers must have the size of the first one. The result is anchored at
// the origin regardless of the layers' own bounds.
func Composite(layers []image.Image) (*image.RGBA, error) {
	if len(layers) == 0 {
		return nil, errors.New(errors.ErrCodeSkippedAllLayers, "nothing to composite")
	}

	base := layers[0].Bounds().Size()
	for i, l := range layers[1:] {
		if size := l.Bounds().Size(); size != base {
			return nil, errors.New(errors.ErrCodeDimensionMismatch,
				"layer %d is %dx%d, base layer is %dx%d", i+1, size.X, size.Y, base.X, base.Y)
		}
	}

	dst := image.NewRGBA(image.Rectangle{Max: base})
	for _, l := range layers {
		draw.Draw(dst, dst.Bounds(), l, l.Bounds().Min, draw.Over)
	}
	return dst, nil
}
