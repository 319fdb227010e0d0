package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/traitforge/pkg/errors"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func within(got, want uint8, tol int) bool {
	d := int(got) - int(want)
	return d >= -tol && d <= tol
}

func TestCompositeSourceOver(t *testing.T) {
	tests := []struct {
		name   string
		bottom color.NRGBA
		top    color.NRGBA
		want   color.RGBA
	}{
		{
			name:   "half transparent blue over opaque red",
			bottom: color.NRGBA{255, 0, 0, 255},
			top:    color.NRGBA{0, 0, 255, 128},
			want:   color.RGBA{127, 0, 128, 255},
		},
		{
			name:   "opaque top hides bottom",
			bottom: color.NRGBA{10, 20, 30, 255},
			top:    color.NRGBA{200, 100, 50, 255},
			want:   color.RGBA{200, 100, 50, 255},
		},
		{
			name:   "transparent top keeps bottom",
			bottom: color.NRGBA{10, 20, 30, 255},
			top:    color.NRGBA{200, 100, 50, 0},
			want:   color.RGBA{10, 20, 30, 255},
		},
		{
			name:   "two translucent layers",
			bottom: color.NRGBA{0, 255, 0, 128},
			top:    color.NRGBA{255, 0, 0, 128},
			// premultiplied: top (128,0,0,128) + bottom (0,128,0,128)*(127/255)
			want: color.RGBA{128, 64, 0, 192},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Composite([]image.Image{fill(4, 4, tt.bottom), fill(4, 4, tt.top)})
			if err != nil {
				t.Fatalf("Composite: %v", err)
			}
			px := got.RGBAAt(2, 2)
			if !within(px.R, tt.want.R, 1) || !within(px.G, tt.want.G, 1) ||
				!within(px.B, tt.want.B, 1) || !within(px.A, tt.want.A, 1) {
				t.Errorf("pixel = %v, want %v (±1)", px, tt.want)
			}
		})
	}
}

func TestCompositeLayerOrder(t *testing.T) {
	red := fill(2, 2, color.NRGBA{255, 0, 0, 255})
	blue := fill(2, 2, color.NRGBA{0, 0, 255, 255})

	got, err := Composite([]image.Image{red, blue})
	if err != nil {
		t.Fatal(err)
	}
	if px := got.RGBAAt(0, 0); px != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("red then blue = %v, want blue", px)
	}

	got, err = Composite([]image.Image{blue, red})
	if err != nil {
		t.Fatal(err)
	}
	if px := got.RGBAAt(0, 0); px != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("blue then red = %v, want red", px)
	}
}

func TestCompositeOffsetBounds(t *testing.T) {
	shifted := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	shifted.SetNRGBA(5, 5, color.NRGBA{0, 255, 0, 255})

	got, err := Composite([]image.Image{shifted})
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("bounds = %v, want origin-anchored 2x2", got.Bounds())
	}
	if px := got.RGBAAt(0, 0); px != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("pixel = %v, want green", px)
	}
}

func TestCompositeErrors(t *testing.T) {
	if _, err := Composite(nil); !errors.Is(err, errors.ErrCodeSkippedAllLayers) {
		t.Errorf("Composite(nil) error = %v, want SKIPPED_ALL_LAYERS", err)
	}

	layers := []image.Image{
		fill(4, 4, color.NRGBA{A: 255}),
		fill(4, 3, color.NRGBA{A: 255}),
	}
	if _, err := Composite(layers); !errors.Is(err, errors.ErrCodeDimensionMismatch) {
		t.Errorf("mismatched sizes error = %v, want DIMENSION_MISMATCH", err)
	}
}
