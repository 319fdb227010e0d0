package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{200, 10, 10, 255})
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Dark Brown.png", "dark_brown.png"},
		{"smile.png", "smile.png"},
		{"Golden  Brown.PNG", "golden__brown.png"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"base/Dark Brown.png", "base/tan.png", "Eyes/Locked In.png"} {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	plan, err := Normalize(dir, true)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	require.FileExists(t, filepath.Join(dir, "base", "Dark Brown.png"), "dry run must not rename")

	done, err := Normalize(dir, false)
	require.NoError(t, err)
	require.Equal(t, plan, done)
	require.FileExists(t, filepath.Join(dir, "base", "dark_brown.png"))
	// Directories keep their names; only files are normalized.
	require.FileExists(t, filepath.Join(dir, "Eyes", "locked_in.png"))
	require.FileExists(t, filepath.Join(dir, "base", "tan.png"))

	again, err := Normalize(dir, false)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestNormalizeCollision(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Red Cap.png"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "red cap.png"), []byte("b"), 0o644))

	_, err := Normalize(dir, false)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "err = %v", err)
	require.FileExists(t, filepath.Join(dir, "Red Cap.png"))
}

func TestResize(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a", "big.png"), 16, 16)
	writePNG(t, filepath.Join(dir, "a", "ok.png"), 8, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	dry, err := Resize(dir, 8, 8, true)
	require.NoError(t, err)
	require.Len(t, dry, 2)

	out, err := Resize(dir, 8, 8, false)
	require.NoError(t, err)
	changed := 0
	for _, r := range out {
		if r.Changed {
			changed++
			require.Equal(t, image.Pt(16, 16), r.From)
		}
	}
	require.Equal(t, 1, changed)

	f, err := os.Open(filepath.Join(dir, "a", "big.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Width)
	require.Equal(t, 8, cfg.Height)
}

func TestResizeRejectsBadInput(t *testing.T) {
	_, err := Resize(t.TempDir(), 0, 10, false)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o644))
	_, err = Resize(dir, 4, 4, false)
	require.True(t, errors.Is(err, errors.ErrCodeDecodeFailed), "err = %v", err)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "bg", "red.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "bg", "blue.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "face", "smile.png"), 4, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "face", "wink.png"), []byte("junk"), 0o644))

	cfg := &config.Config{Layers: []config.Layer{
		{Name: "Background", TraitPath: filepath.Join(dir, "bg"), Values: []string{"Red", "Blue", "Green"},
			Weights: []float64{1, 1, 1}, Filenames: []string{"red", "blue", "green"}},
		{Name: "Face", TraitPath: filepath.Join(dir, "face"), Values: []string{"Smile", "Wink"},
			Weights: []float64{1, 1}, Filenames: []string{"smile", "wink"}},
	}}

	problems := Check(cfg)
	require.Len(t, problems, 3)

	want := []struct {
		value string
		code  errors.Code
	}{
		{"Green", errors.ErrCodeFileNotFound},
		{"Smile", errors.ErrCodeDimensionMismatch},
		{"Wink", errors.ErrCodeDecodeFailed},
	}
	for i, w := range want {
		require.Equal(t, w.value, problems[i].Value)
		require.True(t, errors.Is(problems[i].Err, w.code), "%s: %v", w.value, problems[i].Err)
	}
}
