package assets

import (
	"image"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// Resized is one PNG visited by [Resize].
type Resized struct {
	Path    string
	From    image.Point
	Changed bool
}

// Resize scales every PNG below dir that is not width x height to exactly
// that size with Lanczos resampling, overwriting the file. Files that
// already match are left alone. With dryRun set nothing is written.
func Resize(dir string, width, height int, dryRun bool) ([]Resized, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "target size must be positive, got %dx%d", width, height)
	}
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	target := image.Pt(width, height)

	var out []Resized
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".png") {
			return nil
		}

		img, err := imaging.Open(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecodeFailed, err, "open %s", path)
		}
		size := img.Bounds().Size()
		r := Resized{Path: path, From: size, Changed: size != target}
		out = append(out, r)
		if !r.Changed || dryRun {
			return nil
		}

		resized := imaging.Resize(img, width, height, imaging.Lanczos)
		if err := imaging.Save(resized, path); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "save %s", path)
		}
		return nil
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return out, err
		}
		return out, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", dir)
	}
	return out, nil
}
