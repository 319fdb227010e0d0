package render

import (
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// LoadPNG decodes the PNG at path.
// A missing file is FILE_NOT_FOUND, anything unreadable is DECODE_FAILED.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "open %s", path)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", path)
	}
	return img, nil
}

// writePNG encodes img to path, creating parent directories. The image is
// written to a temporary file first so a crashed run never leaves a truncated
// PNG behind.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".render-*.png")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), fs.FileMode(0o644)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "rename to %s", path)
	}
	return nil
}
