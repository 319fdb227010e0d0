package assets

import (
	"image"
	"image/png"
	"os"

	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
)

// Problem is an asset that would make tokens fail to render.
type Problem struct {
	Layer string
	Value string
	Path  string
	Err   error
}

// Check inspects the asset of every configured value. It only decodes PNG
// headers, so it stays fast on large collections.
//
// The size of the first readable asset is the reference; every other asset
// must match it. Problems are returned in layer and value order.
func Check(cfg *config.Config) []Problem {
	var (
		problems []Problem
		ref      image.Point
		refPath  string
	)
	for i := range cfg.Layers {
		l := &cfg.Layers[i]
		for _, v := range l.Values {
			path, _ := l.AssetPath(v)
			size, err := pngSize(path)
			if err == nil && refPath == "" {
				ref, refPath = size, path
			} else if err == nil && size != ref {
				err = errors.New(errors.ErrCodeDimensionMismatch,
					"%dx%d, %s is %dx%d", size.X, size.Y, refPath, ref.X, ref.Y)
			}
			if err != nil {
				problems = append(problems, Problem{Layer: l.Name, Value: v, Path: path, Err: err})
			}
		}
	}
	return problems
}

func pngSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return image.Point{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "missing")
		}
		return image.Point{}, errors.Wrap(errors.ErrCodeDecodeFailed, err, "open")
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return image.Point{}, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode")
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}
