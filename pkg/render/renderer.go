package render

import (
	"context"
	"image"
	"io"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/traitforge/pkg/cache"
	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
)

// Option configures a [Renderer].
type Option func(*Renderer)

// WithCache sets the asset cache. Defaults to a fresh memory cache.
func WithCache(c cache.Cache) Option {
	return func(r *Renderer) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithLogger sets the logger used for skipped layers. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer turns token metadata into composited PNG files.
// It is safe for concurrent use; the configuration is only read.
type Renderer struct {
	cfg    *config.Config
	output string
	cache  cache.Cache
	logger *log.Logger
}

// NewRenderer creates a renderer writing images below output/images.
func NewRenderer(cfg *config.Config, output string, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:    cfg,
		output: output,
		cache:  cache.NewMemoryCache(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SkippedLayer is a layer left out of a token's image.
type SkippedLayer struct {
	TraitType string
	Value     string
	Err       error
}

// Result describes one rendered token.
type Result struct {
	TokenID int
	Path    string
	Layers  int
	Skipped []SkippedLayer
}

// ImagePath returns where the image of tokenID is written.
func (r *Renderer) ImagePath(tokenID int) string {
	return filepath.Join(r.output, "images", strconv.Itoa(tokenID)+".png")
}

// Render composites the layers of md and writes the resulting PNG.
//
// Layers that cannot be loaded are skipped and logged. The image of the
// remaining layers is still written (Result.Path is set) but, since it no
// longer matches the metadata, Render reports the token as failed with the
// code of the first skipped layer.
func (r *Renderer) Render(ctx context.Context, md genome.Metadata) (Result, error) {
	res := Result{TokenID: md.TokenID}

	// Stacking follows the configured layer order, not the order of the
	// attributes in md, which may come from a hand-edited file.
	layers := make([]image.Image, 0, len(r.cfg.Layers))
	for _, attr := range r.ordered(md) {
		img, err := r.loadLayer(ctx, attr)
		if err != nil {
			r.logger.Error("skipping layer",
				"token_id", md.TokenID, "trait", attr.TraitType, "value", attr.Value, "err", errors.UserMessage(err))
			res.Skipped = append(res.Skipped, SkippedLayer{TraitType: attr.TraitType, Value: attr.Value, Err: err})
			continue
		}
		layers = append(layers, img)
	}
	res.Layers = len(layers)

	if len(layers) == 0 {
		return res, errors.New(errors.ErrCodeSkippedAllLayers,
			"token %d: none of %d layers could be loaded", md.TokenID, len(md.Attributes))
	}

	img, err := Composite(layers)
	if err != nil {
		return res, errors.Wrap(errors.GetCode(err), err, "token %d", md.TokenID)
	}

	path := r.ImagePath(md.TokenID)
	if err := writePNG(path, img); err != nil {
		return res, err
	}
	res.Path = path

	if len(res.Skipped) > 0 {
		first := res.Skipped[0].Err
		return res, errors.Wrap(errors.GetCode(first), first,
			"token %d: image is missing %d of %d layers", md.TokenID, len(res.Skipped), len(md.Attributes))
	}

	r.logger.Debug("rendered token", "token_id", md.TokenID, "layers", res.Layers)
	return res, nil
}

// ordered returns the attributes of md in configured layer order. Layers md
// has no value for are left out; attributes naming an unknown layer follow
// at the end so they are reported as skipped.
func (r *Renderer) ordered(md genome.Metadata) []genome.Attribute {
	attrs := make([]genome.Attribute, 0, len(md.Attributes))
	for _, l := range r.cfg.Layers {
		if v, ok := md.Trait(l.Name); ok {
			attrs = append(attrs, genome.Attribute{TraitType: l.Name, Value: v})
		}
	}
	for _, a := range md.Attributes {
		if _, ok := r.cfg.Layer(a.TraitType); !ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func (r *Renderer) loadLayer(ctx context.Context, attr genome.Attribute) (image.Image, error) {
	layer, ok := r.cfg.Layer(attr.TraitType)
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no layer named %q", attr.TraitType)
	}
	path, ok := layer.AssetPath(attr.Value)
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound,
			"layer %q has no asset for value %q", attr.TraitType, attr.Value)
	}

	img, _, err := r.cache.GetOrLoad(ctx, path, func() (image.Image, error) {
		return LoadPNG(path)
	})
	return img, err
}
