package genome

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
)

// DefaultMaxAttempts bounds the draws spent on a single token.
const DefaultMaxAttempts = 10000

// Reason tells why a draft was abandoned.
type Reason string

const (
	ReasonIncompatible Reason = "incompatible"
	ReasonDuplicate    Reason = "duplicate"
)

// RetryEvent describes an abandoned draft.
type RetryEvent struct {
	TokenID int
	Attempt int
	Reason  Reason
	Rule    int    // rule index, for ReasonIncompatible
	Layer   string // conflicting layer, for ReasonIncompatible
}

// Observer is notified about the builder's progress. Callbacks run on the
// builder's goroutine.
type Observer interface {
	OnRetry(e RetryEvent)
	OnAccept(tokenID, attempts int)
}

type noopObserver struct{}

func (noopObserver) OnRetry(RetryEvent) {}
func (noopObserver) OnAccept(int, int)  {}

// Options configures a [Builder].
type Options struct {
	// Output is the run's output directory, used for the metadata image path.
	Output string

	// Amount is the run size. It only drives the zero-padding of display names.
	Amount int

	// NoPad disables zero-padding of the token id in display names.
	NoPad bool

	// AllowDuplicates disables the uniqueness check.
	AllowDuplicates bool

	// MaxAttempts bounds full re-draws per token. Zero means DefaultMaxAttempts.
	MaxAttempts int

	// Observer receives retry and accept notifications. Optional.
	Observer Observer
}

// Stats counts the builder's work.
type Stats struct {
	Tokens     int
	Draws      uint64
	Conflicts  int
	Duplicates int
}

// Builder produces accepted genomes and their metadata, one token at a time.
type Builder struct {
	cfg        *config.Config
	state      *State
	opts       Options
	layers     []string
	candidates [][]Candidate
	pad        int
	stats      Stats
}

// NewBuilder creates a builder over a validated configuration.
// The builder takes exclusive ownership of state.
func NewBuilder(cfg *config.Config, state *State, opts Options) *Builder {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}

	b := &Builder{
		cfg:        cfg,
		state:      state,
		opts:       opts,
		layers:     cfg.LayerNames(),
		candidates: make([][]Candidate, len(cfg.Layers)),
	}
	for i := range cfg.Layers {
		b.candidates[i] = Candidates(&cfg.Layers[i])
	}
	if !opts.NoPad {
		b.pad = len(strconv.Itoa(opts.Amount))
	}
	return b
}

// State returns the builder's generation state.
func (b *Builder) State() *State { return b.state }

// Stats returns counters for the work done so far.
func (b *Builder) Stats() Stats {
	s := b.stats
	s.Draws = b.state.Nonce()
	return s
}

// Build produces the metadata of one token.
//
// A token is drawn layer by layer, one nonce per layer, then resolved against
// the incompatibility rules and checked for uniqueness. A rejected draft is
// discarded as a whole and the token is re-drawn with fresh nonces. After
// MaxAttempts drafts the build fails with CONSTRAINT_EXHAUSTED.
func (b *Builder) Build(tokenID int) (Metadata, error) {
	for attempt := 1; attempt <= b.opts.MaxAttempts; attempt++ {
		draft, err := b.draw()
		if err != nil {
			return Metadata{}, err
		}

		res := Resolve(draft, b.layers, b.cfg.Incompatibilities)
		if res.Retry {
			b.stats.Conflicts++
			b.opts.Observer.OnRetry(RetryEvent{
				TokenID: tokenID, Attempt: attempt, Reason: ReasonIncompatible,
				Rule: res.Rule, Layer: res.Layer,
			})
			continue
		}

		key := res.Genome.Key(b.layers)
		if !b.opts.AllowDuplicates && b.state.Contains(key) {
			b.stats.Duplicates++
			b.opts.Observer.OnRetry(RetryEvent{TokenID: tokenID, Attempt: attempt, Reason: ReasonDuplicate})
			continue
		}

		b.state.accept(key)
		b.stats.Tokens++
		b.opts.Observer.OnAccept(tokenID, attempt)
		return b.metadata(tokenID, res.Genome), nil
	}

	return Metadata{}, errors.New(errors.ErrCodeConstraintExhausted,
		"token %d: no valid genome after %d attempts", tokenID, b.opts.MaxAttempts)
}

// BuildAll builds tokens startAt..startAt+amount-1 in order. When emit is not
// nil it is called with each record as soon as it is accepted; an emit error
// stops the run. On failure the records accepted so far are returned with the
// error.
func (b *Builder) BuildAll(startAt, amount int, emit func(Metadata) error) ([]Metadata, error) {
	out := make([]Metadata, 0, amount)
	for i := range amount {
		md, err := b.Build(startAt + i)
		if err != nil {
			return out, err
		}
		if emit != nil {
			if err := emit(md); err != nil {
				return out, err
			}
		}
		out = append(out, md)
	}
	return out, nil
}

// draw selects one value per layer in configured order.
func (b *Builder) draw() (Genome, error) {
	g := make(Genome, len(b.layers))
	for i, name := range b.layers {
		v, err := Select(b.candidates[i], b.state.seed, b.state.next())
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layer %q", name)
		}
		g[name] = v
	}
	return g, nil
}

func (b *Builder) metadata(tokenID int, g Genome) Metadata {
	attrs := make([]Attribute, len(b.layers))
	for i, name := range b.layers {
		attrs[i] = Attribute{TraitType: name, Value: g[name]}
	}
	return Metadata{
		TokenID:     tokenID,
		Image:       ImagePath(b.opts.Output, tokenID),
		Name:        b.cfg.Name + fmt.Sprintf("%0*d", b.pad, tokenID),
		Description: b.cfg.Description,
		Attributes:  attrs,
	}
}

// ImagePath returns the image location recorded in metadata for a token.
// It uses forward slashes on every platform so metadata is portable.
func ImagePath(output string, tokenID int) string {
	return path.Join(filepath.ToSlash(output), "images", strconv.Itoa(tokenID)+".png")
}
