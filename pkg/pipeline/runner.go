package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/traitforge/pkg/cache"
	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
	"github.com/matzehuels/traitforge/pkg/observability"
	"github.com/matzehuels/traitforge/pkg/output"
	"github.com/matzehuels/traitforge/pkg/render"
)

// Runner executes generation runs.
//
// The Runner is stateless except for the asset cache and logger - it doesn't
// store run results. Sharing the cache across runs of the same collection
// avoids decoding the layer assets again.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given asset cache.
// If cache is nil, a MemoryCache is used.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Preflight checks that a run can start without writing anything.
func Preflight(cfg *config.Config, opts *Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !opts.AllowDuplicates && !genome.Fits(cfg, opts.Amount) {
		return errors.New(errors.ErrCodeAmountExceedsCapacity,
			"amount %s exceeds the %s unique combinations of this configuration",
			humanize.Comma(int64(opts.Amount)), humanize.BigComma(genome.Capacity(cfg)))
	}
	return nil
}

// Execute runs the complete genomes → metadata → images pipeline.
//
// Pre-flight errors are returned before anything is written. A
// CONSTRAINT_EXHAUSTED error stops the run mid-way; the metadata files of the
// tokens accepted so far stay on disk and are returned in the result.
// Per-token render failures do not fail the run: they are listed in
// Result.Batch and in report.json.
func (r *Runner) Execute(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := Preflight(cfg, &opts); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{Seed: *opts.Seed}
	report := &output.Report{
		RunID:     output.NewRunID(),
		Seed:      opts.Seed.String(),
		StartAt:   opts.StartAt,
		Amount:    opts.Amount,
		StartedAt: time.Now().UTC(),
	}
	result.Report = report

	logger.Info("generating metadata",
		"amount", humanize.Comma(int64(opts.Amount)),
		"capacity", humanize.BigComma(genome.Capacity(cfg)),
		"seed", opts.Seed.String())

	// Phase 1: genomes
	genomeStart := time.Now()
	builder := genome.NewBuilder(cfg, genome.NewState(*opts.Seed), genome.Options{
		Output:          opts.Output,
		Amount:          opts.Amount,
		NoPad:           opts.NoPad,
		AllowDuplicates: opts.AllowDuplicates,
		MaxAttempts:     opts.MaxAttempts,
		Observer:        &hookObserver{ctx: ctx, logger: logger},
	})
	mds, err := builder.BuildAll(opts.StartAt, opts.Amount, func(md genome.Metadata) error {
		return output.WriteMetadata(opts.Output, md)
	})
	result.Metadata = mds
	result.Stats.Genome = builder.Stats()
	result.Stats.GenomeTime = time.Since(genomeStart)
	if err != nil {
		logger.Error("generation stopped", "accepted", len(mds), "err", errors.UserMessage(err))
		return result, err
	}

	if err := output.WriteAll(opts.Output, mds); err != nil {
		return result, err
	}
	if err := output.WriteRC(opts.Output, opts.RC()); err != nil {
		return result, err
	}

	stats := result.Stats.Genome
	report.Draws = stats.Draws
	report.Conflicts = stats.Conflicts
	report.Duplicates = stats.Duplicates

	logger.Info("generated metadata",
		"tokens", humanize.Comma(int64(stats.Tokens)),
		"draws", humanize.Comma(int64(stats.Draws)),
		"conflicts", stats.Conflicts,
		"duplicates", stats.Duplicates,
		"duration", result.Stats.GenomeTime)

	// Phase 2: images
	if !opts.SkipImages {
		renderStart := time.Now()
		renderer := render.NewRenderer(cfg, opts.Output,
			render.WithCache(r.Cache),
			render.WithLogger(logger),
		)

		logger.Info("rendering images", "tokens", humanize.Comma(int64(len(mds))), "workers", opts.Workers)
		result.Batch = RenderAll(ctx, renderer, mds, opts.Workers)
		result.Stats.RenderTime = time.Since(renderStart)
		result.Stats.AssetsCached = r.Cache.Len()

		for _, o := range result.Batch.Failed() {
			logger.Error("token failed", "token_id", o.TokenID, "err", errors.UserMessage(o.Err))
			report.Failed = append(report.Failed, output.Failure{
				TokenID: o.TokenID,
				Code:    string(errors.GetCode(o.Err)),
				Reason:  errors.UserMessage(o.Err),
			})
		}
		report.Rendered = len(result.Batch.Succeeded())

		logger.Info("rendered images",
			"rendered", humanize.Comma(int64(report.Rendered)),
			"failed", len(report.Failed),
			"assets", result.Stats.AssetsCached,
			"duration", result.Stats.RenderTime)
	}

	report.FinishedAt = time.Now().UTC()
	if err := output.WriteReport(opts.Output, report); err != nil {
		return result, err
	}
	return result, nil
}

// hookObserver forwards builder progress to the observability hooks and the
// debug log.
type hookObserver struct {
	ctx    context.Context
	logger *log.Logger
}

func (h *hookObserver) OnRetry(e genome.RetryEvent) {
	observability.Generation().OnTokenRetry(h.ctx, e.TokenID, string(e.Reason))
	if e.Reason == genome.ReasonIncompatible {
		h.logger.Debug("redrawing token", "token_id", e.TokenID, "attempt", e.Attempt, "reason", e.Reason, "rule", e.Rule, "layer", e.Layer)
		return
	}
	h.logger.Debug("redrawing token", "token_id", e.TokenID, "attempt", e.Attempt, "reason", e.Reason)
}

func (h *hookObserver) OnAccept(tokenID, attempts int) {
	observability.Generation().OnTokenAccepted(h.ctx, tokenID, attempts)
}
