// Package pipeline runs a complete generation: pre-flight checks, genome
// building, metadata persistence, concurrent rendering and the final report.
//
// # Architecture
//
// A run has two phases:
//
//  1. Genomes: a single goroutine owns the generation state and builds token
//     metadata in order. Each record is written to disk as soon as it is
//     accepted, followed by all-objects.json and .generatorrc.
//  2. Images: [RenderAll] fans the accepted records out to a bounded worker
//     pool. A failing token never stops the others; every token ends up in
//     the [BatchReport] as a success or a failure.
//
// Pre-flight failures (invalid options, invalid configuration, an amount
// beyond the collection's capacity) return before anything is written.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), logger)
//	result, err := runner.Execute(ctx, cfg, pipeline.Options{
//	    Amount: 100,
//	    Output: "output",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, o := range result.Batch.Failed() {
//	    fmt.Println(o.TokenID, o.Err)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
	"github.com/matzehuels/traitforge/pkg/output"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Use
// =============================================================================

const (
	// DefaultWorkers is the size of the render worker pool.
	DefaultWorkers = 25

	// DefaultOutput is the default output directory.
	DefaultOutput = "output"

	// DefaultMaxAttempts bounds the re-draws spent on a single token.
	DefaultMaxAttempts = genome.DefaultMaxAttempts
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains the parameters of a generation run.
type Options struct {
	// ConfigPath is recorded in .generatorrc so the run can be repeated.
	ConfigPath string

	// Amount is the number of tokens to generate. Must be positive.
	Amount int

	// StartAt is the first token id. Any integer is accepted, negative
	// ids included.
	StartAt int

	// Output is the output directory.
	Output string

	// Seed drives every random draw. A random 128-bit seed is chosen when nil.
	Seed *genome.Seed

	// AllowDuplicates disables the uniqueness check and the capacity pre-flight.
	AllowDuplicates bool

	// NoPad disables zero-padding of token ids in display names.
	NoPad bool

	// Workers is the render pool size.
	Workers int

	// MaxAttempts bounds full re-draws per token.
	MaxAttempts int

	// SkipImages stops after the metadata phase.
	SkipImages bool

	// Logger receives progress and per-token failures.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Amount <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "amount must be positive, got %d", o.Amount)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.MaxAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_attempts must not be negative, got %d", o.MaxAttempts)
	}

	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if err := errors.ValidatePath(o.Output); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Seed == nil {
		seed, err := genome.NewRandomSeed()
		if err != nil {
			return err
		}
		o.Seed = &seed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// RC returns the reproducibility record of these options.
func (o *Options) RC() output.RC {
	rc := output.RC{
		Config:          o.ConfigPath,
		Amount:          o.Amount,
		StartAt:         o.StartAt,
		Output:          o.Output,
		AllowDuplicates: o.AllowDuplicates,
		NoPad:           o.NoPad,
	}
	if o.Seed != nil {
		rc.Seed = o.Seed.String()
	}
	return rc
}

// OptionsFromRC rebuilds run options from a .generatorrc record.
func OptionsFromRC(rc output.RC) (Options, error) {
	seed, err := genome.ParseSeed(rc.Seed)
	if err != nil {
		return Options{}, err
	}
	return Options{
		ConfigPath:      rc.Config,
		Amount:          rc.Amount,
		StartAt:         rc.StartAt,
		Output:          rc.Output,
		Seed:            &seed,
		AllowDuplicates: rc.AllowDuplicates,
		NoPad:           rc.NoPad,
	}, nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Seed is the seed the run used, generated or given.
	Seed genome.Seed

	// Metadata holds the accepted records in token order. After a mid-run
	// failure it holds the records accepted before the failure.
	Metadata []genome.Metadata

	// Batch is the render phase outcome; empty when images were skipped.
	Batch BatchReport

	// Report is the summary written to report.json.
	Report *output.Report

	// Stats contains timing and counters.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Genome       genome.Stats
	GenomeTime   time.Duration
	RenderTime   time.Duration
	AssetsCached int
}
