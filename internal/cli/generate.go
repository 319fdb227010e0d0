package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
	"github.com/matzehuels/traitforge/pkg/observability"
	"github.com/matzehuels/traitforge/pkg/output"
	"github.com/matzehuels/traitforge/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	config          string // configuration file
	amount          int    // number of tokens
	startAt         int    // first token id
	output          string // output directory
	seed            string // decimal seed; random when empty
	allowDuplicates bool   // skip the uniqueness check
	noPad           bool   // do not zero-pad display names
	workers         int    // render pool size
	maxAttempts     int    // re-draw budget per token
	skipImages      bool   // metadata only
	fromRC          string // replay a previous run
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	defaults := mustEnvDefaults()
	opts := generateOpts{
		config:      defaultConfig,
		output:      defaults.Output,
		workers:     defaults.Workers,
		maxAttempts: defaults.MaxAttempts,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate metadata and images for a collection",
		Long: `Generate draws one value per layer for every token, resolves the
incompatibility rules, writes metadata/<id>.json, all-objects.json and
.generatorrc, then composites images/<id>.png.

The same seed and configuration always produce byte-identical output.

Examples:
  traitforge generate --amount 100
  traitforge generate --amount 100 --seed 42 --output out
  traitforge generate --from-rc out/.generatorrc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadEnvDefaults(); err != nil {
				return err
			}
			popts, err := opts.pipelineOptions(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), popts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", opts.config, "collection configuration file")
	cmd.Flags().IntVarP(&opts.amount, "amount", "n", 0, "number of tokens to generate")
	cmd.Flags().IntVar(&opts.startAt, "start-at", 0, "first token id")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "decimal seed (random if empty)")
	cmd.Flags().BoolVar(&opts.allowDuplicates, "allow-duplicates", false, "allow identical tokens")
	cmd.Flags().BoolVar(&opts.noPad, "no-pad", false, "do not zero-pad token ids in names")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "concurrent image renders")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", opts.maxAttempts, "re-draws allowed per token")
	cmd.Flags().BoolVar(&opts.skipImages, "skip-images", false, "write metadata only")
	cmd.Flags().StringVar(&opts.fromRC, "from-rc", "", "repeat the run recorded in a .generatorrc (file or output directory)")

	return cmd
}

// pipelineOptions converts the flags into pipeline options. With --from-rc the
// recorded run is the base and only explicitly set flags override it.
func (o *generateOpts) pipelineOptions(cmd *cobra.Command) (pipeline.Options, error) {
	var popts pipeline.Options
	if o.fromRC != "" {
		rc, err := output.ReadRC(o.fromRC)
		if err != nil {
			return pipeline.Options{}, err
		}
		if popts, err = pipeline.OptionsFromRC(rc); err != nil {
			return pipeline.Options{}, err
		}
		if popts.ConfigPath == "" {
			popts.ConfigPath = o.config
		}
	} else {
		popts = pipeline.Options{
			ConfigPath:      o.config,
			Amount:          o.amount,
			StartAt:         o.startAt,
			Output:          o.output,
			AllowDuplicates: o.allowDuplicates,
			NoPad:           o.noPad,
		}
		if o.seed != "" {
			seed, err := genome.ParseSeed(o.seed)
			if err != nil {
				return pipeline.Options{}, err
			}
			popts.Seed = &seed
		}
	}

	flags := cmd.Flags()
	if o.fromRC != "" {
		if flags.Changed("config") {
			popts.ConfigPath = o.config
		}
		if flags.Changed("output") {
			popts.Output = o.output
		}
		if flags.Changed("amount") {
			popts.Amount = o.amount
		}
		if flags.Changed("start-at") {
			popts.StartAt = o.startAt
		}
		if flags.Changed("seed") {
			seed, err := genome.ParseSeed(o.seed)
			if err != nil {
				return pipeline.Options{}, err
			}
			popts.Seed = &seed
		}
	}

	popts.Workers = o.workers
	popts.MaxAttempts = o.maxAttempts
	popts.SkipImages = o.skipImages

	if popts.Amount <= 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "--amount must be positive")
	}
	return popts, nil
}

// runGenerate loads the configuration and executes the pipeline, printing a
// summary of the run.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, "Generating tokens...")
	progress := &progressHooks{spinner: spinner, total: int64(opts.Amount)}
	observability.SetGenerationHooks(progress)
	defer observability.Reset()

	spinner.Start()
	result, err := pipeline.NewRunner(nil, logger).Execute(ctx, cfg, opts)
	spinner.Stop()

	if err != nil {
		if result != nil && len(result.Metadata) > 0 {
			printWarning("Stopped after %s tokens; their metadata stays in %s",
				humanize.Comma(int64(len(result.Metadata))), opts.Output)
		}
		return err
	}

	prog.doneN("Generated", len(result.Metadata), "tokens")
	printGenerateSummary(opts, result)
	return nil
}

// printGenerateSummary prints the key facts of a finished run and lists
// tokens whose image could not be rendered.
func printGenerateSummary(opts pipeline.Options, result *pipeline.Result) {
	stats := result.Stats.Genome

	printNewline()
	printKeyValue("Seed", result.Seed.String())
	printKeyValue("Tokens", humanize.Comma(int64(stats.Tokens)))
	printKeyValue("Draws", humanize.Comma(int64(stats.Draws)))
	printKeyValue("Conflicts", humanize.Comma(int64(stats.Conflicts)))
	if !opts.AllowDuplicates {
		printKeyValue("Duplicates", humanize.Comma(int64(stats.Duplicates)))
	}
	printKeyValue("Output", opts.Output)
	printNewline()

	failed := result.Batch.Failed()
	switch {
	case opts.SkipImages:
		printInfo("Images skipped")
	case len(failed) == 0:
		printSuccess("Rendered %s images in %s",
			humanize.Comma(int64(len(result.Batch.Outcomes))),
			result.Stats.RenderTime.Round(time.Millisecond))
	default:
		printWarning("%d of %d images failed", len(failed), len(result.Batch.Outcomes))
		for _, o := range failed {
			printDetail("#%d %s: %s", o.TokenID, errors.GetCode(o.Err), errors.UserMessage(o.Err))
		}
	}

	printFile(output.AllObjectsPath(opts.Output))
	printNewline()
	printNextStep("Inspect the trait distribution", fmt.Sprintf("%s rarity %s", appName, opts.Output))
}

// progressHooks updates the spinner message as tokens are accepted and
// rendered. Accepted and rendered counts are tracked separately because the
// render phase starts only after all metadata is written.
type progressHooks struct {
	observability.NoopGenerationHooks
	spinner  *Spinner
	total    int64
	accepted atomic.Int64
	rendered atomic.Int64
}

func (p *progressHooks) OnTokenAccepted(_ context.Context, _ int, _ int) {
	n := p.accepted.Add(1)
	p.spinner.SetMessage(fmt.Sprintf("Generating tokens... %s/%s",
		humanize.Comma(n), humanize.Comma(p.total)))
}

func (p *progressHooks) OnRenderComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	n := p.rendered.Add(1)
	p.spinner.SetMessage(fmt.Sprintf("Rendering images... %s/%s",
		humanize.Comma(n), humanize.Comma(p.accepted.Load())))
}
