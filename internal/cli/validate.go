package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/assets"
	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
	"github.com/matzehuels/traitforge/pkg/pipeline"
)

// validateOpts holds the command-line flags for the validate command.
type validateOpts struct {
	config          string
	amount          int
	allowDuplicates bool
	assets          bool
}

// validateCommand creates the validate command. It runs the same pre-flight
// checks as generate and never writes anything.
func (c *CLI) validateCommand() *cobra.Command {
	opts := validateOpts{config: defaultConfig, assets: true}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration and its layer assets",
		Long: `Validate loads the configuration, checks weights and rules, reports the
number of unique combinations and, with --amount, whether a run of that size
fits. With --assets (the default) every layer image is checked for existence
and matching dimensions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", opts.config, "collection configuration file")
	cmd.Flags().IntVarP(&opts.amount, "amount", "n", 0, "check that this many tokens fit")
	cmd.Flags().BoolVar(&opts.allowDuplicates, "allow-duplicates", false, "skip the capacity check")
	cmd.Flags().BoolVar(&opts.assets, "assets", opts.assets, "check layer images")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, opts *validateOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	cfg, err := c.loadConfig(opts.config)
	if err != nil {
		return err
	}

	capacity := genome.Capacity(cfg)
	printKeyValue("Layers", fmt.Sprint(len(cfg.Layers)))
	printKeyValue("Rules", fmt.Sprint(len(cfg.Incompatibilities)))
	printKeyValue("Capacity", humanize.BigComma(capacity))
	printLayerTable(cfg)

	if opts.amount > 0 {
		popts := pipeline.Options{Amount: opts.amount, AllowDuplicates: opts.allowDuplicates}
		// A fixed seed keeps pre-flight from drawing a random one.
		seed := genome.NewSeed(0)
		popts.Seed = &seed
		if err := pipeline.Preflight(cfg, &popts); err != nil {
			return err
		}
		printSuccess("%s tokens fit", humanize.Comma(int64(opts.amount)))
	}

	if opts.assets {
		problems := assets.Check(cfg)
		if len(problems) > 0 {
			for _, p := range problems {
				printError("%s=%s: %s", p.Layer, p.Value, errors.UserMessage(p.Err))
				printFile(p.Path)
			}
			return errors.New(errors.GetCode(problems[0].Err), "%d layer assets cannot be rendered", len(problems))
		}
		printSuccess("All layer assets are readable and the same size")
	}

	prog.done("Validated configuration")
	return nil
}

// printLayerTable prints one row per layer with its selectable value count.
func printLayerTable(cfg *config.Config) {
	rows := make([][]string, 0, len(cfg.Layers))
	for i, l := range cfg.Layers {
		rows = append(rows, []string{
			fmt.Sprint(i),
			l.Name,
			fmt.Sprint(len(l.Values)),
			fmt.Sprint(l.Selectable()),
			l.TraitPath,
		})
	}
	printTable([]string{"#", "Layer", "Values", "Selectable", "Path"}, rows)
}
