package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/rulegraph"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// rulesOpts holds the command-line flags for the rules command.
type rulesOpts struct {
	config  string
	format  string // dot or svg
	output  string // output file (stdout if empty)
	weights bool   // show weights in node labels
	all     bool   // include values no rule mentions
}

// rulesCommand creates the rules command, which draws the incompatibility
// rules of a configuration as a graph.
func (c *CLI) rulesCommand() *cobra.Command {
	opts := rulesOpts{config: defaultConfig, format: formatSVG}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Render the incompatibility rules as a graph",
		Long: `Rules draws every layer as a cluster and every incompatibility rule as
edges from the constrained value to the values it forbids. Red edges force a
re-draw; dashed edges point at the rule's default substitution.

Examples:
  traitforge rules -o rules.svg
  traitforge rules --format dot | dot -Tpng > rules.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return c.runRules(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", opts.config, "collection configuration file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "show value weights")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include values that no rule mentions")

	return cmd
}

func (c *CLI) runRules(ctx context.Context, w io.Writer, opts *rulesOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(opts.config)
	if err != nil {
		return err
	}

	dot := rulegraph.ToDOT(cfg, rulegraph.Options{Weights: opts.weights, All: opts.all})
	data := []byte(dot)
	if opts.format == formatSVG {
		if data, err = rulegraph.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	logger.Infof("Wrote %s (%s)", opts.output, humanize.Bytes(uint64(len(data))))
	printFile(opts.output)
	printStats(fmt.Sprintf("%d layers", len(cfg.Layers)), fmt.Sprintf("%d rules", len(cfg.Incompatibilities)))
	return nil
}
