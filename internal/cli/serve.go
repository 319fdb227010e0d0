package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/output"
	"github.com/matzehuels/traitforge/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	defaults := mustEnvDefaults()
	addr := defaults.Addr

	cmd := &cobra.Command{
		Use:   "serve [output-dir]",
		Short: "Serve a generated collection over HTTP",
		Long: `Serve exposes the metadata, images, rarity table and run report of an
output directory until interrupted.

Routes:
  GET /metadata          all records
  GET /metadata/{id}     one record
  GET /images/{id}       one image
  GET /rarity            trait distribution
  GET /report            report of the last run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaults.Output
			if len(args) == 1 {
				dir = args[0]
			}
			return runServe(cmd.Context(), dir, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")
	return cmd
}

func runServe(ctx context.Context, dir, addr string) error {
	logger := loggerFromContext(ctx)

	if _, err := output.LoadAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s does not hold a generated collection", dir)
	}

	printInfo("Serving %s on %s", dir, StyleLink.Render("http://"+displayAddr(addr)))
	return server.New(dir, logger).ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
