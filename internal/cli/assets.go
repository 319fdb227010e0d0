package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/assets"
	"github.com/matzehuels/traitforge/pkg/errors"
)

// assetsCommand groups the layer asset maintenance commands.
func (c *CLI) assetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Prepare layer images",
	}
	cmd.AddCommand(c.normalizeCommand())
	cmd.AddCommand(c.resizeCommand())
	return cmd
}

// normalizeCommand renames asset files to lowercase names without spaces.
func (c *CLI) normalizeCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "normalize <dir>",
		Short: "Lowercase asset file names and replace spaces with underscores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd.Context(), args[0], dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the renames without performing them")
	return cmd
}

func runNormalize(ctx context.Context, dir string, dryRun bool) error {
	prog := newProgress(loggerFromContext(ctx))

	renames, err := assets.Normalize(dir, dryRun)
	if err != nil {
		return err
	}
	for _, r := range renames {
		printDetail("%s %s %s", r.From, iconArrow, r.To)
	}
	if dryRun {
		printInfo("%d files would be renamed", len(renames))
		return nil
	}
	prog.doneN("Renamed", len(renames), "files")
	return nil
}

// resizeOpts holds the command-line flags for the resize command.
type resizeOpts struct {
	width  int
	height int
	dryRun bool
}

// resizeCommand scales every PNG below a directory to one size.
func (c *CLI) resizeCommand() *cobra.Command {
	var opts resizeOpts

	cmd := &cobra.Command{
		Use:   "resize <dir>",
		Short: "Resize layer images to a common size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.width <= 0 || opts.height <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--width and --height must be positive")
			}
			return runResize(cmd.Context(), args[0], &opts)
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", 0, "target width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "target height in pixels")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report sizes without rewriting files")
	return cmd
}

func runResize(ctx context.Context, dir string, opts *resizeOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Resizing images in %s...", dir))
	spinner.Start()
	resized, err := assets.Resize(dir, opts.width, opts.height, opts.dryRun)
	spinner.Stop()
	if err != nil {
		return err
	}

	changed := 0
	for _, r := range resized {
		if !r.Changed {
			continue
		}
		changed++
		printDetail("%s %dx%d %s %dx%d", r.Path, r.From.X, r.From.Y, iconArrow, opts.width, opts.height)
	}
	if opts.dryRun {
		printInfo("%d of %d images would be resized", changed, len(resized))
		return nil
	}
	prog.doneN("Resized", changed, "images")
	return nil
}
