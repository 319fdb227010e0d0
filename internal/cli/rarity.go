package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/output"
	"github.com/matzehuels/traitforge/pkg/rarity"
)

// rarityOpts holds the command-line flags for the rarity command.
type rarityOpts struct {
	top  int  // number of rarest tokens to list
	json bool // print the table as JSON instead
}

// rarityCommand creates the rarity command.
func (c *CLI) rarityCommand() *cobra.Command {
	opts := rarityOpts{top: 10}

	cmd := &cobra.Command{
		Use:   "rarity [output-dir]",
		Short: "Show the trait distribution of a generated collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := mustEnvDefaults().Output
			if len(args) == 1 {
				dir = args[0]
			}
			return runRarity(cmd.Context(), cmd.OutOrStdout(), dir, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.top, "top", opts.top, "number of rarest tokens to list")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")

	return cmd
}

func runRarity(ctx context.Context, w io.Writer, dir string, opts *rarityOpts) error {
	logger := loggerFromContext(ctx)

	mds, err := output.LoadAll(dir)
	if err != nil {
		return err
	}
	logger.Debug("loaded collection", "dir", dir, "tokens", len(mds))

	table := rarity.Compute(mds)
	scores := rarity.Scores(mds)
	if opts.top >= 0 && opts.top < len(scores) {
		scores = scores[:opts.top]
	}

	if opts.json {
		return output.WriteJSON(w, struct {
			rarity.Table
			Rarest []rarity.Score `json:"rarest"`
		}{table, scores})
	}

	rows := make([][]string, 0, len(table.Traits))
	for _, tr := range table.Traits {
		rows = append(rows, []string{
			tr.TraitType,
			tr.Value,
			fmt.Sprint(tr.Count),
			fmt.Sprintf("%.2f%%", tr.Percent),
			string(tr.Tier),
		})
	}
	printTable([]string{"Trait", "Value", "Count", "Share", "Tier"}, rows)

	if len(scores) > 0 {
		printNewline()
		printInfo("Rarest tokens")
		rows = rows[:0]
		for _, s := range scores {
			rows = append(rows, []string{fmt.Sprint(s.Rank), fmt.Sprint(s.TokenID), fmt.Sprintf("%.2f", s.Score)})
		}
		printTable([]string{"Rank", "Token", "Score"}, rows)
	}
	printStats(fmt.Sprintf("%d tokens", table.Total), fmt.Sprintf("%d traits", len(table.Traits)))
	return nil
}
