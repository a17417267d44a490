package cmd

import (
	"fmt"

	"github.com/itsmostafa/goshadow/internal/probe"
	"github.com/spf13/cobra"
)

var probesSelector string

var probesCmd = &cobra.Command{
	Use:   "probes <typst-file>",
	Short: "List the raw probe stream in ordinal order",
	Long: `Query probes from a Typst source file and print one line per probe,
without building the tree. Useful for inspecting what the typesetting pass
actually emitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		querier := probe.NewQuerier()
		querier.Selector = probesSelector

		probes, err := querier.Query(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range probes {
			edge := string(p.EffectiveEdge())
			if edge == "" {
				edge = "atomic"
			}
			fmt.Fprintf(out, "%4d  %-6s  %-12s  %-24s  p%d (%.0f, %.0f)\n",
				p.Seq, edge, p.EffectiveKind(), p.ID,
				p.Location.PageOr(1), p.Location.XOr(0), p.Location.YOr(0))
		}
		fmt.Fprintf(out, "%d probes\n", len(probes))
		return nil
	},
}

func init() {
	probesCmd.Flags().StringVar(&probesSelector, "selector", probe.DefaultSelector, "Probe label passed to typst query")
	rootCmd.AddCommand(probesCmd)
}
