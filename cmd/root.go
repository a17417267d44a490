package cmd

import (
	"fmt"
	"os"

	"github.com/itsmostafa/goshadow/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goshadow",
	Short: "Shadow tree reconstruction for Typst probe streams",
	Long: `goshadow reconstructs a document hierarchy from the probe events emitted
by a Typst typesetting pass and renders it as a terminal tree plus a per-page
HTML overlay for manual verification of element placement.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("goshadow %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
