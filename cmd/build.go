package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itsmostafa/goshadow/internal/probe"
	"github.com/itsmostafa/goshadow/internal/render"
	"github.com/itsmostafa/goshadow/internal/shadow"
	"github.com/spf13/cobra"
)

var buildOut string
var buildJSON string
var buildNoHTML bool
var buildSelector string
var buildConfig string

var buildCmd = &cobra.Command{
	Use:   "build <typst-file>",
	Short: "Reconstruct the shadow tree and write the debug overlay",
	Long: `Query probes from a Typst source file, reconstruct the shadow tree,
print it, and write an HTML overlay for visual verification.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		geo, err := loadGeometry(buildConfig)
		if err != nil {
			return err
		}

		querier := probe.NewQuerier()
		querier.Selector = buildSelector

		probes, err := querier.Query(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		render.FormatHeader(out, args[0], querier.Selector)

		root, report := shadow.Build(probes, geo)
		frags := shadow.Collect(root)

		fmt.Fprint(out, render.Tree(root))
		render.FormatDiagnostics(out, report)
		render.FormatSummary(out, report, len(frags))

		if !buildNoHTML {
			f, err := os.Create(buildOut)
			if err != nil {
				return fmt.Errorf("creating overlay file: %w", err)
			}
			defer f.Close()
			if err := render.Overlay(f, shadow.GroupByPage(frags), report.Pages, geo); err != nil {
				return err
			}
			render.FormatArtifact(out, "overlay:", buildOut)
		}

		if buildJSON != "" {
			data, err := json.MarshalIndent(root, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding tree: %w", err)
			}
			if err := os.WriteFile(buildJSON, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("writing tree JSON: %w", err)
			}
			render.FormatArtifact(out, "tree:", buildJSON)
		}

		return nil
	},
}

// loadGeometry resolves the geometry configuration for a command: defaults,
// optionally overridden from a YAML file.
func loadGeometry(path string) (shadow.Geometry, error) {
	if path == "" {
		return shadow.DefaultGeometry(), nil
	}
	return shadow.LoadGeometry(path)
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "shadow_debug.html", "Overlay output path")
	buildCmd.Flags().StringVar(&buildJSON, "json", "", "Also write the tree as JSON to this path")
	buildCmd.Flags().BoolVar(&buildNoHTML, "no-html", false, "Skip writing the HTML overlay")
	buildCmd.Flags().StringVar(&buildConfig, "config", "", "YAML geometry config file")

	// Selector flag with env var fallback
	defaultSelector := probe.DefaultSelector
	if envSelector := os.Getenv("GOSHADOW_SELECTOR"); envSelector != "" {
		defaultSelector = envSelector
	}
	buildCmd.Flags().StringVar(&buildSelector, "selector", defaultSelector, "Probe label passed to typst query")

	rootCmd.AddCommand(buildCmd)
}
