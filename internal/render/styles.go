package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/goshadow/internal/shadow"
)

var (
	// titleStyle for bold cyan headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("45"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for non-fatal diagnostics
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// headerBoxStyle for the build header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("45")).
			Padding(0, 1)

	// boxStyle for the build summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("45")).
			Padding(0, 1)
)

// FormatHeader renders the build header with the queried source and selector.
func FormatHeader(w io.Writer, source, selector string) {
	content := fmt.Sprintf("%s %s\n%s %s",
		dimStyle.Render("Source:"), titleStyle.Render(source),
		dimStyle.Render("Selector:"), selector,
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatSummary renders the build summary box from the builder's report.
func FormatSummary(w io.Writer, report shadow.Report, fragments int) {
	line := fmt.Sprintf("%s %d  %s %d  %s %d",
		dimStyle.Render("Probes:"), report.Probes,
		dimStyle.Render("Pages:"), report.Pages,
		dimStyle.Render("Fragments:"), fragments,
	)
	content := titleStyle.Render("Build Complete") + "\n" + line
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatDiagnostics renders one warning line per unmatched end probe.
// Nothing is printed for a clean build.
func FormatDiagnostics(w io.Writer, report shadow.Report) {
	for _, ue := range report.UnmatchedEnds {
		msg := fmt.Sprintf("unmatched end probe %q at seq %d (only root open)", ue.ID, ue.Seq)
		fmt.Fprintln(w, warnStyle.Render("warning: ")+msg)
	}
	if report.Open > 0 {
		msg := fmt.Sprintf("%d element(s) still open at end of stream", report.Open)
		fmt.Fprintln(w, warnStyle.Render("warning: ")+msg)
	}
}

// FormatArtifact renders a "wrote file" confirmation line.
func FormatArtifact(w io.Writer, label, path string) {
	fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("✓"), dimStyle.Render(label), path)
}
