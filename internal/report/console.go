package report

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/scoring"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// ConsoleWriter prints a styled per-client summary to stdout.
type ConsoleWriter struct {
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleWriter creates a ConsoleWriter.
func NewConsoleWriter(quiet, verbose bool) *ConsoleWriter {
	return &ConsoleWriter{quiet: quiet, verbose: verbose, colorize: true}
}

// Write renders the report to stdout. Quiet mode suppresses everything
// but the exit status.
func (w *ConsoleWriter) Write(r *Report) error {
	if w.quiet {
		return nil
	}

	for _, sc := range r.Clients {
		w.printClient(sc)
	}
	for _, sheet := range r.Skipped {
		fmt.Printf("%s %s: skipped (invalid client data)\n", w.style("9").Render("✗"), sheet)
	}

	duration := time.Since(r.StartTime)
	fmt.Printf("\n%d/%d complete, %d incomplete, %d skipped (%v)\n",
		r.Complete(), len(r.Clients),
		len(r.Clients)-r.Complete(), len(r.Skipped),
		duration.Round(time.Millisecond))
	return nil
}

func (w *ConsoleWriter) printClient(sc *scoring.ScoredClient) {
	if !sc.BFA.Valid {
		fmt.Printf("%s %s: %s\n", w.style("3").Render("⚠"), sc.Client.Name, incompleteLabel)
		if w.verbose {
			w.printPillars(sc)
		}
		return
	}

	category := w.categoryStyle(sc.Category).Render(sc.Category)
	fmt.Printf("%s %s: BFA %s (chronological %s), Healthspan %s %s\n",
		w.style("10").Render("✓"),
		sc.Client.Name,
		formatMeasure(sc.BFA),
		formatNumber(sc.Client.Age),
		formatMeasure(sc.HealthspanIndex),
		category)
	if w.verbose {
		w.printPillars(sc)
	}
}

func (w *ConsoleWriter) printPillars(sc *scoring.ScoredClient) {
	for _, p := range types.Pillars {
		fmt.Printf("    %-10s %s\n", string(p), formatMeasure(sc.Pillars[p]))
	}
}

func (w *ConsoleWriter) style(color string) lipgloss.Style {
	if !w.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (w *ConsoleWriter) categoryStyle(category string) lipgloss.Style {
	if !w.colorize {
		return lipgloss.NewStyle()
	}
	switch category {
	case "Critical", "Poor":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
	case "Fair", "Average":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	}
}
