package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate weights and category bands and print the effective configuration",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}

	header := lipgloss.NewStyle().Bold(true)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, header.Render("Pillar weights"))
	for _, p := range types.Pillars {
		fmt.Fprintf(out, "  %-12s %.2f\n", p, cfg.PillarWeights[string(p)])
	}

	fmt.Fprintln(out, header.Render("\nSub-test weights"))
	pillars := make([]string, 0, len(cfg.SubTestWeights))
	for p := range cfg.SubTestWeights {
		pillars = append(pillars, p)
	}
	sort.Strings(pillars)
	for _, p := range pillars {
		fmt.Fprintf(out, "  %s\n", p)
		tests := make([]string, 0, len(cfg.SubTestWeights[p]))
		for t := range cfg.SubTestWeights[p] {
			tests = append(tests, t)
		}
		sort.Strings(tests)
		for _, t := range tests {
			fmt.Fprintf(out, "    %-28s %.2f\n", t, cfg.SubTestWeights[p][t])
		}
	}

	fmt.Fprintln(out, header.Render("\nHealthspan Index"))
	fmt.Fprintf(out, "  base %.0f, %.1f points per year, range %.0f-%.0f\n",
		cfg.Healthspan.BaseScore, cfg.Healthspan.PointsPerYear,
		cfg.Healthspan.MinScore, cfg.Healthspan.MaxScore)
	for _, band := range cfg.Categories {
		fmt.Fprintf(out, "  %-10s %.0f-%.0f\n", band.Name, band.Min, band.Max)
	}

	fmt.Fprintln(out, header.Render("\nConfiguration is valid."))
	return nil
}
