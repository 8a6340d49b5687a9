package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/config"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/scoring"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

var normsCmd = &cobra.Command{
	Use:   "norms",
	Short: "Inspect and validate the normative dataset",
}

var normsValidateCmd = &cobra.Command{
	Use:   "validate [norms.yaml]",
	Short: "Check the normative dataset covers every scored test",
	Long: `Validate loads the normative dataset and verifies that every test
required by the scoring pipeline has a usable reference curve (or risk
bands) for both genders. A dataset that fails here would make every
client unscorable, so scoring refuses to start on the same check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormsValidate,
}

func init() {
	normsCmd.AddCommand(normsValidateCmd)
	rootCmd.AddCommand(normsCmd)
}

func runNormsValidate(cmd *cobra.Command, args []string) error {
	path := normsPath
	if len(args) == 1 {
		path = args[0]
	}
	dataset, err := norms.Load(path)
	if err != nil {
		return fmt.Errorf("loading norms: %w", err)
	}

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	if _, err := scoring.NewScorer(dataset, config.Default()); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", badStyle.Render("✗"), err)
		return err
	}

	if !quiet {
		defs := types.Definitions()
		sort.SliceStable(defs, func(i, j int) bool { return defs[i].Pillar < defs[j].Pillar })
		for _, def := range defs {
			if def.Strategy == types.StrategyNone {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %-12s %s\n",
				okStyle.Render("✓"), def.ID, def.Unit, def.Pillar)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", okStyle.Render("Dataset complete for all scored tests."))
	}
	return nil
}
