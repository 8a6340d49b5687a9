package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/activities"
)

var (
	limitsPath          string
	classificationsPath string
	activitiesOutput    string
)

var activitiesCmd = &cobra.Command{
	Use:   "activities [predictions-workbook]",
	Short: "Classify safe activities against the limits matrix",
	Long: `Activities reads a predictions workbook holding each client's projected
test values at the 5-year and 10-year horizons, compares every value
against the activity limits matrix, and classifies each activity as
GREEN, YELLOW, or RED per client and horizon.

A failed critical test makes an activity RED outright; supporting tests
escalate by count. Missing critical values degrade to YELLOW rather
than passing silently.`,
	Args: cobra.ExactArgs(1),
	RunE: runActivities,
}

func init() {
	activitiesCmd.Flags().StringVar(&limitsPath, "limits", "configs/activity_limits.xlsx", "Activity limits matrix workbook")
	activitiesCmd.Flags().StringVar(&classificationsPath, "classifications", "", "Test classifications workbook (defaults to the limits workbook)")
	activitiesCmd.Flags().StringVar(&activitiesOutput, "report", "activity_report.xlsx", "Report workbook to write")
	rootCmd.AddCommand(activitiesCmd)
}

func runActivities(cmd *cobra.Command, args []string) error {
	classifications := classificationsPath
	if classifications == "" {
		classifications = limitsPath
	}

	matrix, err := activities.LoadMatrix(limitsPath, classifications)
	if err != nil {
		return fmt.Errorf("loading limits matrix: %w", err)
	}

	clients, skipped, err := activities.ReadClients(args[0])
	if err != nil {
		return fmt.Errorf("reading predictions: %w", err)
	}
	for _, s := range skipped {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping sheet %s: %v\n", s.Sheet, s.Err)
		}
	}
	if len(clients) == 0 {
		return fmt.Errorf("no usable client sheets in %s", args[0])
	}

	assessor := activities.NewAssessor(matrix)
	reports := make([]activities.ClientReport, 0, len(clients))
	for _, c := range clients {
		reports = append(reports, activities.ClientReport{
			Client:   c,
			Statuses: assessor.Assess(c),
		})
	}

	if err := activities.WriteReport(reports, activitiesOutput); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Assessed %d client(s) across %d activities: %s\n",
			len(reports), len(matrix.Activities), activitiesOutput)
	}
	return nil
}
