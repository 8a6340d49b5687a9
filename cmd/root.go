package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	normsPath    string
	configDir    string
	outputFormat string
	outputFile   string
	quiet        bool
	verbose      bool
	parallel     bool
	concurrency  int
)

var rootCmd = &cobra.Command{
	Use:   "healthspan",
	Short: "Healthspan - Biological Functional Age and activity scoring from client workbooks",
	Long: `Healthspan computes Biological Functional Age and the Healthspan Index
(300-850) from client test workbooks, using age/gender normative reference
tables and a weighted pillar hierarchy.

The score command runs the BFA pipeline; activities classifies safe
activities against a limits matrix. Reference data and weights load once
per run and stay immutable while clients are scored.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&normsPath, "norms", "n", "configs/norms.yaml", "Normative dataset file")
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "configs", "Configuration directory")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format (console|csv|json|xlsx)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for non-console formats")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "Score clients concurrently")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 10, "Worker count for --parallel")

	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("parallel", rootCmd.PersistentFlags().Lookup("parallel"))
	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
}
