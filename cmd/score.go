package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/config"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/discovery"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/pipeline"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/report"
)

var scoreCmd = &cobra.Command{
	Use:   "score [workbook|directory]",
	Short: "Score client workbooks and compute Healthspan Index",
	Long: `Score reads one client workbook (or every workbook under a directory),
converts each raw test value into a functional age against the normative
dataset, aggregates pillar ages into Biological Functional Age, and maps
the result onto the 300-850 Healthspan Index.

Sheets with unusable metadata are skipped and reported; a client with a
missing test value gets INCOMPLETE for every score that depends on it.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dataset, err := norms.Load(normsPath)
	if err != nil {
		return fmt.Errorf("loading norms: %w", err)
	}

	runner, err := pipeline.NewRunner(cfg, dataset)
	if err != nil {
		return err
	}

	workbooks, err := resolveWorkbooks(args[0])
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(cfg.Format, cfg.Output, cfg.Quiet, cfg.Verbose)
	if err != nil {
		return err
	}

	for _, wb := range workbooks {
		rep, err := runner.Run(wb)
		if err != nil {
			return fmt.Errorf("scoring %s: %w", wb, err)
		}
		if err := writer.Write(rep); err != nil {
			return fmt.Errorf("writing report for %s: %w", wb, err)
		}
	}
	return nil
}

// resolveWorkbooks expands a directory argument into the workbooks below
// it, or returns the single path as-is.
func resolveWorkbooks(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		if !discovery.MatchesWorkbook(path) {
			return nil, fmt.Errorf("%s is not an Excel workbook", path)
		}
		return []string{path}, nil
	}
	workbooks, err := discovery.FindWorkbooks(path)
	if err != nil {
		return nil, err
	}
	if len(workbooks) == 0 {
		return nil, fmt.Errorf("no workbooks found under %s", path)
	}
	return workbooks, nil
}

// loadConfig builds the effective configuration from the config directory
// and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		cfg = config.Default()
	} else {
		loaded, err := config.LoadDir(configDir)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("format") || cmd.InheritedFlags().Changed("format") {
		cfg.Format = outputFormat
	} else if cfg.Format == "" {
		cfg.Format = outputFormat
	}
	if outputFile != "" {
		cfg.Output = outputFile
	}
	cfg.Quiet = cfg.Quiet || quiet
	cfg.Verbose = cfg.Verbose || verbose
	cfg.Parallel = cfg.Parallel || parallel
	if cmd.Flags().Changed("concurrency") || cmd.InheritedFlags().Changed("concurrency") {
		cfg.Concurrency = concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
