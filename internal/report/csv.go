package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVWriter writes the report as a CSV file.
type CSVWriter struct {
	outputFile string
}

// NewCSVWriter creates a CSVWriter targeting the given path.
func NewCSVWriter(outputFile string) *CSVWriter {
	return &CSVWriter{outputFile: outputFile}
}

// Write renders the full report, one row per client, in Headers order.
func (w *CSVWriter) Write(r *Report) error {
	if err := os.MkdirAll(filepath.Dir(w.outputFile), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(w.outputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.outputFile, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Headers()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, sc := range r.Clients {
		if err := cw.Write(Row(sc)); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", sc.Client.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
