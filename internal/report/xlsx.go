package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes the report as an Excel workbook with one Results
// sheet in Headers order.
type XLSXWriter struct {
	outputFile string
}

// NewXLSXWriter creates an XLSXWriter targeting the given path.
func NewXLSXWriter(outputFile string) *XLSXWriter {
	return &XLSXWriter{outputFile: outputFile}
}

// Write renders the report workbook.
func (w *XLSXWriter) Write(r *Report) error {
	if err := os.MkdirAll(filepath.Dir(w.outputFile), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("renaming results sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, Headers()); err != nil {
		return err
	}
	for i, sc := range r.Clients {
		if err := writeRow(f, sheet, i+2, Row(sc)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.outputFile); err != nil {
		return fmt.Errorf("saving %s: %w", w.outputFile, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, addr, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
