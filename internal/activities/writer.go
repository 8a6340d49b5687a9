package activities

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetNameLen is Excel's sheet-name limit.
const maxSheetNameLen = 31

// ClientReport pairs one client with their activity assessments.
type ClientReport struct {
	Client   *Client
	Statuses []ActivityStatus
}

// reportHeaders is the column order of each client sheet.
var reportHeaders = []string{
	"Activity",
	"5 Year Critical Failures",
	"5 Year Supporting Failures",
	"5 Year Final Status",
	"10 Year Critical Failures",
	"10 Year Supporting Failures",
	"10 Year Final Status",
}

// WriteReport renders one workbook with a sheet per client. Each row
// is an activity with the 5- and 10-year outcomes side by side.
func WriteReport(reports []ClientReport, outputFile string) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, rep := range reports {
		sheet := sheetName(rep.Client, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}
		if err := writeClientSheet(f, sheet, rep); err != nil {
			return fmt.Errorf("writing sheet for %s: %w", rep.Client.Name, err)
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("saving %s: %w", outputFile, err)
	}
	return nil
}

func writeClientSheet(f *excelize.File, sheet string, rep ClientReport) error {
	if err := setRow(f, sheet, 1, reportHeaders); err != nil {
		return err
	}

	// One output row per activity, horizons merged side by side.
	byActivity := make(map[string][]string)
	var order []string
	for _, st := range rep.Statuses {
		row, ok := byActivity[st.Activity]
		if !ok {
			row = []string{st.Activity, "", "", "", "", "", ""}
			order = append(order, st.Activity)
		}
		offset := 1
		if st.Horizon == "10" {
			offset = 4
		}
		row[offset] = strings.Join(st.CriticalFailures, ", ")
		row[offset+1] = strings.Join(st.SupportingFailures, ", ")
		row[offset+2] = string(st.Status)
		byActivity[st.Activity] = row
	}

	for i, activity := range order {
		if err := setRow(f, sheet, i+2, byActivity[activity]); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, addr, &values)
}

func sheetName(c *Client, index int) string {
	name := fmt.Sprintf("%s_%g", c.Name, c.Age)
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = fmt.Sprintf("Client_%d", index+1)
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}
