package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// Assessment workbook template: fixed rows in column B, one sheet per
// client. Rows 5 onward hold the test values in types.Definitions order.
const (
	rowGender    = 1
	rowName      = 2
	rowAge       = 4
	rowFirstTest = 5
	valueColumn  = "B"
)

// SheetError records a sheet that could not be read as a client.
type SheetError struct {
	Sheet string
	Err   error
}

func (e SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

// ReadWorkbook reads every sheet of an assessment workbook. Sheets
// with malformed metadata are returned as SheetErrors rather than
// failing the batch.
func ReadWorkbook(path string) ([]*Record, []SheetError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening client workbook %s: %w", path, err)
	}
	defer f.Close()

	var records []*Record
	var skipped []SheetError
	for _, sheet := range f.GetSheetList() {
		rec, err := readSheet(f, sheet)
		if err != nil {
			skipped = append(skipped, SheetError{Sheet: sheet, Err: err})
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 && len(skipped) == 0 {
		return nil, nil, fmt.Errorf("no client sheets found in %s", path)
	}
	return records, skipped, nil
}

func readSheet(f *excelize.File, sheet string) (*Record, error) {
	cell := func(row int) string {
		v, _ := f.GetCellValue(sheet, fmt.Sprintf("%s%d", valueColumn, row))
		return strings.TrimSpace(v)
	}

	name := cell(rowName)
	if name == "" {
		name = sheet
	}

	age, ok := parseFloat(cell(rowAge))
	if !ok {
		return nil, fmt.Errorf("%w: age missing or unparseable", ErrInvalidRecord)
	}

	rec := NewRecord(name, age, ParseGender(cell(rowGender)))
	rec.Sheet = sheet
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	for i, def := range types.Definitions() {
		if v, ok := parseFloat(cell(rowFirstTest + i)); ok {
			rec.SetValue(def.ID, v)
		}
	}
	return rec, nil
}

// ParseGender interprets a free-form gender cell. Unrecognized values
// default to Male, matching the source workbook template.
func ParseGender(s string) norms.Gender {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(lower, "female"):
		return norms.GenderFemale
	case strings.Contains(lower, "male"):
		return norms.GenderMale
	default:
		return norms.GenderMale
	}
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
