package activities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
)

// Prediction workbook template: metadata in column B (gender row 1,
// name row 2, age row 4), then one test per row from row 5 with the
// test ID in column A and the 5- and 10-year predicted values in
// columns B and C.
const firstTestRow = 5

// ReadClients reads every sheet of a predictions workbook. Sheets
// without a parseable age are skipped and reported.
func ReadClients(path string) ([]*Client, []client.SheetError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening predictions workbook %s: %w", path, err)
	}
	defer f.Close()

	var clients []*Client
	var skipped []client.SheetError
	for _, sheet := range f.GetSheetList() {
		c, err := readClientSheet(f, sheet)
		if err != nil {
			skipped = append(skipped, client.SheetError{Sheet: sheet, Err: err})
			continue
		}
		clients = append(clients, c)
	}

	if len(clients) == 0 && len(skipped) == 0 {
		return nil, nil, fmt.Errorf("no client sheets found in %s", path)
	}
	return clients, skipped, nil
}

func readClientSheet(f *excelize.File, sheet string) (*Client, error) {
	cell := func(addr string) string {
		v, _ := f.GetCellValue(sheet, addr)
		return strings.TrimSpace(v)
	}

	name := cell("B2")
	if name == "" {
		name = sheet
	}
	age, err := strconv.ParseFloat(cell("B4"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: age missing or unparseable", client.ErrInvalidRecord)
	}

	c := &Client{
		Name:   name,
		Age:    age,
		Gender: client.ParseGender(cell("B1")),
		Sheet:  sheet,
		Values: make(map[string]map[string]float64),
	}

	for row := firstTestRow; ; row++ {
		test := cell(fmt.Sprintf("A%d", row))
		if test == "" {
			break
		}
		byHorizon := make(map[string]float64)
		for i, horizon := range Horizons {
			col := string(rune('B' + i))
			if v, err := strconv.ParseFloat(cell(fmt.Sprintf("%s%d", col, row)), 64); err == nil {
				byHorizon[horizon] = v
			}
		}
		if len(byHorizon) > 0 {
			c.Values[test] = byHorizon
		}
	}
	return c, nil
}
