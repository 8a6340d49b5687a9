// Package report renders scored clients into the tabular report
// formats: console, CSV, JSON, and xlsx.
package report

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/scoring"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// incompleteLabel marks computed results suppressed by missing data.
// Raw values that were never measured render as empty cells instead.
const incompleteLabel = "INCOMPLETE"

// Report is the assembled tabular output for one batch run.
type Report struct {
	Source    string
	StartTime time.Time
	Clients   []*scoring.ScoredClient
	Skipped   []string // sheets dropped for invalid client data
}

// Complete counts clients with a defined BFA.
func (r *Report) Complete() int {
	n := 0
	for _, c := range r.Clients {
		if c.BFA.Valid {
			n++
		}
	}
	return n
}

// Headers returns the report column names in output order: client
// metadata, raw test values, pillar functional ages, then the overall
// results.
func Headers() []string {
	headers := []string{"Name", "Age", "Gender"}
	for _, def := range types.Definitions() {
		headers = append(headers, def.Label)
	}
	for _, p := range types.Pillars {
		headers = append(headers, pillarHeader(p))
	}
	return append(headers, "Biological_Functional_Age", "Healthspan_Index", "Healthspan_Category")
}

// Row renders one scored client into the column order of Headers.
func Row(sc *scoring.ScoredClient) []string {
	row := []string{sc.Client.Name, formatNumber(sc.Client.Age), string(sc.Client.Gender)}
	for _, def := range types.Definitions() {
		if v, ok := sc.Client.Value(def.ID); ok {
			row = append(row, formatNumber(v))
		} else {
			row = append(row, "")
		}
	}
	for _, p := range types.Pillars {
		row = append(row, formatMeasure(sc.Pillars[p]))
	}
	row = append(row, formatMeasure(sc.BFA), formatMeasure(sc.HealthspanIndex))
	if sc.Category == "" {
		row = append(row, incompleteLabel)
	} else {
		row = append(row, sc.Category)
	}
	return row
}

func pillarHeader(p types.Pillar) string {
	switch p {
	case types.PillarVitality:
		return "Vitality_Functional_Age"
	case types.PillarStrength:
		return "Strength_Functional_Age"
	case types.PillarMetabolic:
		return "Metabolic_Functional_Age"
	case types.PillarMobility:
		return "Mobility_Functional_Age"
	case types.PillarCognitive:
		return "Cognitive_Functional_Age"
	default:
		return string(p)
	}
}

func formatMeasure(m scoring.Measure) string {
	if !m.Valid {
		return incompleteLabel
	}
	return formatNumber(m.Value)
}

// formatNumber rounds to two decimals and trims trailing zeros, so a
// rerun on identical input is byte-identical.
func formatNumber(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Writer renders a Report in one output format.
type Writer interface {
	Write(r *Report) error
}

// NewWriter returns the writer for a format.
func NewWriter(format, outputFile string, quiet, verbose bool) (Writer, error) {
	switch format {
	case "console":
		return NewConsoleWriter(quiet, verbose), nil
	case "csv":
		return NewCSVWriter(outputFile), nil
	case "json":
		return NewJSONWriter(outputFile, true), nil
	case "xlsx":
		return NewXLSXWriter(outputFile), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
