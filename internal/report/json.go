package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/scoring"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// JSONWriter writes the report as structured JSON.
type JSONWriter struct {
	outputFile string
	indent     bool
}

// NewJSONWriter creates a JSONWriter. An empty outputFile targets stdout.
func NewJSONWriter(outputFile string, indent bool) *JSONWriter {
	return &JSONWriter{outputFile: outputFile, indent: indent}
}

// JSONReport is the complete JSON report structure.
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONClient `json:"results"`
}

// JSONHeader contains report metadata.
type JSONHeader struct {
	Tool      string `json:"tool"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains batch statistics.
type JSONSummary struct {
	TotalClients      int    `json:"total_clients"`
	CompleteClients   int    `json:"complete_clients"`
	IncompleteClients int    `json:"incomplete_clients"`
	SkippedSheets     int    `json:"skipped_sheets"`
	Duration          string `json:"duration"`
}

// JSONClient is one client's scores. Incomplete results are null.
type JSONClient struct {
	Name            string              `json:"name"`
	Age             float64             `json:"age"`
	Gender          string              `json:"gender"`
	RawValues       map[string]float64  `json:"raw_values"`
	FunctionalAges  map[string]*float64 `json:"functional_ages"`
	RiskScores      map[string]*float64 `json:"risk_scores"`
	Pillars         map[string]*float64 `json:"pillars"`
	MetabolicIndex  *float64            `json:"metabolic_index"`
	BFA             *float64            `json:"biological_functional_age"`
	HealthspanIndex *float64            `json:"healthspan_index"`
	Category        string              `json:"healthspan_category,omitempty"`
}

// Write marshals the report and writes it to the target file or stdout.
func (w *JSONWriter) Write(r *Report) error {
	out := JSONReport{
		Header: JSONHeader{
			Tool:      "healthspan",
			Source:    r.Source,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			TotalClients:      len(r.Clients),
			CompleteClients:   r.Complete(),
			IncompleteClients: len(r.Clients) - r.Complete(),
			SkippedSheets:     len(r.Skipped),
			Duration:          time.Since(r.StartTime).Round(time.Millisecond).String(),
		},
		Results: make([]JSONClient, len(r.Clients)),
	}

	for i, sc := range r.Clients {
		out.Results[i] = toJSONClient(sc)
	}

	var raw []byte
	var err error
	if w.indent {
		raw, err = json.MarshalIndent(out, "", "  ")
	} else {
		raw, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("marshaling JSON report: %w", err)
	}

	if w.outputFile == "" {
		fmt.Println(string(raw))
		return nil
	}
	if err := os.WriteFile(w.outputFile, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.outputFile, err)
	}
	return nil
}

func toJSONClient(sc *scoring.ScoredClient) JSONClient {
	jc := JSONClient{
		Name:            sc.Client.Name,
		Age:             sc.Client.Age,
		Gender:          string(sc.Client.Gender),
		RawValues:       sc.Client.Raw,
		FunctionalAges:  make(map[string]*float64),
		RiskScores:      make(map[string]*float64),
		Pillars:         make(map[string]*float64),
		MetabolicIndex:  measurePtr(sc.MetabolicIndex),
		BFA:             measurePtr(sc.BFA),
		HealthspanIndex: measurePtr(sc.HealthspanIndex),
		Category:        sc.Category,
	}
	for id, m := range sc.Tests.FunctionalAges {
		jc.FunctionalAges[id] = measurePtr(m)
	}
	for id, m := range sc.Tests.RiskScores {
		jc.RiskScores[id] = measurePtr(m)
	}
	for _, p := range types.Pillars {
		jc.Pillars[string(p)] = measurePtr(sc.Pillars[p])
	}
	return jc
}

func measurePtr(m scoring.Measure) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}
