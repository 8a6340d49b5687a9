package scoring

import (
	"math"
	"testing"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

func TestRiskScore(t *testing.T) {
	low := norms.RiskBand{Min: math.Inf(-1), Max: 90}
	normal := norms.RiskBand{Min: 90, Max: 129}
	elevated := norms.RiskBand{Min: 130, Max: math.Inf(1)}

	tests := []struct {
		value float64
		want  float64
	}{
		{value: 50, want: 5},   // anywhere in the low band
		{value: 90, want: 5},   // low band boundary inclusive
		{value: 110, want: 20}, // halfway through 90..130 ramps 5..35
		{value: 130, want: 35}, // elevated band start
		{value: 169, want: 67.5},
		{value: 500, want: 100}, // far elevated clamps
	}
	for _, tt := range tests {
		if got := RiskScore(tt.value, low, normal, elevated); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RiskScore(%g) = %g, want %g", tt.value, got, tt.want)
		}
	}
}

func TestRiskScoreZeroWidthBands(t *testing.T) {
	// Degenerate bands must not divide by zero.
	b := norms.RiskBand{Min: 5, Max: 5}
	got := RiskScore(5.1, b, b, b)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("Expected finite score for zero-width bands, got %g", got)
	}
	if got < 0 || got > 100 {
		t.Errorf("Expected score within [0, 100], got %g", got)
	}
}

func TestHsCRPScore(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{value: 0, want: 0},
		{value: 0.5, want: 5},
		{value: 1, want: 10},
		{value: 2, want: 30},
		{value: 3, want: 50},
		{value: 6.5, want: 75},
		{value: 10, want: 100},
		{value: 25, want: 100}, // input caps at 10
	}
	for _, tt := range tests {
		if got := HsCRPScore(tt.value); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HsCRPScore(%g) = %g, want %g", tt.value, got, tt.want)
		}
	}
}

func TestMetabolicAgeShift(t *testing.T) {
	s := newTestScorer(t)

	// All markers elevated push the index toward 100 and the metabolic
	// functional age to the +span ceiling.
	rec := onNormClient()
	rec.SetValue(types.TestBodyFatPct, 45.0)
	rec.SetValue(types.TestWHtR, 0.80)
	rec.SetValue(types.TestHbA1c, 9.0)
	rec.SetValue(types.TestHOMAIR, 6.0)
	rec.SetValue(types.TestApoB, 200.0)
	rec.SetValue(types.TestHsCRP, 12.0)

	sc, err := s.ScoreClient(rec)
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}
	// Index 100: delta = clamp((100-5)*(30/5), -30, 30) = 30.
	wantMeasure(t, sc.MetabolicIndex, 100, "metabolic index")
	wantMeasure(t, sc.Pillars[types.PillarMetabolic], 80, "metabolic functional age")
}

func TestBodyFatUsesGenderBands(t *testing.T) {
	s := newTestScorer(t)

	// 30% body fat is elevated for the male bands but healthy for the
	// female bands in the fixture.
	male := client.NewRecord("M", 50, norms.GenderMale)
	male.SetValue(types.TestBodyFatPct, 30.0)
	female := client.NewRecord("F", 50, norms.GenderFemale)
	female.SetValue(types.TestBodyFatPct, 30.0)

	mScore, err := s.scoreMarker(male, types.TestBodyFatPct)
	if err != nil {
		t.Fatalf("scoreMarker failed: %v", err)
	}
	fScore, err := s.scoreMarker(female, types.TestBodyFatPct)
	if err != nil {
		t.Fatalf("scoreMarker failed: %v", err)
	}
	if !mScore.Valid || !fScore.Valid {
		t.Fatal("Expected both scores to compute")
	}
	if mScore.Value <= fScore.Value {
		t.Errorf("Expected male score above female for 30%% body fat, got %g vs %g", mScore.Value, fScore.Value)
	}
	if fScore.Value != 5 {
		t.Errorf("Expected 30%% to be low risk for female bands, got %g", fScore.Value)
	}
}
