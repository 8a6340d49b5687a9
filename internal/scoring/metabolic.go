package scoring

import (
	"math"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// rangeEpsilon guards band arithmetic against zero-width ranges.
const rangeEpsilon = 1e-6

// scoreMarker maps one metabolic raw value onto the 0-100 risk scale.
// hsCRP and body fat have dedicated band sources; the rest use the
// dataset's marker ranges.
func (s *Scorer) scoreMarker(rec *client.Record, id string) (Measure, error) {
	value, ok := rec.Value(id)
	if !ok {
		return Incomplete, nil
	}

	switch id {
	case types.TestHsCRP:
		return NewMeasure(HsCRPScore(value)), nil
	case types.TestBodyFatPct:
		band, err := s.norms.BodyFatBandFor(rec.Gender, rec.Age)
		if err != nil {
			return Incomplete, err
		}
		low := norms.RiskBand{Min: math.Inf(-1), Max: band.HealthyMax}
		normal := norms.RiskBand{Min: band.HealthyMax, Max: band.OverweightMax}
		elevated := norms.RiskBand{Min: band.ObeseMin, Max: math.Inf(1)}
		return NewMeasure(RiskScore(value, low, normal, elevated)), nil
	default:
		bands, err := s.norms.MarkerBands(id)
		if err != nil {
			return Incomplete, err
		}
		return NewMeasure(RiskScore(value, bands.Low, bands.Normal, bands.Elevated)), nil
	}
}

// RiskScore maps a raw marker value onto 0-100 using three risk bands:
// anything in the low band scores 5, the normal band ramps linearly
// 5..35, and the elevated band ramps 35..100 over twice the normal
// band's width, clamped at 100.
func RiskScore(value float64, low, normal, elevated norms.RiskBand) float64 {
	span := math.Max(normal.Max-low.Max, rangeEpsilon)

	switch {
	case value <= low.Max:
		return 5.0
	case value < elevated.Min:
		den := math.Max(elevated.Min-low.Max, rangeEpsilon)
		return 5.0 + 30.0*(value-low.Max)/den
	default:
		score := 35.0 + 65.0*(value-elevated.Min)/(2*span)
		return norms.Clamp(score, 0, 100)
	}
}

// HsCRPScore is the dedicated hsCRP transform: below 1 mg/L scales
// 0..10, 1..3 scales 10..50, and 3..10 scales 50..100 with the input
// capped at 10.
func HsCRPScore(v float64) float64 {
	switch {
	case v < 1:
		return 10.0 * v
	case v < 3:
		return 10.0 + 40.0*(v-1.0)/2.0
	default:
		return 50.0 + 50.0*(math.Min(v, 10.0)-3.0)/7.0
	}
}

// metabolicAge folds the six marker risk scores into one weighted risk
// index and converts that single index to a functional age. The pillar
// is strictly all-or-nothing: any missing marker makes it Incomplete.
func (s *Scorer) metabolicAge(rec *client.Record, ts TestScores) (age, index Measure) {
	weights := s.cfg.SubTestWeights[string(types.PillarMetabolic)]

	idx := 0.0
	for _, def := range types.ByPillar(types.PillarMetabolic) {
		if def.Strategy != types.StrategyMetabolicRisk {
			continue
		}
		score, ok := ts.RiskScores[def.ID]
		if !ok || !score.Valid {
			return Incomplete, Incomplete
		}
		idx += weights[def.ID] * score.Value
	}

	// Index at the baseline equals the chronological age; the full
	// index range maps onto ±span years.
	baseline := s.cfg.Metabolic.Baseline
	span := s.cfg.Metabolic.Span
	delta := norms.Clamp((idx-baseline)*(span/baseline), -span, span)
	fa := math.Max(s.cfg.MinFunctionalAge, rec.Age+delta)
	return NewMeasure(fa), NewMeasure(idx)
}
