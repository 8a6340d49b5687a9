package scoring

import (
	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// aggregatePillars folds per-test results into the five pillar
// functional ages. Aggregation is strictly all-or-nothing: one missing
// member makes its pillar Incomplete, never a partial average over the
// remaining weights.
func (s *Scorer) aggregatePillars(rec *client.Record, ts TestScores) (map[types.Pillar]Measure, Measure) {
	pillars := make(map[types.Pillar]Measure, len(types.Pillars))

	// Vitality is already a single combined functional age.
	pillars[types.PillarVitality] = ts.FunctionalAges[types.TestVO2Max]

	for _, p := range []types.Pillar{types.PillarStrength, types.PillarMobility, types.PillarCognitive} {
		pillars[p] = s.weightedPillar(p, ts)
	}

	metabolic, index := s.metabolicAge(rec, ts)
	pillars[types.PillarMetabolic] = metabolic
	return pillars, index
}

func (s *Scorer) weightedPillar(p types.Pillar, ts TestScores) Measure {
	weights := s.cfg.SubTestWeights[string(p)]

	sum := 0.0
	for _, def := range types.ByPillar(p) {
		fa, ok := ts.FunctionalAges[def.ID]
		if !ok || !fa.Valid {
			return Incomplete
		}
		// Sub-test weights are validated to sum to 1.0 per pillar, so
		// no renormalization happens here.
		sum += weights[def.ID] * fa.Value
	}
	return NewMeasure(sum)
}

// bfa computes the overall Biological Functional Age as the weighted
// average of the five pillar ages. Any Incomplete pillar propagates.
func (s *Scorer) bfa(pillars map[types.Pillar]Measure) Measure {
	sum := 0.0
	for _, p := range types.Pillars {
		m, ok := pillars[p]
		if !ok || !m.Valid {
			return Incomplete
		}
		sum += s.cfg.PillarWeights[string(p)] * m.Value
	}
	return NewMeasure(sum)
}

// healthspan derives the bounded Healthspan Index and its category from
// the chronological/functional age gap. An Incomplete BFA suppresses
// both; the index is never computed from partial data.
func (s *Scorer) healthspan(age float64, bfa Measure) (Measure, string) {
	if !bfa.Valid {
		return Incomplete, ""
	}
	h := s.cfg.Healthspan
	index := norms.Clamp(h.BaseScore+h.PointsPerYear*(age-bfa.Value), h.MinScore, h.MaxScore)
	return NewMeasure(index), s.cfg.Category(index)
}
