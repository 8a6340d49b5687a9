package scoring

import (
	"fmt"
	"math"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/config"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// TestScores holds per-test results for one client: functional ages
// for the interpolated, vitality, and cognitive tests, and 0-100 risk
// scores for the metabolic markers. Missing raw values stay Incomplete.
type TestScores struct {
	FunctionalAges map[string]Measure
	RiskScores     map[string]Measure
}

// ScoredClient is the immutable result of scoring one client.
type ScoredClient struct {
	Client          *client.Record
	Tests           TestScores
	Pillars         map[types.Pillar]Measure
	MetabolicIndex  Measure
	BFA             Measure
	HealthspanIndex Measure
	Category        string
}

// Scorer evaluates clients against an immutable normative dataset and
// configuration. One Scorer serves a whole batch; it holds no per-client
// state, so concurrent ScoreClient calls are safe.
type Scorer struct {
	norms *norms.Dataset
	cfg   *config.Config
}

// NewScorer builds a Scorer, verifying up front that the dataset has a
// reference curve or risk bands for every scored test and both genders.
// A gap here is a data-completeness error and aborts the run; it is not
// a per-client condition.
func NewScorer(ds *norms.Dataset, cfg *config.Config) (*Scorer, error) {
	for _, def := range types.Definitions() {
		switch def.Strategy {
		case types.StrategyStandard:
			for _, g := range []norms.Gender{norms.GenderMale, norms.GenderFemale} {
				curve, err := ds.Curve(def.ID, g)
				if err != nil {
					return nil, err
				}
				if err := checkOrientation(def, g, curve); err != nil {
					return nil, err
				}
			}
		case types.StrategyVitality:
			if def.ID != types.TestVO2Max {
				continue // FEV1 is % predicted, no curve needed
			}
			for _, g := range []norms.Gender{norms.GenderMale, norms.GenderFemale} {
				if _, err := ds.Curve(types.TestVO2Max, g); err != nil {
					return nil, err
				}
			}
		case types.StrategyMetabolicRisk:
			if def.ID == types.TestBodyFatPct {
				for _, g := range []norms.Gender{norms.GenderMale, norms.GenderFemale} {
					if _, err := ds.BodyFatBandFor(g, 40); err != nil {
						return nil, err
					}
				}
				continue
			}
			if _, err := ds.MarkerBands(def.ID); err != nil {
				return nil, err
			}
		}
	}
	return &Scorer{norms: ds, cfg: cfg}, nil
}

// checkOrientation verifies a reference curve runs the direction the
// test declares: values fall with age for higher-is-better tests and
// rise with age for time-based ones. A curve loaded the wrong way
// round would invert every functional age it produces.
func checkOrientation(def types.TestDefinition, gender norms.Gender, curve norms.Curve) error {
	first, last := curve[0].Value, curve[len(curve)-1].Value
	rising := last > first
	if rising != def.Reverse {
		want := "fall"
		if def.Reverse {
			want = "rise"
		}
		return fmt.Errorf("normative curve for %q (%s, %s): values must %s with age",
			def.ID, def.Unit, gender, want)
	}
	return nil
}

// ScoreClient runs the full per-client transformation: raw values to
// per-test results, pillar functional ages, BFA, and Healthspan Index.
func (s *Scorer) ScoreClient(rec *client.Record) (*ScoredClient, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	tests, err := s.scoreTests(rec)
	if err != nil {
		return nil, err
	}

	sc := &ScoredClient{
		Client: rec,
		Tests:  tests,
	}
	sc.Pillars, sc.MetabolicIndex = s.aggregatePillars(rec, tests)
	sc.BFA = s.bfa(sc.Pillars)
	sc.HealthspanIndex, sc.Category = s.healthspan(rec.Age, sc.BFA)
	return sc, nil
}

func (s *Scorer) scoreTests(rec *client.Record) (TestScores, error) {
	ts := TestScores{
		FunctionalAges: make(map[string]Measure),
		RiskScores:     make(map[string]Measure),
	}

	for _, def := range types.Definitions() {
		switch def.Strategy {
		case types.StrategyStandard:
			fa, err := s.scoreStandard(rec, def)
			if err != nil {
				return TestScores{}, err
			}
			ts.FunctionalAges[def.ID] = fa
		case types.StrategyCognitiveSD:
			ts.FunctionalAges[def.ID] = s.scoreCognitive(rec, def.ID)
		case types.StrategyMetabolicRisk:
			score, err := s.scoreMarker(rec, def.ID)
			if err != nil {
				return TestScores{}, err
			}
			ts.RiskScores[def.ID] = score
		}
	}

	// Vitality is one test with two raw inputs; its functional age is
	// keyed under the VO2 max ID.
	fa, err := s.scoreVitality(rec)
	if err != nil {
		return TestScores{}, err
	}
	ts.FunctionalAges[types.TestVO2Max] = fa

	return ts, nil
}

func (s *Scorer) scoreStandard(rec *client.Record, def types.TestDefinition) (Measure, error) {
	value, ok := rec.Value(def.ID)
	if !ok {
		return Incomplete, nil
	}
	curve, err := s.norms.Curve(def.ID, rec.Gender)
	if err != nil {
		return Incomplete, err
	}
	return NewMeasure(curve.AgeFor(value, rec.Age)), nil
}

// scoreVitality applies the deficit formula: the client's VO2 max is
// compared to the age/gender-expected norm, FEV1 to 100% predicted,
// and the weighted shortfall converts to years at 100 years per unit.
func (s *Scorer) scoreVitality(rec *client.Record) (Measure, error) {
	vo2, okVO2 := rec.Value(types.TestVO2Max)
	fev1, okFEV1 := rec.Value(types.TestFEV1)
	if !okVO2 || !okFEV1 {
		return Incomplete, nil
	}

	curve, err := s.norms.Curve(types.TestVO2Max, rec.Gender)
	if err != nil {
		return Incomplete, err
	}
	vo2Norm := curve.ValueAt(rec.Age)
	if vo2Norm <= 0 {
		return Incomplete, &norms.CompletenessError{Test: types.TestVO2Max, Gender: rec.Gender}
	}

	performance := (vo2/vo2Norm)*s.cfg.Vitality.VO2Weight + (fev1/100.0)*s.cfg.Vitality.FEV1Weight
	fa := rec.Age + (1.0-performance)*100.0
	return NewMeasure(math.Max(s.cfg.MinFunctionalAge, fa)), nil
}

// scoreCognitive converts an SD-from-mean value into years: each SD of
// surplus makes the functional age younger by YearsPerSD, floored at
// the configured minimum.
func (s *Scorer) scoreCognitive(rec *client.Record, id string) Measure {
	sd, ok := rec.Value(id)
	if !ok {
		return Incomplete
	}
	fa := rec.Age - sd*s.cfg.Cognitive.YearsPerSD
	return NewMeasure(math.Max(s.cfg.MinFunctionalAge, fa))
}
