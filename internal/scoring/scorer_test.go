package scoring

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/config"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// testDataset has two-point linear curves so the expected value at age
// 50 is the midpoint of each pair. The "all" key serves both genders.
const testDataset = `
tests:
  vo2_max:
    all:
      - {age: 30, value: 45.0}
      - {age: 70, value: 29.0}
  grip_strength:
    all:
      - {age: 30, value: 46.0}
      - {age: 70, value: 34.0}
  sts_power:
    all:
      - {age: 30, value: 4.0}
      - {age: 70, value: 2.4}
  vertical_jump:
    all:
      - {age: 30, value: 48.0}
      - {age: 70, value: 24.0}
  gait_speed:
    all:
      - {age: 30, value: 1.40}
      - {age: 70, value: 1.16}
  tug:
    all:
      - {age: 30, value: 6.6}
      - {age: 70, value: 9.4}
  single_leg_stance:
    all:
      - {age: 30, value: 44.0}
      - {age: 70, value: 14.0}
  sit_and_reach:
    all:
      - {age: 30, value: 29.0}
      - {age: 70, value: 15.0}

metabolic_ranges:
  whtr:
    low: "<0.43"
    normal: "0.43-0.52"
    elevated: ">0.53"
  hba1c:
    low: "<5.0"
    normal: "5.0-5.6"
    elevated: ">5.7"
  homa_ir:
    low: "<1.0"
    normal: "1.0-2.0"
    elevated: ">2.5"
  apob:
    low: "<70"
    normal: "70-90"
    elevated: ">100"
  hscrp:
    low: "<1.0"
    normal: "1.0-3.0"
    elevated: ">3.0"

body_fat:
  male:
    - {ages: [20, 79], healthy_max: 22, overweight_max: 28, obese_min: 28}
  female:
    - {ages: [20, 79], healthy_max: 34, overweight_max: 40, obese_min: 40}
`

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	ds, err := norms.Parse([]byte(testDataset))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	s, err := NewScorer(ds, config.Default())
	if err != nil {
		t.Fatalf("NewScorer failed: %v", err)
	}
	return s
}

// onNormClient is a 50-year-old whose every value sits exactly on the
// reference curve, with all metabolic markers in the low-risk band.
func onNormClient() *client.Record {
	rec := client.NewRecord("Reference Client", 50, norms.GenderMale)
	rec.SetValue(types.TestVO2Max, 37.0) // curve value at 50
	rec.SetValue(types.TestFEV1, 100.0)  // exactly at predicted
	rec.SetValue(types.TestGripStrength, 40.0)
	rec.SetValue(types.TestSTSPower, 3.2)
	rec.SetValue(types.TestVerticalJump, 36.0)
	rec.SetValue(types.TestBodyFatPct, 18.0)
	rec.SetValue(types.TestWHtR, 0.40)
	rec.SetValue(types.TestFastingGlucose, 90.0)
	rec.SetValue(types.TestHbA1c, 4.8)
	rec.SetValue(types.TestHOMAIR, 0.8)
	rec.SetValue(types.TestApoB, 60.0)
	rec.SetValue(types.TestHsCRP, 0.5)
	rec.SetValue(types.TestGaitSpeed, 1.28)
	rec.SetValue(types.TestTUG, 8.0)
	rec.SetValue(types.TestSingleLegStance, 29.0)
	rec.SetValue(types.TestSitAndReach, 22.0)
	rec.SetValue(types.TestProcessingSpeed, 0.0)
	rec.SetValue(types.TestWorkingMemory, 0.0)
	return rec
}

func wantMeasure(t *testing.T, m Measure, want float64, label string) {
	t.Helper()
	if !m.Valid {
		t.Fatalf("%s: expected %g, got INCOMPLETE", label, want)
	}
	if math.Abs(m.Value-want) > 1e-9 {
		t.Errorf("%s = %g, want %g", label, m.Value, want)
	}
}

func TestScoreClientOnNorm(t *testing.T) {
	s := newTestScorer(t)
	sc, err := s.ScoreClient(onNormClient())
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}

	for _, p := range types.Pillars {
		wantMeasure(t, sc.Pillars[p], 50, string(p)+" functional age")
	}
	// All low-band markers put the risk index at its baseline.
	wantMeasure(t, sc.MetabolicIndex, 5, "metabolic index")
	wantMeasure(t, sc.BFA, 50, "BFA")
	wantMeasure(t, sc.HealthspanIndex, 670, "Healthspan Index")
	if sc.Category != "Good" {
		t.Errorf("Category = %q, want Good", sc.Category)
	}
}

func TestScoreClientReverseScoredTest(t *testing.T) {
	s := newTestScorer(t)
	rec := onNormClient()
	rec.SetValue(types.TestTUG, 6.6) // the 30-year-old reference time
	sc, err := s.ScoreClient(rec)
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}
	wantMeasure(t, sc.Tests.FunctionalAges[types.TestTUG], 30, "TUG functional age")
}

func TestMissingVO2CascadesToIncomplete(t *testing.T) {
	s := newTestScorer(t)
	rec := onNormClient()
	delete(rec.Raw, types.TestVO2Max)

	sc, err := s.ScoreClient(rec)
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}
	if sc.Pillars[types.PillarVitality].Valid {
		t.Error("Expected vitality pillar INCOMPLETE without VO2 max")
	}
	if sc.BFA.Valid {
		t.Error("Expected BFA INCOMPLETE with an incomplete pillar")
	}
	if sc.HealthspanIndex.Valid {
		t.Error("Expected Healthspan Index INCOMPLETE without BFA")
	}
	if sc.Category != "" {
		t.Errorf("Expected no category, got %q", sc.Category)
	}
	// The other pillars still compute.
	wantMeasure(t, sc.Pillars[types.PillarStrength], 50, "strength functional age")
}

func TestPillarAggregationIsAllOrNothing(t *testing.T) {
	s := newTestScorer(t)
	rec := onNormClient()
	delete(rec.Raw, types.TestVerticalJump)

	sc, err := s.ScoreClient(rec)
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}
	// One missing member blanks the pillar; the remaining weights are
	// never renormalized into a partial average.
	if sc.Pillars[types.PillarStrength].Valid {
		t.Error("Expected strength pillar INCOMPLETE with one member missing")
	}
	wantMeasure(t, sc.Pillars[types.PillarMobility], 50, "mobility functional age")
}

func TestMissingMarkerBlanksMetabolicPillar(t *testing.T) {
	s := newTestScorer(t)
	rec := onNormClient()
	delete(rec.Raw, types.TestApoB)

	sc, err := s.ScoreClient(rec)
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}
	if sc.Pillars[types.PillarMetabolic].Valid {
		t.Error("Expected metabolic pillar INCOMPLETE with a missing marker")
	}
	if sc.MetabolicIndex.Valid {
		t.Error("Expected metabolic index INCOMPLETE with a missing marker")
	}
}

func TestMissingFastingGlucoseDoesNotBlockScoring(t *testing.T) {
	s := newTestScorer(t)
	rec := onNormClient()
	delete(rec.Raw, types.TestFastingGlucose)

	sc, err := s.ScoreClient(rec)
	if err != nil {
		t.Fatalf("ScoreClient failed: %v", err)
	}
	wantMeasure(t, sc.BFA, 50, "BFA")
}

func TestHealthspanExtremes(t *testing.T) {
	s := newTestScorer(t)

	// Exceptional: 30 years younger than chronological caps at 850.
	index, category := s.healthspan(40, NewMeasure(10))
	wantMeasure(t, index, 850, "Healthspan Index")
	if category != "Elite" {
		t.Errorf("Category = %q, want Elite", category)
	}

	// 30 years older than chronological.
	index, category = s.healthspan(40, NewMeasure(70))
	wantMeasure(t, index, 475, "Healthspan Index")
	if category != "Poor" {
		t.Errorf("Category = %q, want Poor", category)
	}

	// Far past the floor still clamps to 300.
	index, category = s.healthspan(30, NewMeasure(120))
	wantMeasure(t, index, 300, "Healthspan Index")
	if category != "Critical" {
		t.Errorf("Category = %q, want Critical", category)
	}

	index, category = s.healthspan(40, Incomplete)
	if index.Valid || category != "" {
		t.Errorf("Expected INCOMPLETE healthspan, got %v %q", index, category)
	}
}

func TestCognitiveFloor(t *testing.T) {
	s := newTestScorer(t)
	rec := client.NewRecord("Sharp", 30, norms.GenderFemale)
	rec.SetValue(types.TestProcessingSpeed, 2.0)

	fa := s.scoreCognitive(rec, types.TestProcessingSpeed)
	// 30 - 2*25 = -20, floored at the minimum adult age.
	wantMeasure(t, fa, 18, "cognitive functional age")
}

func TestVitalityFloor(t *testing.T) {
	s := newTestScorer(t)
	rec := client.NewRecord("Superfit", 30, norms.GenderMale)
	rec.SetValue(types.TestVO2Max, 90.0)
	rec.SetValue(types.TestFEV1, 130.0)

	fa, err := s.scoreVitality(rec)
	if err != nil {
		t.Fatalf("scoreVitality failed: %v", err)
	}
	wantMeasure(t, fa, 18, "vitality functional age")
}

func TestVitalityNeedsBothInputs(t *testing.T) {
	s := newTestScorer(t)
	rec := client.NewRecord("Partial", 50, norms.GenderMale)
	rec.SetValue(types.TestVO2Max, 37.0)

	fa, err := s.scoreVitality(rec)
	if err != nil {
		t.Fatalf("scoreVitality failed: %v", err)
	}
	if fa.Valid {
		t.Error("Expected INCOMPLETE vitality without FEV1")
	}
}

func TestScoreClientRejectsInvalidRecord(t *testing.T) {
	s := newTestScorer(t)
	rec := client.NewRecord("Bad", -5, norms.GenderMale)
	if _, err := s.ScoreClient(rec); err == nil {
		t.Error("Expected error for invalid record")
	}
}

func TestNewScorerRejectsIncompleteDataset(t *testing.T) {
	ds, err := norms.Parse([]byte(`
tests:
  grip_strength:
    male:
      - {age: 30, value: 46.0}
      - {age: 70, value: 34.0}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = NewScorer(ds, config.Default())
	if err == nil {
		t.Fatal("Expected completeness error for missing curves")
	}
	var ce *norms.CompletenessError
	if !errors.As(err, &ce) {
		t.Errorf("Expected CompletenessError, got %T", err)
	}
}

func TestNewScorerRejectsMisorientedCurve(t *testing.T) {
	// A TUG curve falling with age would mean older clients are faster;
	// the dataset was loaded the wrong way round.
	flipped := strings.Replace(testDataset, `  tug:
    all:
      - {age: 30, value: 6.6}
      - {age: 70, value: 9.4}`, `  tug:
    all:
      - {age: 30, value: 9.4}
      - {age: 70, value: 6.6}`, 1)
	ds, err := norms.Parse([]byte(flipped))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := NewScorer(ds, config.Default()); err == nil {
		t.Error("Expected error for a falling TUG curve")
	}

	// Grip strength rising with age fails the other direction.
	flipped = strings.Replace(testDataset, `  grip_strength:
    all:
      - {age: 30, value: 46.0}
      - {age: 70, value: 34.0}`, `  grip_strength:
    all:
      - {age: 30, value: 34.0}
      - {age: 70, value: 46.0}`, 1)
	ds, err = norms.Parse([]byte(flipped))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := NewScorer(ds, config.Default()); err == nil {
		t.Error("Expected error for a rising grip strength curve")
	}
}
