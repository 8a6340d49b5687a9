// Package types provides the static test metadata shared across the
// codebase. It sits at the bottom of the dependency graph and imports
// no other internal packages.
package types

// Pillar is one of the five physiological domains.
type Pillar string

const (
	PillarVitality  Pillar = "vitality"
	PillarStrength  Pillar = "strength"
	PillarMetabolic Pillar = "metabolic"
	PillarMobility  Pillar = "mobility"
	PillarCognitive Pillar = "cognitive"
)

// Pillars lists the five pillars in report order.
var Pillars = []Pillar{
	PillarVitality,
	PillarStrength,
	PillarMetabolic,
	PillarMobility,
	PillarCognitive,
}

// Strategy selects how a test's raw value becomes a functional age.
type Strategy int

const (
	// StrategyNone marks raw-only values carried through to the report
	// without scoring (fasting glucose).
	StrategyNone Strategy = iota
	// StrategyStandard interpolates against the normative curve.
	StrategyStandard
	// StrategyVitality applies the VO2/FEV1 deficit formula.
	StrategyVitality
	// StrategyMetabolicRisk maps the value to a 0-100 risk score.
	StrategyMetabolicRisk
	// StrategyCognitiveSD converts SD-from-mean into years.
	StrategyCognitiveSD
)

// Test identifiers. These double as workbook row keys, normative
// dataset keys, and configuration keys.
const (
	TestVO2Max          = "vo2_max"
	TestFEV1            = "fev1"
	TestGripStrength    = "grip_strength"
	TestSTSPower        = "sts_power"
	TestVerticalJump    = "vertical_jump"
	TestBodyFatPct      = "body_fat_pct"
	TestWHtR            = "whtr"
	TestFastingGlucose  = "fasting_glucose"
	TestHbA1c           = "hba1c"
	TestHOMAIR          = "homa_ir"
	TestApoB            = "apob"
	TestHsCRP           = "hscrp"
	TestGaitSpeed       = "gait_speed"
	TestTUG             = "tug"
	TestSingleLegStance = "single_leg_stance"
	TestSitAndReach     = "sit_and_reach"
	TestProcessingSpeed = "processing_speed"
	TestWorkingMemory   = "working_memory"
)

// TestDefinition is the static metadata for one clinical test.
type TestDefinition struct {
	ID       string
	Label    string // report column header
	Unit     string
	Pillar   Pillar
	Strategy Strategy
	// Reverse marks tests where a lower raw value indicates better
	// function (time-based tests).
	Reverse bool
}

// definitions is in workbook row order, which is also report column
// order for the raw-value block.
var definitions = []TestDefinition{
	{ID: TestVO2Max, Label: "VO2_Max", Unit: "ml/kg/min", Pillar: PillarVitality, Strategy: StrategyVitality},
	{ID: TestFEV1, Label: "FEV1", Unit: "% predicted", Pillar: PillarVitality, Strategy: StrategyVitality},
	{ID: TestGripStrength, Label: "Grip_Strength", Unit: "kg", Pillar: PillarStrength, Strategy: StrategyStandard},
	{ID: TestSTSPower, Label: "STS_Power", Unit: "W/kg", Pillar: PillarStrength, Strategy: StrategyStandard},
	{ID: TestVerticalJump, Label: "Vertical_Jump", Unit: "cm", Pillar: PillarStrength, Strategy: StrategyStandard},
	{ID: TestBodyFatPct, Label: "Body_Fat_Pct", Unit: "%", Pillar: PillarMetabolic, Strategy: StrategyMetabolicRisk},
	{ID: TestWHtR, Label: "WHtR", Unit: "ratio", Pillar: PillarMetabolic, Strategy: StrategyMetabolicRisk},
	{ID: TestFastingGlucose, Label: "Fasting_Glucose", Unit: "mg/dL", Pillar: PillarMetabolic, Strategy: StrategyNone},
	{ID: TestHbA1c, Label: "HbA1c", Unit: "%", Pillar: PillarMetabolic, Strategy: StrategyMetabolicRisk},
	{ID: TestHOMAIR, Label: "HOMA_IR", Unit: "index", Pillar: PillarMetabolic, Strategy: StrategyMetabolicRisk},
	{ID: TestApoB, Label: "ApoB", Unit: "mg/dL", Pillar: PillarMetabolic, Strategy: StrategyMetabolicRisk},
	{ID: TestHsCRP, Label: "hsCRP", Unit: "mg/L", Pillar: PillarMetabolic, Strategy: StrategyMetabolicRisk},
	{ID: TestGaitSpeed, Label: "Gait_Speed", Unit: "m/s", Pillar: PillarMobility, Strategy: StrategyStandard},
	{ID: TestTUG, Label: "TUG", Unit: "s", Pillar: PillarMobility, Strategy: StrategyStandard, Reverse: true},
	{ID: TestSingleLegStance, Label: "Single_Leg_Stance", Unit: "s", Pillar: PillarMobility, Strategy: StrategyStandard},
	{ID: TestSitAndReach, Label: "Sit_And_Reach", Unit: "cm", Pillar: PillarMobility, Strategy: StrategyStandard},
	{ID: TestProcessingSpeed, Label: "Processing_Speed", Unit: "SD", Pillar: PillarCognitive, Strategy: StrategyCognitiveSD},
	{ID: TestWorkingMemory, Label: "Working_Memory", Unit: "SD", Pillar: PillarCognitive, Strategy: StrategyCognitiveSD},
}

var byID = func() map[string]TestDefinition {
	m := make(map[string]TestDefinition, len(definitions))
	for _, d := range definitions {
		m[d.ID] = d
	}
	return m
}()

// Definitions returns all test definitions in workbook row order.
func Definitions() []TestDefinition {
	out := make([]TestDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// ByID looks up a test definition.
func ByID(id string) (TestDefinition, bool) {
	d, ok := byID[id]
	return d, ok
}

// ByPillar returns the definitions belonging to a pillar, in row order.
func ByPillar(p Pillar) []TestDefinition {
	var out []TestDefinition
	for _, d := range definitions {
		if d.Pillar == p {
			out = append(out, d)
		}
	}
	return out
}
