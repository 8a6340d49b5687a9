// Package config loads and validates the scoring configuration:
// pillar and sub-test weights, formula constants, and the Healthspan
// category bands. Everything is overridable from YAML files so the
// scoring framework can be recalibrated without code changes.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/schema"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/types"
)

// weightTolerance is the floating tolerance for weight-sum checks.
const weightTolerance = 1e-6

// Config is the validated, immutable scoring configuration.
type Config struct {
	PillarWeights  map[string]float64            `mapstructure:"pillar_weights"`
	SubTestWeights map[string]map[string]float64 `mapstructure:"subtest_weights"`

	Vitality  VitalityConfig  `mapstructure:"vitality"`
	Cognitive CognitiveConfig `mapstructure:"cognitive"`
	// MinFunctionalAge floors the formula-based functional ages so
	// exceptional performers cannot score below a plausible adult age.
	MinFunctionalAge float64          `mapstructure:"min_functional_age"`
	Metabolic        MetabolicConfig  `mapstructure:"metabolic_transform"`
	Healthspan       HealthspanConfig `mapstructure:"healthspan_index"`
	Categories       []CategoryBand   `mapstructure:"categories"`

	Format      string `mapstructure:"format"`
	Output      string `mapstructure:"output"`
	Quiet       bool   `mapstructure:"quiet"`
	Verbose     bool   `mapstructure:"verbose"`
	Parallel    bool   `mapstructure:"parallel"`
	Concurrency int    `mapstructure:"concurrency"`
}

// VitalityConfig weights the two inputs of the vitality formula.
type VitalityConfig struct {
	VO2Weight  float64 `mapstructure:"vo2_weight"`
	FEV1Weight float64 `mapstructure:"fev1_weight"`
}

// CognitiveConfig holds the SD-to-years conversion constant.
type CognitiveConfig struct {
	YearsPerSD float64 `mapstructure:"years_per_sd"`
}

// MetabolicConfig holds the risk-index to functional-age transform.
// An index at Baseline maps to the chronological age; the full index
// range spans ±Span years around it.
type MetabolicConfig struct {
	Baseline float64 `mapstructure:"baseline"`
	Span     float64 `mapstructure:"span"`
}

// HealthspanConfig holds the Healthspan Index formula constants.
type HealthspanConfig struct {
	BaseScore     float64 `mapstructure:"base_score"`
	PointsPerYear float64 `mapstructure:"points_per_year"`
	MinScore      float64 `mapstructure:"min_score"`
	MaxScore      float64 `mapstructure:"max_score"`
}

// CategoryBand maps an inclusive index range to a category label.
type CategoryBand struct {
	Name string  `mapstructure:"name"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
}

// ValidationError reports a fatal configuration problem. The run does
// not proceed on one.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// configFiles are the recognized documents inside a config directory.
var configFiles = []string{"weights.yaml", "healthspan.yaml"}

// LoadDir loads configuration from a directory containing weights.yaml
// and/or healthspan.yaml, layering file values over the built-in
// defaults. Missing files are fine; malformed ones are fatal.
func LoadDir(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HEALTHSPAN")
	v.AutomaticEnv()

	validator := schema.NewValidator()
	if err := validator.LoadSchemas(); err != nil {
		return nil, err
	}

	read := false
	for _, name := range configFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if errs := validator.ValidateFile(path); len(errs) > 0 {
			return nil, &ValidationError{Field: name, Reason: errs[0].Message}
		}
		v.SetConfigFile(path)
		var err error
		if read {
			err = v.MergeInConfig()
		} else {
			err = v.ReadInConfig()
			read = true
		}
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration with no file overrides.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are static and known to unmarshal.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pillar_weights", map[string]float64{
		"metabolic": 0.30,
		"vitality":  0.25,
		"strength":  0.20,
		"mobility":  0.15,
		"cognitive": 0.10,
	})
	v.SetDefault("subtest_weights", map[string]map[string]float64{
		"strength": {
			"grip_strength": 0.40,
			"sts_power":     0.40,
			"vertical_jump": 0.20,
		},
		"mobility": {
			"gait_speed":        0.30,
			"tug":               0.30,
			"single_leg_stance": 0.20,
			"sit_and_reach":     0.20,
		},
		"cognitive": {
			"processing_speed": 0.50,
			"working_memory":   0.50,
		},
		"metabolic": {
			"apob":         0.25,
			"homa_ir":      0.20,
			"hba1c":        0.20,
			"whtr":         0.15,
			"hscrp":        0.10,
			"body_fat_pct": 0.10,
		},
	})
	v.SetDefault("vitality.vo2_weight", 0.7)
	v.SetDefault("vitality.fev1_weight", 0.3)
	v.SetDefault("cognitive.years_per_sd", 25.0)
	v.SetDefault("min_functional_age", 18.0)
	v.SetDefault("metabolic_transform.baseline", 5.0)
	v.SetDefault("metabolic_transform.span", 30.0)
	v.SetDefault("healthspan_index.base_score", 670.0)
	v.SetDefault("healthspan_index.points_per_year", 6.5)
	v.SetDefault("healthspan_index.min_score", 300.0)
	v.SetDefault("healthspan_index.max_score", 850.0)
	v.SetDefault("categories", []map[string]any{
		{"name": "Critical", "min": 300, "max": 459},
		{"name": "Poor", "min": 460, "max": 549},
		{"name": "Fair", "min": 550, "max": 599},
		{"name": "Average", "min": 600, "max": 649},
		{"name": "Good", "min": 650, "max": 709},
		{"name": "Excellent", "min": 710, "max": 799},
		{"name": "Elite", "min": 800, "max": 850},
	})
	v.SetDefault("format", "console")
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", false)
	v.SetDefault("parallel", false)
	v.SetDefault("concurrency", 10)
}

// Validate checks weight sums, category bands, and the output surface.
func (c *Config) Validate() error {
	if err := checkWeightSum("pillar_weights", c.PillarWeights); err != nil {
		return err
	}
	for name := range c.PillarWeights {
		if !knownPillar(name) {
			return &ValidationError{Field: "pillar_weights." + name, Reason: "unknown pillar"}
		}
	}
	for _, p := range types.Pillars {
		if _, ok := c.PillarWeights[string(p)]; !ok {
			return &ValidationError{Field: "pillar_weights", Reason: fmt.Sprintf("missing weight for pillar %q", p)}
		}
	}
	if err := c.validateSubTestWeights(); err != nil {
		return err
	}
	vitalitySum := c.Vitality.VO2Weight + c.Vitality.FEV1Weight
	if math.Abs(vitalitySum-1.0) > weightTolerance {
		return &ValidationError{
			Field:  "vitality",
			Reason: fmt.Sprintf("vo2_weight + fev1_weight must sum to 1.0, got %g", vitalitySum),
		}
	}

	if c.Cognitive.YearsPerSD <= 0 {
		return &ValidationError{Field: "cognitive.years_per_sd", Reason: "must be positive"}
	}
	if c.MinFunctionalAge < 0 {
		return &ValidationError{Field: "min_functional_age", Reason: "must be non-negative"}
	}
	if c.Metabolic.Baseline <= 0 || c.Metabolic.Span <= 0 {
		return &ValidationError{Field: "metabolic_transform", Reason: "baseline and span must be positive"}
	}
	if c.Healthspan.MinScore >= c.Healthspan.MaxScore {
		return &ValidationError{Field: "healthspan_index", Reason: "min_score must be below max_score"}
	}

	if err := c.validateCategories(); err != nil {
		return err
	}

	switch c.Format {
	case "console", "csv", "json", "xlsx":
	default:
		return &ValidationError{
			Field:  "format",
			Reason: fmt.Sprintf("%q is not one of console, csv, json, xlsx", c.Format),
		}
	}
	if c.Format != "console" && c.Output == "" {
		return &ValidationError{Field: "output", Reason: "an output file is required for non-console formats"}
	}
	if c.Concurrency < 1 {
		return &ValidationError{Field: "concurrency", Reason: "must be at least 1"}
	}
	return nil
}

// validateSubTestWeights checks every weight table against the test
// metadata: keys must be weighted members of their pillar, every
// weighted member must carry a weight, and each table must sum to 1.0.
// A misspelled test id would otherwise leave the real test at weight
// zero and silently skew the pillar's functional age.
func (c *Config) validateSubTestWeights() error {
	for pillar, weights := range c.SubTestWeights {
		if err := checkWeightSum("subtest_weights."+pillar, weights); err != nil {
			return err
		}
		if !knownPillar(pillar) {
			return &ValidationError{Field: "subtest_weights." + pillar, Reason: "unknown pillar"}
		}
		for test := range weights {
			def, ok := types.ByID(test)
			if !ok {
				return &ValidationError{
					Field:  "subtest_weights." + pillar + "." + test,
					Reason: "unknown test id",
				}
			}
			if string(def.Pillar) != pillar {
				return &ValidationError{
					Field:  "subtest_weights." + pillar + "." + test,
					Reason: fmt.Sprintf("test belongs to pillar %q", def.Pillar),
				}
			}
			if !weightedMember(def) {
				return &ValidationError{
					Field:  "subtest_weights." + pillar + "." + test,
					Reason: "test does not take a sub-test weight",
				}
			}
		}
	}

	for _, p := range types.Pillars {
		if p == types.PillarVitality {
			continue // vitality is one combined test, no sub-weights
		}
		weights := c.SubTestWeights[string(p)]
		for _, def := range types.ByPillar(p) {
			if !weightedMember(def) {
				continue
			}
			if _, ok := weights[def.ID]; !ok {
				return &ValidationError{
					Field:  "subtest_weights." + string(p),
					Reason: fmt.Sprintf("missing weight for test %q", def.ID),
				}
			}
		}
	}
	return nil
}

// weightedMember reports whether a test contributes a weighted score
// to its pillar's aggregation.
func weightedMember(def types.TestDefinition) bool {
	switch def.Strategy {
	case types.StrategyStandard, types.StrategyCognitiveSD, types.StrategyMetabolicRisk:
		return true
	default:
		return false
	}
}

func knownPillar(name string) bool {
	for _, p := range types.Pillars {
		if string(p) == name {
			return true
		}
	}
	return false
}

func (c *Config) validateCategories() error {
	if len(c.Categories) == 0 {
		return &ValidationError{Field: "categories", Reason: "at least one category band is required"}
	}
	bands := make([]CategoryBand, len(c.Categories))
	copy(bands, c.Categories)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })

	for i, b := range bands {
		if b.Name == "" {
			return &ValidationError{Field: "categories", Reason: fmt.Sprintf("band %d has no name", i)}
		}
		if b.Min > b.Max {
			return &ValidationError{
				Field:  "categories",
				Reason: fmt.Sprintf("band %q has min %g above max %g", b.Name, b.Min, b.Max),
			}
		}
		if i > 0 && b.Min <= bands[i-1].Max {
			return &ValidationError{
				Field:  "categories",
				Reason: fmt.Sprintf("bands %q and %q overlap", bands[i-1].Name, b.Name),
			}
		}
	}
	if bands[0].Min > c.Healthspan.MinScore || bands[len(bands)-1].Max < c.Healthspan.MaxScore {
		return &ValidationError{
			Field:  "categories",
			Reason: fmt.Sprintf("bands must cover the index range [%g, %g]", c.Healthspan.MinScore, c.Healthspan.MaxScore),
		}
	}
	return nil
}

// Category returns the label for a (clamped) Healthspan Index value.
// Lower bounds are inclusive: a value on a boundary belongs to the
// band that starts there.
func (c *Config) Category(index float64) string {
	bands := make([]CategoryBand, len(c.Categories))
	copy(bands, c.Categories)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })

	name := bands[0].Name
	for _, b := range bands {
		if index >= b.Min {
			name = b.Name
		}
	}
	return name
}

func checkWeightSum(field string, weights map[string]float64) error {
	if len(weights) == 0 {
		return &ValidationError{Field: field, Reason: "no weights configured"}
	}
	sum := 0.0
	for name, w := range weights {
		if w < 0 {
			return &ValidationError{Field: field + "." + name, Reason: "weight must be non-negative"}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("weights must sum to 1.0, got %g", sum)}
	}
	return nil
}
