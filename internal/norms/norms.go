// Package norms provides the normative reference dataset: expected test
// values by age and gender, loaded once per run and read-only afterwards.
package norms

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gender identifies which normative curve applies to a client.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Point is one normative reference point. Age is the band midpoint when
// the source row covered an age range.
type Point struct {
	Age   float64
	Value float64
}

// Curve is a normative reference curve for one (test, gender) pair,
// sorted by age.
type Curve []Point

// RiskBand is a parsed metabolic risk range. Open-ended bounds are
// represented with ±Inf.
type RiskBand struct {
	Min float64
	Max float64
}

// MarkerRanges holds the three risk bands for one metabolic marker.
type MarkerRanges struct {
	Low      RiskBand
	Normal   RiskBand
	Elevated RiskBand
}

// BodyFatBand holds the body-fat thresholds for one age band.
type BodyFatBand struct {
	MinAge        float64
	MaxAge        float64
	HealthyMax    float64
	OverweightMax float64
	ObeseMin      float64
}

// Dataset is the full normative reference dataset. Immutable after Load.
type Dataset struct {
	curves  map[string]map[Gender]Curve
	Markers map[string]MarkerRanges
	BodyFat map[Gender][]BodyFatBand
}

// CompletenessError reports that the dataset has no usable reference
// curve for a required (test, gender) pair. It is fatal for the run,
// unlike a per-client missing value.
type CompletenessError struct {
	Test   string
	Gender Gender
}

func (e *CompletenessError) Error() string {
	return fmt.Sprintf("normative data incomplete: no reference curve for test %q, gender %q", e.Test, e.Gender)
}

// Curve returns the reference curve for a (test, gender) pair. A curve
// needs at least two points to support interpolation; anything less is
// a completeness error.
func (d *Dataset) Curve(test string, gender Gender) (Curve, error) {
	byGender, ok := d.curves[test]
	if !ok {
		return nil, &CompletenessError{Test: test, Gender: gender}
	}
	c, ok := byGender[gender]
	if !ok || len(c) < 2 {
		return nil, &CompletenessError{Test: test, Gender: gender}
	}
	return c, nil
}

// Tests returns the IDs of all tests with at least one curve.
func (d *Dataset) Tests() []string {
	ids := make([]string, 0, len(d.curves))
	for id := range d.curves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarkerBands returns the risk bands for a metabolic marker.
func (d *Dataset) MarkerBands(marker string) (MarkerRanges, error) {
	mr, ok := d.Markers[marker]
	if !ok {
		return MarkerRanges{}, &CompletenessError{Test: marker}
	}
	return mr, nil
}

// BodyFatBandFor returns the body-fat band covering the given age.
func (d *Dataset) BodyFatBandFor(gender Gender, age float64) (BodyFatBand, error) {
	bands, ok := d.BodyFat[gender]
	if !ok {
		return BodyFatBand{}, &CompletenessError{Test: "body_fat_pct", Gender: gender}
	}
	for _, b := range bands {
		if age >= b.MinAge && age <= b.MaxAge {
			return b, nil
		}
	}
	// Outside the tabulated bands: clamp to the nearest band.
	if age < bands[0].MinAge {
		return bands[0], nil
	}
	return bands[len(bands)-1], nil
}

type fileEntry struct {
	Age   *float64  `yaml:"age"`
	Ages  []float64 `yaml:"ages"`
	Value float64   `yaml:"value"`
}

type fileBodyFat struct {
	Ages          []float64 `yaml:"ages"`
	HealthyMax    float64   `yaml:"healthy_max"`
	OverweightMax float64   `yaml:"overweight_max"`
	ObeseMin      float64   `yaml:"obese_min"`
}

type fileMarker struct {
	Low      string `yaml:"low"`
	Normal   string `yaml:"normal"`
	Elevated string `yaml:"elevated"`
}

type fileDataset struct {
	Tests           map[string]map[string][]fileEntry `yaml:"tests"`
	MetabolicRanges map[string]fileMarker             `yaml:"metabolic_ranges"`
	BodyFat         map[string][]fileBodyFat          `yaml:"body_fat"`
}

// Load reads a normative dataset from a YAML file. Range-based rows are
// converted to their midpoint age; curves are sorted by age.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading normative dataset: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Dataset from raw YAML.
func Parse(raw []byte) (*Dataset, error) {
	var fd fileDataset
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parsing normative dataset: %w", err)
	}

	ds := &Dataset{
		curves:  make(map[string]map[Gender]Curve),
		Markers: make(map[string]MarkerRanges),
		BodyFat: make(map[Gender][]BodyFatBand),
	}

	for test, byGender := range fd.Tests {
		curves := make(map[Gender]Curve)
		for genderKey, entries := range byGender {
			curve := make(Curve, 0, len(entries))
			for i, e := range entries {
				age, err := entryAge(e)
				if err != nil {
					return nil, fmt.Errorf("test %q, %s entry %d: %w", test, genderKey, i, err)
				}
				curve = append(curve, Point{Age: age, Value: e.Value})
			}
			sort.Slice(curve, func(i, j int) bool { return curve[i].Age < curve[j].Age })

			switch strings.ToLower(genderKey) {
			case "male":
				curves[GenderMale] = curve
			case "female":
				curves[GenderFemale] = curve
			case "all":
				// No gender split: the same curve serves both.
				curves[GenderMale] = curve
				curves[GenderFemale] = curve
			default:
				return nil, fmt.Errorf("test %q: unknown gender key %q", test, genderKey)
			}
		}
		ds.curves[test] = curves
	}

	for marker, fm := range fd.MetabolicRanges {
		mr, err := parseMarker(fm)
		if err != nil {
			return nil, fmt.Errorf("metabolic marker %q: %w", marker, err)
		}
		ds.Markers[marker] = mr
	}

	for genderKey, bands := range fd.BodyFat {
		var gender Gender
		switch strings.ToLower(genderKey) {
		case "male":
			gender = GenderMale
		case "female":
			gender = GenderFemale
		default:
			return nil, fmt.Errorf("body_fat: unknown gender key %q", genderKey)
		}
		parsed := make([]BodyFatBand, 0, len(bands))
		for i, b := range bands {
			if len(b.Ages) != 2 {
				return nil, fmt.Errorf("body_fat %s band %d: ages must be a [min, max] pair", genderKey, i)
			}
			parsed = append(parsed, BodyFatBand{
				MinAge:        b.Ages[0],
				MaxAge:        b.Ages[1],
				HealthyMax:    b.HealthyMax,
				OverweightMax: b.OverweightMax,
				ObeseMin:      b.ObeseMin,
			})
		}
		sort.Slice(parsed, func(i, j int) bool { return parsed[i].MinAge < parsed[j].MinAge })
		ds.BodyFat[gender] = parsed
	}

	return ds, nil
}

func entryAge(e fileEntry) (float64, error) {
	switch {
	case e.Age != nil && len(e.Ages) > 0:
		return 0, fmt.Errorf("entry has both age and ages")
	case e.Age != nil:
		return *e.Age, nil
	case len(e.Ages) == 2:
		return (e.Ages[0] + e.Ages[1]) / 2, nil
	default:
		return 0, fmt.Errorf("entry needs age or an ages [min, max] pair")
	}
}

func parseMarker(fm fileMarker) (MarkerRanges, error) {
	low, err := ParseRange(fm.Low)
	if err != nil {
		return MarkerRanges{}, fmt.Errorf("low band: %w", err)
	}
	normal, err := ParseRange(fm.Normal)
	if err != nil {
		return MarkerRanges{}, fmt.Errorf("normal band: %w", err)
	}
	elevated, err := ParseRange(fm.Elevated)
	if err != nil {
		return MarkerRanges{}, fmt.Errorf("elevated band: %w", err)
	}
	return MarkerRanges{Low: low, Normal: normal, Elevated: elevated}, nil
}

// ParseRange parses a risk range string such as "<90", ">130",
// "90-129" or "4.0 - 5.4" into a RiskBand. Open bounds become ±Inf.
func ParseRange(s string) (RiskBand, error) {
	cleaned := strings.NewReplacer("–", "-", "—", "-", " ", "", "%", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return RiskBand{}, fmt.Errorf("empty range")
	}

	switch {
	case strings.HasPrefix(cleaned, "<"):
		v, err := strconv.ParseFloat(strings.TrimLeft(cleaned, "<="), 64)
		if err != nil {
			return RiskBand{}, fmt.Errorf("parsing range %q: %w", s, err)
		}
		return RiskBand{Min: math.Inf(-1), Max: v}, nil
	case strings.HasPrefix(cleaned, ">"):
		v, err := strconv.ParseFloat(strings.TrimLeft(cleaned, ">="), 64)
		if err != nil {
			return RiskBand{}, fmt.Errorf("parsing range %q: %w", s, err)
		}
		return RiskBand{Min: v, Max: math.Inf(1)}, nil
	case strings.Contains(cleaned, "-"):
		parts := strings.SplitN(cleaned, "-", 2)
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return RiskBand{}, fmt.Errorf("parsing range %q: %w", s, err)
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return RiskBand{}, fmt.Errorf("parsing range %q: %w", s, err)
		}
		return RiskBand{Min: lo, Max: hi}, nil
	default:
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return RiskBand{}, fmt.Errorf("parsing range %q: %w", s, err)
		}
		return RiskBand{Min: v, Max: v}, nil
	}
}
