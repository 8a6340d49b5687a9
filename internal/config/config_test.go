package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default configuration failed validation: %v", err)
	}

	if cfg.PillarWeights["metabolic"] != 0.30 {
		t.Errorf("Expected metabolic pillar weight 0.30, got %g", cfg.PillarWeights["metabolic"])
	}
	if cfg.Vitality.VO2Weight != 0.7 || cfg.Vitality.FEV1Weight != 0.3 {
		t.Errorf("Unexpected vitality weights: %+v", cfg.Vitality)
	}
	if cfg.Cognitive.YearsPerSD != 25 {
		t.Errorf("Expected 25 years per SD, got %g", cfg.Cognitive.YearsPerSD)
	}
	if cfg.MinFunctionalAge != 18 {
		t.Errorf("Expected minimum functional age 18, got %g", cfg.MinFunctionalAge)
	}
	if len(cfg.Categories) != 7 {
		t.Errorf("Expected 7 category bands, got %d", len(cfg.Categories))
	}
}

func TestValidateRejectsBadWeightSums(t *testing.T) {
	cfg := Default()
	cfg.PillarWeights["metabolic"] = 0.50
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for pillar weights not summing to 1.0")
	}

	cfg = Default()
	cfg.SubTestWeights["strength"]["grip_strength"] = 0.90
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for sub-test weights not summing to 1.0")
	}

	cfg = Default()
	cfg.Vitality.VO2Weight = 0.9
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for vitality weights not summing to 1.0")
	}

	cfg = Default()
	cfg.PillarWeights["metabolic"] = -0.30
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative weight")
	}
}

func TestValidateRejectsUnknownWeightKeys(t *testing.T) {
	// A misspelled test id sums to 1.0 but would score the real test
	// at weight zero; it must be a fatal configuration error.
	cfg := Default()
	cfg.SubTestWeights["strength"] = map[string]float64{
		"grip_strength": 0.40,
		"sts_power":     0.40,
		"vertical_jmp":  0.20,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for misspelled test id in sub-test weights")
	}

	cfg = Default()
	cfg.SubTestWeights["strenght"] = map[string]float64{"grip_strength": 1.0}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown pillar in sub-test weights")
	}

	cfg = Default()
	cfg.SubTestWeights["mobility"]["grip_strength"] = 0.0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for test weighted under the wrong pillar")
	}

	cfg = Default()
	cfg.SubTestWeights["metabolic"] = map[string]float64{"fasting_glucose": 1.0}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for weighting an unscored test")
	}

	cfg = Default()
	cfg.PillarWeights["stamina"] = 0.0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown pillar weight key")
	}
}

func TestValidateRequiresEveryWeightedMember(t *testing.T) {
	cfg := Default()
	cfg.SubTestWeights["strength"] = map[string]float64{
		"grip_strength": 0.50,
		"sts_power":     0.50,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for strength table missing vertical_jump")
	}

	cfg = Default()
	delete(cfg.SubTestWeights, "cognitive")
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for absent cognitive weight table")
	}

	cfg = Default()
	delete(cfg.PillarWeights, "mobility")
	cfg.PillarWeights["metabolic"] = 0.45
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing pillar weight")
	}
}

func TestValidateRejectsBadCategories(t *testing.T) {
	cfg := Default()
	cfg.Categories[1].Min = 450 // overlaps Critical (300-459)
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for overlapping bands")
	}

	cfg = Default()
	cfg.Categories = cfg.Categories[:6] // drops Elite, leaves 800-850 uncovered
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for bands not covering the index range")
	}

	cfg = Default()
	cfg.Categories = nil
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for no category bands")
	}
}

func TestValidateOutputSurface(t *testing.T) {
	cfg := Default()
	cfg.Format = "pdf"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported format")
	}

	cfg = Default()
	cfg.Format = "csv"
	cfg.Output = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for non-console format without output file")
	}

	cfg = Default()
	cfg.Format = "csv"
	cfg.Output = "out.csv"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected csv with output file to validate: %v", err)
	}

	cfg = Default()
	cfg.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero concurrency")
	}
}

func TestCategoryBoundaries(t *testing.T) {
	cfg := Default()
	tests := []struct {
		index float64
		want  string
	}{
		{index: 300, want: "Critical"},
		{index: 459, want: "Critical"},
		{index: 460, want: "Poor"},
		{index: 475, want: "Poor"},
		{index: 550, want: "Fair"},
		{index: 600, want: "Average"},
		{index: 650, want: "Good"},
		{index: 670, want: "Good"},
		{index: 710, want: "Excellent"},
		{index: 800, want: "Elite"},
		{index: 850, want: "Elite"},
	}
	for _, tt := range tests {
		if got := cfg.Category(tt.index); got != tt.want {
			t.Errorf("Category(%g) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestLoadDirLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	weights := `
pillar_weights:
  metabolic: 0.40
  vitality: 0.30
  strength: 0.10
  mobility: 0.10
  cognitive: 0.10
`
	if err := os.WriteFile(filepath.Join(dir, "weights.yaml"), []byte(weights), 0644); err != nil {
		t.Fatalf("Failed to write weights.yaml: %v", err)
	}

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if cfg.PillarWeights["metabolic"] != 0.40 {
		t.Errorf("Expected override 0.40, got %g", cfg.PillarWeights["metabolic"])
	}
	// Untouched values keep their defaults.
	if cfg.Healthspan.BaseScore != 670 {
		t.Errorf("Expected default base score 670, got %g", cfg.Healthspan.BaseScore)
	}
	if cfg.SubTestWeights["cognitive"]["working_memory"] != 0.50 {
		t.Errorf("Expected default cognitive weights, got %g", cfg.SubTestWeights["cognitive"]["working_memory"])
	}
}

func TestLoadDirRejectsInvalidWeights(t *testing.T) {
	dir := t.TempDir()
	weights := `
pillar_weights:
  metabolic: 0.90
  vitality: 0.30
  strength: 0.10
  mobility: 0.10
  cognitive: 0.10
`
	if err := os.WriteFile(filepath.Join(dir, "weights.yaml"), []byte(weights), 0644); err != nil {
		t.Fatalf("Failed to write weights.yaml: %v", err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("Expected error for weights summing to 1.5")
	}
}

func TestLoadDirSchemaRejection(t *testing.T) {
	dir := t.TempDir()
	// A weight above 1 violates the schema before Go-level validation.
	weights := `
pillar_weights:
  metabolic: 2.0
`
	if err := os.WriteFile(filepath.Join(dir, "weights.yaml"), []byte(weights), 0644); err != nil {
		t.Fatalf("Failed to write weights.yaml: %v", err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("Expected schema validation error for out-of-range weight")
	}
}

func TestLoadDirEmptyDirUsesDefaults(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir on empty dir failed: %v", err)
	}
	if cfg.Healthspan.MaxScore != 850 {
		t.Errorf("Expected default max score 850, got %g", cfg.Healthspan.MaxScore)
	}
}
