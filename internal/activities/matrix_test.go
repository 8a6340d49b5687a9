package activities

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeMatrixWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", addr, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
}

func TestLoadMatrix(t *testing.T) {
	dir := t.TempDir()
	limitsPath := filepath.Join(dir, "limits.xlsx")
	classPath := filepath.Join(dir, "classifications.xlsx")

	writeMatrixWorkbook(t, limitsPath, [][]any{
		{"Activity", "grip_strength", "gait_speed", "tug"},
		{"Hiking", ">30", ">1.0", "<10"},
		{"Swimming", ">25", "", "<12"},
	})
	writeMatrixWorkbook(t, classPath, [][]any{
		{"Activity", "grip_strength", "gait_speed", "tug"},
		{"Hiking", "Supporting", "Critical", "Supporting"},
		{"Swimming", "Critical", "", ""},
	})

	m, err := LoadMatrix(limitsPath, classPath)
	if err != nil {
		t.Fatalf("LoadMatrix failed: %v", err)
	}

	if len(m.Activities) != 2 || m.Activities[0] != "Hiking" {
		t.Errorf("Unexpected activities: %v", m.Activities)
	}
	if len(m.Tests) != 3 {
		t.Errorf("Expected 3 test columns, got %v", m.Tests)
	}

	cell, ok := m.Limit("Hiking", "grip_strength")
	if !ok || cell != ">30" {
		t.Errorf("Limit(Hiking, grip_strength) = %q, %v", cell, ok)
	}
	// Empty limit cells mean the test does not apply to the activity.
	if _, ok := m.Limit("Swimming", "gait_speed"); ok {
		t.Error("Expected empty cell to report no limit")
	}

	if imp := m.Importance("Hiking", "gait_speed"); imp != ImportanceCritical {
		t.Errorf("Importance(Hiking, gait_speed) = %s, want Critical", imp)
	}
	// Unclassified cells default to Supporting.
	if imp := m.Importance("Swimming", "tug"); imp != ImportanceSupporting {
		t.Errorf("Importance(Swimming, tug) = %s, want Supporting", imp)
	}
}

func TestLoadMatrixRejectsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.xlsx")
	writeMatrixWorkbook(t, path, [][]any{
		{"Exercise", "grip_strength"},
		{"Hiking", ">30"},
	})
	if _, err := LoadMatrix(path, ""); err == nil {
		t.Error("Expected error for missing Activity header")
	}
}

func TestLoadMatrixWithoutClassifications(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.xlsx")
	writeMatrixWorkbook(t, path, [][]any{
		{"Activity", "grip_strength"},
		{"Hiking", ">30"},
	})
	m, err := LoadMatrix(path, "")
	if err != nil {
		t.Fatalf("LoadMatrix failed: %v", err)
	}
	if imp := m.Importance("Hiking", "grip_strength"); imp != ImportanceSupporting {
		t.Errorf("Expected Supporting default with no classifications, got %s", imp)
	}
}
