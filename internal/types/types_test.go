package types

import "testing"

func TestDefinitionsCoverAllPillars(t *testing.T) {
	counts := map[Pillar]int{}
	for _, d := range Definitions() {
		counts[d.Pillar]++
	}
	want := map[Pillar]int{
		PillarVitality:  2,
		PillarStrength:  3,
		PillarMetabolic: 7,
		PillarMobility:  4,
		PillarCognitive: 2,
	}
	for p, n := range want {
		if counts[p] != n {
			t.Errorf("Pillar %s has %d tests, want %d", p, counts[p], n)
		}
	}
}

func TestByID(t *testing.T) {
	def, ok := ByID(TestTUG)
	if !ok {
		t.Fatal("Expected TUG definition")
	}
	if !def.Reverse {
		t.Error("Expected TUG to be a reverse-scored test")
	}
	if def.Pillar != PillarMobility {
		t.Errorf("Expected TUG in mobility, got %s", def.Pillar)
	}

	if _, ok := ByID("bench_press"); ok {
		t.Error("Expected unknown test to miss")
	}
}

func TestFastingGlucoseIsUnscored(t *testing.T) {
	def, ok := ByID(TestFastingGlucose)
	if !ok {
		t.Fatal("Expected fasting glucose definition")
	}
	if def.Strategy != StrategyNone {
		t.Error("Expected fasting glucose to carry through unscored")
	}
}

func TestDefinitionsReturnsCopy(t *testing.T) {
	defs := Definitions()
	defs[0].ID = "mutated"
	if Definitions()[0].ID == "mutated" {
		t.Error("Definitions must not expose internal state")
	}
}
