package activities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
)

// Matrix is the parsed activity rules matrix: limit cells and
// importance classifications per (activity, test).
type Matrix struct {
	Activities []string
	Tests      []string

	limits     map[string]map[string]string
	importance map[string]map[string]Importance
}

// Limit returns the raw limit cell for (activity, test).
func (m *Matrix) Limit(activity, test string) (string, bool) {
	cell, ok := m.limits[activity][test]
	return cell, ok && strings.TrimSpace(cell) != ""
}

// Importance returns the classification for (activity, test).
// Unclassified cells count as Supporting.
func (m *Matrix) Importance(activity, test string) Importance {
	if imp, ok := m.importance[activity][test]; ok {
		return imp
	}
	return ImportanceSupporting
}

// LoadMatrix reads the limits matrix workbook and, when given, the
// matching classifications workbook. Both share the same shape: an
// Activity column followed by one column per test.
func LoadMatrix(limitsPath, classificationsPath string) (*Matrix, error) {
	activities, tests, limitCells, err := readGrid(limitsPath)
	if err != nil {
		return nil, fmt.Errorf("reading limits matrix: %w", err)
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("no test columns detected in limits matrix %s", limitsPath)
	}

	m := &Matrix{
		Activities: activities,
		Tests:      tests,
		limits:     limitCells,
		importance: make(map[string]map[string]Importance),
	}

	if classificationsPath != "" {
		_, _, classCells, err := readGrid(classificationsPath)
		if err != nil {
			return nil, fmt.Errorf("reading classifications matrix: %w", err)
		}
		for activity, byTest := range classCells {
			m.importance[activity] = make(map[string]Importance)
			for test, cell := range byTest {
				if imp, ok := inferImportance(cell); ok {
					m.importance[activity][test] = imp
				}
			}
		}
	}

	return m, nil
}

// readGrid reads the first sheet of a matrix workbook into
// activity -> test -> cell form.
func readGrid(path string) (activities, tests []string, cells map[string]map[string]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, nil, fmt.Errorf("matrix %s needs a header row and at least one activity", path)
	}

	header := rows[0]
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), "Activity") {
		return nil, nil, nil, fmt.Errorf("expected an Activity column in %s", path)
	}
	for _, h := range header[1:] {
		if t := strings.TrimSpace(h); t != "" {
			tests = append(tests, t)
		}
	}

	cells = make(map[string]map[string]string)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		activity := strings.TrimSpace(row[0])
		if activity == "" {
			continue
		}
		activities = append(activities, activity)
		byTest := make(map[string]string)
		for i, test := range tests {
			col := i + 1
			if col < len(row) {
				byTest[test] = strings.TrimSpace(row[col])
			}
		}
		cells[activity] = byTest
	}
	return activities, tests, cells, nil
}

func inferImportance(cell string) (Importance, bool) {
	lower := strings.ToLower(cell)
	switch {
	case strings.Contains(lower, "critical"):
		return ImportanceCritical, true
	case strings.Contains(lower, "supporting"):
		return ImportanceSupporting, true
	default:
		return "", false
	}
}

var (
	opRE  = regexp.MustCompile(`(<=|>=|<|>)`)
	numRE = regexp.MustCompile(`(-?\d+(?:\.\d+)?)`)
)

// ResolveLimit parses a limit cell such as ">15", "<9.0%", or
// ">15 (F), >20 (M)" into the LimitSpec applying to this gender. With
// no gender-specific match, the easier threshold wins so an ambiguous
// cell cannot produce a false failure.
func ResolveLimit(cell string, gender norms.Gender) (LimitSpec, bool) {
	parts := splitParts(cell)
	if len(parts) == 0 {
		return LimitSpec{}, false
	}

	type genderedLimit struct {
		gender norms.Gender // "" when unspecified
		spec   LimitSpec
	}
	var parsed []genderedLimit
	for _, p := range parts {
		if spec, ok := parseOne(p); ok {
			parsed = append(parsed, genderedLimit{gender: partGender(p), spec: spec})
		}
	}
	if len(parsed) == 0 {
		// A bare number is treated as a floor threshold.
		if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(cell), "%"), 64); err == nil {
			return LimitSpec{Op: ">=", Value: v}, true
		}
		return LimitSpec{}, false
	}

	for _, gl := range parsed {
		if gl.gender == gender {
			return gl.spec, true
		}
	}

	direct := false
	for _, gl := range parsed {
		if gl.spec.Direct() {
			direct = true
			break
		}
	}
	best := parsed[0].spec
	for _, gl := range parsed[1:] {
		if direct && gl.spec.Value < best.Value {
			best = gl.spec
		}
		if !direct && gl.spec.Value > best.Value {
			best = gl.spec
		}
	}
	return best, true
}

func splitParts(cell string) []string {
	var parts []string
	for _, p := range strings.Split(cell, ",") {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return parts
}

func parseOne(part string) (LimitSpec, bool) {
	op := opRE.FindString(part)
	if op == "" {
		return LimitSpec{}, false
	}
	num := numRE.FindString(strings.ReplaceAll(part, "%", ""))
	if num == "" {
		return LimitSpec{}, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return LimitSpec{}, false
	}
	return LimitSpec{Op: op, Value: v}, true
}

func partGender(part string) norms.Gender {
	lower := strings.ToLower(part)
	switch {
	case strings.Contains(lower, "(m)"):
		return norms.GenderMale
	case strings.Contains(lower, "(f)"):
		return norms.GenderFemale
	default:
		return ""
	}
}
