// Package activities classifies which activities are safe for a
// client by assessing predicted exercise-capability values against an
// activity limits matrix.
package activities

import (
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
)

// Importance says how a test counts toward an activity's status.
type Importance string

const (
	ImportanceCritical   Importance = "Critical"
	ImportanceSupporting Importance = "Supporting"
)

// Zone is the traffic-light classification of one test against its limit.
type Zone string

const (
	ZoneRed     Zone = "RED"
	ZoneYellow  Zone = "YELLOW"
	ZoneGreen   Zone = "GREEN"
	ZoneMissing Zone = "MISSING"
)

// Horizons are the projection horizons assessed, in years.
var Horizons = []string{"5", "10"}

// LimitSpec is one parsed limit cell: an operator and threshold.
type LimitSpec struct {
	Op    string // ">", ">=", "<", "<="
	Value float64
}

// Direct reports whether higher client values are better for this limit.
func (l LimitSpec) Direct() bool {
	return l.Op == ">" || l.Op == ">="
}

// TestAssessment is one test evaluated against one activity limit.
type TestAssessment struct {
	Test       string
	Importance Importance
	Limit      LimitSpec
	Value      *float64
	PI         *float64
	Zone       Zone
}

// ActivityStatus is the aggregated result for one activity at one horizon.
type ActivityStatus struct {
	Activity           string
	Horizon            string
	Status             Zone
	CriticalFailures   []string
	SupportingFailures []string
}

// Client is one client's predicted capability values per horizon.
type Client struct {
	Name   string
	Age    float64
	Gender norms.Gender
	Sheet  string
	// Values maps test -> horizon -> predicted value.
	Values map[string]map[string]float64
}

// Value returns the predicted value for a test at a horizon.
func (c *Client) Value(test, horizon string) (float64, bool) {
	byHorizon, ok := c.Values[test]
	if !ok {
		return 0, false
	}
	v, ok := byHorizon[horizon]
	return v, ok
}

// Thresholds holds the PI zone boundaries: a PI below RedBelow is RED,
// up to YellowHigh is YELLOW, above is GREEN.
type Thresholds struct {
	RedBelow   float64
	YellowHigh float64
}

// AggregationRules controls how supporting REDs escalate an activity.
type AggregationRules struct {
	// SupportingRedForRed: strictly more supporting REDs than this is RED.
	SupportingRedForRed int
	// SupportingRedForYellow: exactly this many supporting REDs is YELLOW.
	SupportingRedForYellow int
}

// DefaultThresholds are the published zone boundaries.
var DefaultThresholds = Thresholds{RedBelow: 90, YellowHigh: 110}

// DefaultRules are the published aggregation rules.
var DefaultRules = AggregationRules{SupportingRedForRed: 3, SupportingRedForYellow: 2}
