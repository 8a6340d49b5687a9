package activities

import (
	"math"
)

// ComputePI converts a client value and a limit into a performance
// index: 100 means exactly at the limit, higher is better. Direct
// limits compare value/limit; inverse limits (time caps) flip the
// ratio. Non-positive inputs fall back to a difference-based form so
// the index stays defined.
func ComputePI(value *float64, limit LimitSpec) *float64 {
	if value == nil {
		return nil
	}
	v, lim := *value, limit.Value
	direct := limit.Direct()

	var pi float64
	switch {
	case direct && lim > 0 && v > 0:
		pi = (v / lim) * 100.0
	case !direct && lim > 0 && v > 0:
		pi = (lim / v) * 100.0
	default:
		denom := math.Abs(lim)
		if denom == 0 {
			denom = math.Max(math.Abs(v), 1e-9)
		}
		if direct {
			pi = ((v-lim)/denom)*100.0 + 100.0
		} else {
			pi = ((lim-v)/denom)*100.0 + 100.0
		}
	}
	return &pi
}

// ZoneFromPI classifies a performance index against the thresholds.
// A nil PI (missing prediction) is MISSING.
func ZoneFromPI(pi *float64, t Thresholds) Zone {
	if pi == nil {
		return ZoneMissing
	}
	switch {
	case *pi < t.RedBelow:
		return ZoneRed
	case *pi <= t.YellowHigh:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}

// ApplyRules aggregates per-test zones into one activity status. Any
// critical RED is RED outright; too many supporting REDs escalate to
// RED; a critical YELLOW or MISSING forces at least YELLOW (missing
// critical data demands review, never a silent GREEN).
func ApplyRules(criticalZones, supportingZones []Zone, rules AggregationRules) Zone {
	for _, z := range criticalZones {
		if z == ZoneRed {
			return ZoneRed
		}
	}

	supportingRed := 0
	for _, z := range supportingZones {
		if z == ZoneRed {
			supportingRed++
		}
	}
	if supportingRed > rules.SupportingRedForRed {
		return ZoneRed
	}

	for _, z := range criticalZones {
		if z == ZoneYellow || z == ZoneMissing {
			return ZoneYellow
		}
	}

	if supportingRed == rules.SupportingRedForYellow {
		return ZoneYellow
	}

	if len(criticalZones) > 0 && supportingRed < rules.SupportingRedForYellow {
		allGreen := true
		for _, z := range criticalZones {
			if z != ZoneGreen {
				allGreen = false
				break
			}
		}
		if allGreen {
			return ZoneGreen
		}
	}

	// Uncovered combinations (e.g. no critical tests at all) stay YELLOW.
	return ZoneYellow
}

// Assessor evaluates clients against a limits matrix.
type Assessor struct {
	Matrix     *Matrix
	Thresholds Thresholds
	Rules      AggregationRules
}

// NewAssessor builds an Assessor with default thresholds and rules.
func NewAssessor(m *Matrix) *Assessor {
	return &Assessor{Matrix: m, Thresholds: DefaultThresholds, Rules: DefaultRules}
}

// Assess evaluates every activity at every horizon for one client.
func (a *Assessor) Assess(c *Client) []ActivityStatus {
	var out []ActivityStatus
	for _, activity := range a.Matrix.Activities {
		for _, horizon := range Horizons {
			out = append(out, a.assessActivity(c, activity, horizon))
		}
	}
	return out
}

func (a *Assessor) assessActivity(c *Client, activity, horizon string) ActivityStatus {
	status := ActivityStatus{Activity: activity, Horizon: horizon}

	var criticalZones, supportingZones []Zone
	for _, test := range a.Matrix.Tests {
		cell, ok := a.Matrix.Limit(activity, test)
		if !ok {
			continue
		}
		limit, ok := ResolveLimit(cell, c.Gender)
		if !ok {
			continue
		}

		var value *float64
		if v, present := c.Value(test, horizon); present {
			value = &v
		}
		pi := ComputePI(value, limit)
		zone := ZoneFromPI(pi, a.Thresholds)

		importance := a.Matrix.Importance(activity, test)
		if importance == ImportanceCritical {
			criticalZones = append(criticalZones, zone)
			if zone != ZoneGreen {
				status.CriticalFailures = append(status.CriticalFailures, test+" ("+string(zone)+")")
			}
		} else {
			supportingZones = append(supportingZones, zone)
			if zone == ZoneRed {
				status.SupportingFailures = append(status.SupportingFailures, test+" ("+string(zone)+")")
			}
		}
	}

	status.Status = ApplyRules(criticalZones, supportingZones, a.Rules)
	return status
}
