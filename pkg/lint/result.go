package lint

import (
	"math"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// Result is the outcome of one analysis run.
type Result struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Models is the number of SQL models checked
	Models int `json:"models"`
	// Files is the number of models plus properties files checked
	Files int `json:"files"`
	// Rules are the IDs of the rules that ran
	Rules []string `json:"rules"`
	// Suppressed counts diagnostics silenced by noqa comments
	Suppressed int `json:"suppressed"`
}

// severityWeight scales a diagnostic's impact by how serious it is.
var severityWeight = map[core.Severity]float64{
	core.SeverityError:   1.0,
	core.SeverityWarning: 0.5,
	core.SeverityInfo:    0.2,
	core.SeverityHint:    0.1,
}

// SeverityWeight returns the factor Score applies to the impact of a
// diagnostic of severity s.
func SeverityWeight(s core.Severity) float64 {
	return severityWeight[s]
}

// Score returns the project health score from 0 to 100:
// 100 minus the severity-weighted impact of every diagnostic,
// averaged over the models, floored at 0.
func (r *Result) Score() int {
	var penalty float64
	for _, d := range r.Diagnostics {
		penalty += float64(d.ImpactScore) * SeverityWeight(d.Severity)
	}
	models := r.Models
	if models < 1 {
		models = 1
	}
	score := 100 - penalty/float64(models)
	if score < 0 {
		return 0
	}
	return int(math.Round(score))
}

// Counts returns the number of diagnostics per severity.
func (r *Result) Counts() map[core.Severity]int {
	counts := map[core.Severity]int{
		core.SeverityError:   0,
		core.SeverityWarning: 0,
		core.SeverityInfo:    0,
		core.SeverityHint:    0,
	}
	for _, d := range r.Diagnostics {
		counts[d.Severity]++
	}
	return counts
}

// ByRule returns the number of diagnostics per rule ID.
func (r *Result) ByRule() map[string]int {
	counts := make(map[string]int)
	for _, d := range r.Diagnostics {
		counts[d.RuleID]++
	}
	return counts
}

// AtOrAbove returns the diagnostics at least as severe as threshold.
func (r *Result) AtOrAbove(threshold core.Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

// Filter keeps only the diagnostics at least as severe as threshold.
func (r *Result) Filter(threshold core.Severity) *Result {
	filtered := *r
	filtered.Diagnostics = r.AtOrAbove(threshold)
	return &filtered
}
