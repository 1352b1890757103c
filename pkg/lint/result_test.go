package lint

import (
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestResult_Score(t *testing.T) {
	tests := []struct {
		name   string
		models int
		diags  []Diagnostic
		want   int
	}{
		{"clean", 3, nil, 100},
		{"one warning", 1, []Diagnostic{{Severity: core.SeverityWarning, ImpactScore: 50}}, 75},
		{"averaged over models", 5, []Diagnostic{{Severity: core.SeverityError, ImpactScore: 50}}, 90},
		{"hint barely counts", 1, []Diagnostic{{Severity: core.SeverityHint, ImpactScore: 20}}, 98},
		{"floored at zero", 1, []Diagnostic{
			{Severity: core.SeverityError, ImpactScore: 90},
			{Severity: core.SeverityError, ImpactScore: 90},
		}, 0},
		{"no models", 0, []Diagnostic{{Severity: core.SeverityInfo, ImpactScore: 50}}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{Models: tt.models, Diagnostics: tt.diags}
			assert.Equal(t, tt.want, r.Score())
		})
	}
}

func TestResult_CountsAndFilter(t *testing.T) {
	r := &Result{Models: 1, Diagnostics: []Diagnostic{
		{RuleID: "A1", Severity: core.SeverityError},
		{RuleID: "A1", Severity: core.SeverityWarning},
		{RuleID: "B1", Severity: core.SeverityHint},
	}}

	assert.Equal(t, map[core.Severity]int{
		core.SeverityError:   1,
		core.SeverityWarning: 1,
		core.SeverityInfo:    0,
		core.SeverityHint:    1,
	}, r.Counts())
	assert.Equal(t, map[string]int{"A1": 2, "B1": 1}, r.ByRule())

	assert.Len(t, r.AtOrAbove(core.SeverityWarning), 2)
	filtered := r.Filter(core.SeverityError)
	assert.Len(t, filtered.Diagnostics, 1)
	assert.Len(t, r.Diagnostics, 3, "filter does not modify the original")
}
