package rules_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules"
)

func TestAllRulesRegistered(t *testing.T) {
	want := map[string]int{
		"naming": 7, "structure": 5, "testing": 3, "fields": 7, "refs": 6,
		"sql": 12, "yaml": 4, "jinja": 2, "load": 1,
	}
	for group, n := range want {
		assert.Len(t, lint.GetRulesByGroup(group), n, group)
	}
}

func TestRuleMetadata(t *testing.T) {
	id := regexp.MustCompile(`^[A-Z]{2}\d{2}$`)
	names := map[string]string{}
	for _, r := range lint.AllRules() {
		t.Run(r.ID, func(t *testing.T) {
			assert.Regexp(t, id, r.ID)
			assert.NotEmpty(t, r.Name)
			assert.NotEmpty(t, r.Description)
			assert.NotEmpty(t, r.Rationale)
			assert.Contains(t, []string{core.ScopeModel, core.ScopeProperties, core.ScopeProject}, r.Scope)
			assert.NotEqual(t, "unknown", r.DefaultSeverity.String())
		})
		if other, dup := names[r.Name]; dup {
			t.Errorf("rules %s and %s share the name %s", other, r.ID, r.Name)
		}
		names[r.Name] = r.ID
	}
}
