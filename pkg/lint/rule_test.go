package lint

import (
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRuleDef_Scope(t *testing.T) {
	tests := []struct {
		name  string
		def   RuleDef
		scope string
	}{
		{"model", RuleDef{ID: "T01", Model: func(*ModelContext) []Diagnostic { return nil }}, core.ScopeModel},
		{"properties", RuleDef{ID: "T02", Properties: func(*PropertiesContext) []Diagnostic { return nil }}, core.ScopeProperties},
		{"project", RuleDef{ID: "T03", Project: func(*ProjectContext) []Diagnostic { return nil }}, core.ScopeProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := WrapRuleDef(tt.def)
			assert.Equal(t, tt.scope, rule.Scope())

			switch tt.scope {
			case core.ScopeModel:
				_, ok := rule.(ModelRule)
				assert.True(t, ok)
			case core.ScopeProperties:
				_, ok := rule.(PropertiesRule)
				assert.True(t, ok)
			case core.ScopeProject:
				_, ok := rule.(ProjectRule)
				assert.True(t, ok)
			}
		})
	}
}

func TestGetRuleInfo(t *testing.T) {
	rule := WrapRuleDef(RuleDef{
		ID:          "T10",
		Name:        "test.info",
		Group:       "test",
		Description: "A test rule",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"max_length"},
		Rationale:   "why",
		BadExample:  "bad",
		GoodExample: "good",
		Fix:         "fix",
		Model:       func(*ModelContext) []Diagnostic { return nil },
	})

	info := GetRuleInfo(rule)
	assert.Equal(t, core.RuleInfo{
		ID:              "T10",
		Name:            "test.info",
		Group:           "test",
		Description:     "A test rule",
		DefaultSeverity: core.SeverityInfo,
		ConfigKeys:      []string{"max_length"},
		Scope:           core.ScopeModel,
		Rationale:       "why",
		BadExample:      "bad",
		GoodExample:     "good",
		Fix:             "fix",
	}, info)
}

func TestRegistry(t *testing.T) {
	Register(RuleDef{ID: "ZZ91", Name: "zz.one", Group: "zz", Model: func(*ModelContext) []Diagnostic { return nil }})
	Register(RuleDef{ID: "ZZ90", Name: "zz.zero", Group: "zz", Project: func(*ProjectContext) []Diagnostic { return nil }})
	t.Cleanup(func() {
		Unregister("ZZ90")
		Unregister("ZZ91")
	})

	rule, ok := GetRuleByID("ZZ91")
	require.True(t, ok)
	assert.Equal(t, "zz.one", rule.Name())

	_, ok = GetRuleByID("nope")
	assert.False(t, ok)

	group := GetRulesByGroup("zz")
	require.Len(t, group, 2)
	assert.Equal(t, "ZZ90", group[0].ID(), "sorted by ID")

	assert.Contains(t, Groups(), "zz")
	assert.GreaterOrEqual(t, Count(), 2)

	var ids []string
	for _, info := range AllRules() {
		ids = append(ids, info.ID)
	}
	assert.Contains(t, ids, "ZZ90")
	assert.IsIncreasing(t, ids)
}
