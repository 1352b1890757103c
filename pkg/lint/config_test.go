package lint

import (
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRule(id, group string) Rule {
	return WrapRuleDef(RuleDef{ID: id, Group: group, Model: func(*ModelContext) []Diagnostic { return nil }})
}

func TestConfig_Enabled(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		rule   Rule
		want   bool
	}{
		{"nil config", nil, testRule("SQ01", "sql"), true},
		{"default", NewConfig(), testRule("SQ01", "sql"), true},
		{"disabled by id", NewConfig().Disable("SQ01"), testRule("SQ01", "sql"), false},
		{"disabled by lowercase id", NewConfig().Disable("sq01"), testRule("SQ01", "sql"), false},
		{"disabled by group", NewConfig().Disable("sql"), testRule("SQ01", "sql"), false},
		{"only other rule", NewConfig().Only("NM01"), testRule("SQ01", "sql"), false},
		{"only this group", NewConfig().Only("sql"), testRule("SQ01", "sql"), true},
		{"disable wins over only", NewConfig().Only("sql").Disable("SQ01"), testRule("SQ01", "sql"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.Enabled(tt.rule))
		})
	}
}

func TestConfig_SeverityAndOptions(t *testing.T) {
	c := NewConfig().
		SetSeverity("SQ03", core.SeverityError).
		SetRuleOptions("SQ03", map[string]any{"max_length": 100})

	assert.Equal(t, core.SeverityError, c.GetSeverity("sq03", core.SeverityWarning))
	assert.Equal(t, core.SeverityHint, c.GetSeverity("SQ04", core.SeverityHint))
	assert.Equal(t, 100, c.GetRuleOptions("SQ03")["max_length"])
	assert.Nil(t, c.GetRuleOptions("SQ04"))
	assert.True(t, NewConfig().Disable("X1").IsDisabled("x1"))
}

func TestFromLintConfig(t *testing.T) {
	c, err := FromLintConfig(core.LintConfig{
		Disabled: []string{"YM01", "jinja"},
		Severity: map[string]string{"nm05": "info", "SQ03": "warn"},
		Rules:    map[string]core.RuleOptions{"sq03": {"max_length": 120}},
	})
	require.NoError(t, err)

	assert.True(t, c.IsDisabled("YM01"))
	assert.False(t, c.Enabled(testRule("JN01", "jinja")))
	assert.Equal(t, core.SeverityInfo, c.GetSeverity("NM05", core.SeverityWarning))
	assert.Equal(t, core.SeverityWarning, c.GetSeverity("SQ03", core.SeverityError))
	assert.Equal(t, 120, GetIntOption(c.GetRuleOptions("SQ03"), "max_length", 80))

	_, err = FromLintConfig(core.LintConfig{Severity: map[string]string{"SQ01": "fatal"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown severity "fatal"`)
}
