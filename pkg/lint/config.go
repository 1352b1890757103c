package lint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// Config controls which rules are enabled, their severity and their options.
type Config struct {
	// DisabledRules contains rule IDs or group names to skip
	DisabledRules map[string]bool

	// OnlyRules, when non-empty, restricts the run to these rule IDs or groups
	OnlyRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// RuleOptions holds rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		OnlyRules:         make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// FromLintConfig converts the lint section of the configuration file.
// Unknown severity names are reported together.
func FromLintConfig(lc core.LintConfig) (*Config, error) {
	c := NewConfig()
	for _, id := range lc.Disabled {
		c.Disable(id)
	}

	var errs []error
	for id, name := range lc.Severity {
		sev, ok := core.ParseSeverity(name)
		if !ok {
			errs = append(errs, fmt.Errorf("lint.severity.%s: unknown severity %q", id, name))
			continue
		}
		c.SetSeverity(id, sev)
	}
	for id, opts := range lc.Rules {
		c.SetRuleOptions(id, opts)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// IsDisabled returns true if the rule ID is explicitly disabled.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[normalizeKey(ruleID)]
}

// Enabled reports whether a rule should run, considering its ID and group
// against both the disabled and the only lists.
func (c *Config) Enabled(rule Rule) bool {
	if c == nil {
		return true
	}
	id, group := normalizeKey(rule.ID()), normalizeKey(rule.Group())
	if c.DisabledRules[id] || c.DisabledRules[group] {
		return false
	}
	if len(c.OnlyRules) > 0 {
		return c.OnlyRules[id] || c.OnlyRules[group]
	}
	return true
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[normalizeKey(ruleID)]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[normalizeKey(ruleID)]
}

// Disable disables a rule or group.
func (c *Config) Disable(idOrGroup string) *Config {
	c.DisabledRules[normalizeKey(idOrGroup)] = true
	return c
}

// Only restricts the run to the given rules or groups.
func (c *Config) Only(idOrGroup string) *Config {
	c.OnlyRules[normalizeKey(idOrGroup)] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	c.SeverityOverrides[normalizeKey(ruleID)] = severity
	return c
}

// SetRuleOptions sets options for a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[normalizeKey(ruleID)] = opts
	return c
}

// normalizeKey makes rule IDs and group names case-insensitive.
// koanf lowercases map keys, so "sq03" and "SQ03" must match.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
