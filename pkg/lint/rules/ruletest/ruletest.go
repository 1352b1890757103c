// Package ruletest runs a single registered rule against a small project
// written to a temporary directory.
package ruletest

import (
	"context"
	"testing"

	"github.com/leapstack-labs/dbtstyle/internal/loader"
	"github.com/leapstack-labs/dbtstyle/internal/testutil"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/stretchr/testify/require"
)

// Load writes files under a temporary root and loads them as a project.
// Keys are slash-separated paths relative to the project root.
func Load(t testing.TB, files map[string]string) *core.Project {
	t.Helper()
	root := testutil.NewProject(t, files)
	project, err := loader.Load(context.Background(), root, loader.Options{})
	require.NoError(t, err)
	return project
}

// Run loads files and returns the diagnostics of ruleID alone.
func Run(t testing.TB, files map[string]string, ruleID string) []lint.Diagnostic {
	t.Helper()
	return RunWithOptions(t, files, ruleID, nil)
}

// RunWithOptions is Run with rule options set.
func RunWithOptions(t testing.TB, files map[string]string, ruleID string, opts map[string]any) []lint.Diagnostic {
	t.Helper()
	return Analyze(t, Load(t, files), ruleID, opts)
}

// Analyze runs ruleID against an already loaded project.
func Analyze(t testing.TB, project *core.Project, ruleID string, opts map[string]any) []lint.Diagnostic {
	t.Helper()
	rule, ok := lint.GetRuleByID(ruleID)
	require.True(t, ok, "rule %s is not registered", ruleID)

	config := lint.NewConfig()
	if opts != nil {
		config.SetRuleOptions(ruleID, opts)
	}
	result, err := lint.NewAnalyzer(config, lint.WithRules(rule)).Analyze(context.Background(), project)
	require.NoError(t, err)
	return result.Diagnostics
}

// Model is a one-model project: the SQL written to models/<path>.
func Model(path, sql string) map[string]string {
	return map[string]string{"models/" + path: sql}
}

// Lines returns the line of every diagnostic.
func Lines(diags []lint.Diagnostic) []int {
	lines := make([]int, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.Pos.Line)
	}
	return lines
}

// Messages returns the message of every diagnostic.
func Messages(diags []lint.Diagnostic) []string {
	msgs := make([]string, 0, len(diags))
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return msgs
}
