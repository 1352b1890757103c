package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtstyle/internal/cli/config"
	"github.com/leapstack-labs/dbtstyle/internal/cli/testutil"
	"github.com/leapstack-labs/dbtstyle/internal/history"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func TestLintCommand_Markdown(t *testing.T) {
	chdirProject(t)

	out, _, err := execute(t, NewLintCommand(), "--no-history")
	require.ErrorIs(t, err, ErrLintIssues)

	assert.Contains(t, out, "# Lint Results")
	assert.Contains(t, out, "## `models/marts/orders.sql`")
	assert.Contains(t, out, "- `2:1` **SQ06** (warning): Use union all instead of union")
	assert.Contains(t, out, "Summary:")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestLintCommand_JSON(t *testing.T) {
	chdirProject(t)

	out, _, err := execute(t, NewLintCommand(), "--no-history", "--format", "json", "--rule", "SQ06")
	require.ErrorIs(t, err, ErrLintIssues)

	var result LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Summary.Issues)
	assert.Equal(t, 1, result.Summary.Warnings)
	assert.Equal(t, 2, result.Summary.Models)
	assert.Less(t, result.Summary.Score, 100)

	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, "models/marts/orders.sql", d.File)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 1, d.Column)
	assert.Equal(t, "SQ06", d.RuleID)
	assert.Equal(t, "warning", d.Severity)
	assert.Equal(t, lint.DefaultDocsBaseURL+"/SQ06", d.DocsURL)
}

func TestLintCommand_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"rule without issues", []string{"--rule", "SQ01"}},
		{"path excludes the offending model", []string{"--rule", "SQ06", "models/staging"}},
		{"threshold above the rule severity", []string{"--rule", "SQ06", "--severity", "error"}},
		{"disable wins over rule", []string{"--rule", "SQ06", "--disable", "SQ06"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirProject(t)
			out, _, err := execute(t, NewLintCommand(), append([]string{"--no-history"}, tt.args...)...)
			require.NoError(t, err, out)
			assert.Contains(t, out, "No lint issues found")
		})
	}
}

func TestLintCommand_JSONWithoutIssues(t *testing.T) {
	chdirProject(t)

	out, _, err := execute(t, NewLintCommand(), "--no-history", "--format", "json", "--rule", "SQ01")
	require.NoError(t, err)

	var result LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotNil(t, result.Diagnostics)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 100, result.Summary.Score)
}

func TestLintCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown severity", []string{"--severity", "fatal"}, `unknown severity "fatal"`},
		{"unknown format", []string{"--format", "xml"}, "--format"},
		{"too many paths", []string{"a", "b"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirProject(t)
			_, _, err := execute(t, NewLintCommand(), append([]string{"--no-history"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLintCommand_RecordsHistory(t *testing.T) {
	root := chdirProject(t)

	_, _, err := execute(t, NewLintCommand())
	require.ErrorIs(t, err, ErrLintIssues)

	assert.FileExists(t, filepath.Join(root, config.DefaultHistoryPath))
}

func TestLintCommand_NarrowedRulesNotRecorded(t *testing.T) {
	for _, args := range [][]string{{"--rule", "SQ06"}, {"--disable", "SQ06"}} {
		t.Run(args[0], func(t *testing.T) {
			root := chdirProject(t)
			_, _, _ = execute(t, NewLintCommand(), args...)
			assert.NoFileExists(t, filepath.Join(root, config.DefaultHistoryPath))
		})
	}
}

func TestLintCommand_PathRecordsProjectScore(t *testing.T) {
	root := chdirProject(t)
	testutil.WriteConfig(t, root, unionOnlyConfig)

	out, _, err := execute(t, NewLintCommand(), "models/staging")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No lint issues found")
	assert.Contains(t, out, "score 88/100")

	store, err := history.Open(context.Background(), filepath.Join(root, config.DefaultHistoryPath), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	run, err := store.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 88, run.Score)
	assert.Equal(t, 1, run.Warnings)
	assert.Equal(t, map[string]int{"SQ06": 1}, run.RuleCounts)
}

func TestLintCommand_ConfigFile(t *testing.T) {
	root := chdirProject(t)
	testutil.WriteConfig(t, root, `lint:
  severity:
    SQ06: error
`)

	out, _, err := execute(t, NewLintCommand(), "--no-history", "--rule", "SQ06", "--severity", "error")
	require.ErrorIs(t, err, ErrLintIssues)
	assert.Contains(t, out, "**SQ06** (error)")
}

func TestBuildLintConfig(t *testing.T) {
	tests := []struct {
		name         string
		lint         *config.LintConfig
		opts         *LintOptions
		wantDisabled []string
		wantEnabled  []string
	}{
		{
			name:        "empty options",
			opts:        &LintOptions{},
			wantEnabled: []string{"SQ06", "NM01"},
		},
		{
			name:         "disable rules",
			opts:         &LintOptions{Disable: []string{"SQ06", " nm01 "}},
			wantDisabled: []string{"SQ06", "NM01"},
			wantEnabled:  []string{"SQ03"},
		},
		{
			name:         "only a group",
			opts:         &LintOptions{Rules: []string{"sql"}},
			wantDisabled: []string{"NM01", "YM01"},
			wantEnabled:  []string{"SQ06", "SQ03"},
		},
		{
			name:         "config and flags combine",
			lint:         &config.LintConfig{Disabled: []string{"SQ03"}},
			opts:         &LintOptions{Disable: []string{"SQ06"}},
			wantDisabled: []string{"SQ03", "SQ06"},
			wantEnabled:  []string{"SQ01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.lint != nil {
				cfg.Lint = tt.lint
			}
			lintCfg, err := buildLintConfig(&CommandContext{Cfg: cfg}, tt.opts)
			require.NoError(t, err)

			for _, id := range tt.wantDisabled {
				rule, ok := lint.GetRuleByID(id)
				require.True(t, ok, id)
				assert.False(t, lintCfg.Enabled(rule), "%s should be disabled", id)
			}
			for _, id := range tt.wantEnabled {
				rule, ok := lint.GetRuleByID(id)
				require.True(t, ok, id)
				assert.True(t, lintCfg.Enabled(rule), "%s should be enabled", id)
			}
		})
	}
}

func TestBuildLintConfig_InvalidSeverity(t *testing.T) {
	cfg := config.Default()
	cfg.Lint = &config.LintConfig{Severity: map[string]string{"SQ06": "fatal"}}

	_, err := buildLintConfig(&CommandContext{Cfg: cfg}, &LintOptions{})
	assert.ErrorContains(t, err, "invalid lint configuration")
}

func TestFilterByPath(t *testing.T) {
	root := t.TempDir()
	diags := []lint.Diagnostic{
		{RuleID: "SQ06", FilePath: filepath.Join(root, "models", "marts", "orders.sql")},
		{RuleID: "NM01", FilePath: filepath.Join(root, "models", "staging", "stg_a.sql")},
		{RuleID: "NM01", FilePath: filepath.Join(root, "models", "staging_old", "b.sql")},
		{RuleID: "PS05"},
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{"directory", filepath.Join(root, "models", "staging"), 1},
		{"file", filepath.Join(root, "models", "marts", "orders.sql"), 1},
		{"whole models dir", filepath.Join(root, "models"), 3},
		{"no match", filepath.Join(root, "seeds"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, filterByPath(diags, tt.path), tt.want)
		})
	}
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		name    string
		summary LintSummary
		files   int
		want    string
	}{
		{
			name:    "single warning",
			summary: LintSummary{Issues: 1, Warnings: 1, Score: 97},
			files:   1,
			want:    "Summary: 1 issue, 1 warning in 1 file, score 97/100",
		},
		{
			name:    "mixed",
			summary: LintSummary{Issues: 5, Errors: 2, Warnings: 1, Info: 1, Hints: 1, Score: 80},
			files:   3,
			want:    "Summary: 5 issues, 2 errors, 1 warning, 1 info, 1 hint in 3 files, score 80/100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summaryLine(tt.summary, tt.files))
		})
	}
}

func TestRenderLintResults_Text(t *testing.T) {
	root := t.TempDir()
	result := &lint.Result{
		Files: 1,
		Diagnostics: []lint.Diagnostic{{
			RuleID:   "SQ06",
			Severity: core.SeverityWarning,
			Message:  "Use union all instead of union",
			FilePath: filepath.Join(root, "models", "orders.sql"),
		}},
	}
	result.Diagnostics[0].Pos.Line = 3
	result.Diagnostics[0].Pos.Column = 1

	tr := testutil.NewTestRenderer("text", false)
	require.NoError(t, renderLintResults(tr.Renderer, root, result, 97))

	out := tr.Output()
	assert.Contains(t, out, "models/orders.sql")
	assert.Contains(t, out, "3:1")
	assert.Contains(t, out, "SQ06")
	assert.Contains(t, out, "Summary: 1 issue, 1 warning in 1 file, score 97/100")
	testutil.AssertNoANSI(t, out)
}

func TestDisplayPath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work", "shop")
	assert.Equal(t, "(project)", displayPath(root, ""))
	assert.Equal(t, "models/a.sql", displayPath(root, filepath.Join(root, "models", "a.sql")))

	outside := filepath.Join(string(filepath.Separator), "elsewhere", "a.sql")
	assert.Equal(t, outside, displayPath(root, outside))
}
