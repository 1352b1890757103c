package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	"github.com/leapstack-labs/dbtstyle/internal/custom"
	"github.com/leapstack-labs/dbtstyle/internal/history"
	"github.com/leapstack-labs/dbtstyle/internal/loader"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules" // register built-in rules
)

// ErrLintIssues is returned when diagnostics at or above the threshold remain.
var ErrLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Path      string   // File or directory to report on
	Format    string   // Output format: text, markdown, json
	Disable   []string // Rule IDs or groups to disable
	Severity  string   // Minimum severity: error, warning, info, hint
	Rules     []string // Run only these rule IDs or groups
	NoHistory bool     // Do not record the run
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Check a dbt project against the style guide",
		Long: `Check SQL models, properties files and project layout against the
dbt style guide.

Rules can be disabled, re-ranked and tuned in dbtstyle.yaml. A path limits
the report to files under it; the whole project is still loaded so
project-wide rules see every model, and the score covers the whole project.

Each run is recorded in the history store unless --no-history is given.
Runs narrowed with --rule or --disable are not recorded, since their score
is not comparable with full runs.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the project in the current directory
  dbtstyle lint

  # Report only on staging models
  dbtstyle lint models/staging

  # Output as JSON
  dbtstyle lint --format json

  # Disable a rule and the whole jinja group
  dbtstyle lint --disable SQ03,jinja

  # Only fail on errors
  dbtstyle lint --severity error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs or groups to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only these rule IDs or groups")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record this run in the history store")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("--severity: unknown severity %q", opts.Severity)
	}

	run, err := lintOnce(cmd.Context(), cmdCtx, opts)
	if err != nil {
		return err
	}

	var previous *history.Run
	switch {
	case opts.NoHistory:
	case opts.narrowsRules():
		cmdCtx.Logger.Debug("run not recorded", "reason", "--rule or --disable changes the rule set")
	default:
		previous = recordRun(cmd.Context(), cmdCtx, run)
	}

	r := cmdCtx.Renderer
	score := run.Result.Score()
	shown := run.shown(threshold, opts.Path)
	if err := renderLintResults(r, run.Project.Root, shown, score); err != nil {
		return err
	}
	if previous != nil && previous.Score != score && r.EffectiveMode() != output.ModeJSON {
		r.Muted(fmt.Sprintf("Score was %d on the previous run", previous.Score))
	}

	if len(shown.Diagnostics) > 0 {
		return ErrLintIssues
	}
	return nil
}

// narrowsRules reports whether the flags change the configured rule set, so
// the score is not comparable with other runs.
func (o *LintOptions) narrowsRules() bool {
	return len(o.Rules) > 0 || len(o.Disable) > 0
}

// lintRun is one load and analysis of the project. Result covers the whole
// project; the score and history are taken from it.
type lintRun struct {
	Project   *core.Project
	Result    *lint.Result
	StartedAt time.Time
	Duration  time.Duration
}

// shown returns the diagnostics to display: at or above threshold and, when
// path is set, in files under it.
func (run *lintRun) shown(threshold core.Severity, path string) *lint.Result {
	shown := run.Result.Filter(threshold)
	if path != "" {
		shown.Diagnostics = filterByPath(shown.Diagnostics, path)
	}
	return shown
}

// lintOnce registers custom rules, loads the project and analyzes it.
func lintOnce(ctx context.Context, cmdCtx *CommandContext, opts *LintOptions) (*lintRun, error) {
	cfg := cmdCtx.Cfg
	started := time.Now()

	lintCfg, err := buildLintConfig(cmdCtx, opts)
	if err != nil {
		return nil, err
	}
	lint.SetDocsBaseURL(cfg.Lint.DocsBaseURL)

	if _, err := custom.NewLoader(cfg.CustomRulesDir, cmdCtx.Logger).Register(); err != nil {
		return nil, fmt.Errorf("failed to load custom rules: %w", err)
	}

	project, err := loader.Load(ctx, cfg.ProjectRoot, loader.Options{
		ModelsDir: cfg.ModelsDir,
		Logger:    cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	result, err := lint.NewAnalyzer(lintCfg, lint.WithLogger(cmdCtx.Logger)).Analyze(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze project: %w", err)
	}

	return &lintRun{
		Project:   project,
		Result:    result,
		StartedAt: started,
		Duration:  time.Since(started),
	}, nil
}

// buildLintConfig applies the CLI flags on top of the lint section of the config.
func buildLintConfig(cmdCtx *CommandContext, opts *LintOptions) (*lint.Config, error) {
	lintCfg, err := cmdCtx.Cfg.LintRules()
	if err != nil {
		return nil, err
	}
	for _, id := range opts.Disable {
		if id = strings.TrimSpace(id); id != "" {
			lintCfg.Disable(id)
		}
	}
	for _, id := range opts.Rules {
		if id = strings.TrimSpace(id); id != "" {
			lintCfg.Only(id)
		}
	}
	return lintCfg, nil
}

// filterByPath keeps diagnostics for files under path. Project-wide
// diagnostics without a file are dropped.
func filterByPath(diags []lint.Diagnostic, path string) []lint.Diagnostic {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	var kept []lint.Diagnostic
	for _, d := range diags {
		if d.FilePath == "" {
			continue
		}
		if d.FilePath == abs || strings.HasPrefix(d.FilePath, abs+string(filepath.Separator)) {
			kept = append(kept, d)
		}
	}
	return kept
}

// recordRun stores the run in the history store and returns the run
// recorded before it, if any. Failures are reported but never fail the lint.
func recordRun(ctx context.Context, cmdCtx *CommandContext, run *lintRun) *history.Run {
	store, err := history.Open(ctx, cmdCtx.Cfg.HistoryPath, cmdCtx.Logger)
	if err != nil {
		cmdCtx.Renderer.Warning(fmt.Sprintf("history not recorded: %v", err))
		return nil
	}
	defer func() { _ = store.Close() }()

	previous, err := store.Latest(ctx)
	if err != nil {
		cmdCtx.Logger.Warn("failed to read previous run", "error", err)
	}

	name := run.Project.Name
	if name == "" {
		name = filepath.Base(run.Project.Root)
	}
	if err := store.Record(ctx, history.NewRun(name, run.StartedAt, run.Duration, run.Result)); err != nil {
		cmdCtx.Renderer.Warning(fmt.Sprintf("history not recorded: %v", err))
		return nil
	}
	return previous
}

// LintSummary is the summary block of the JSON output.
type LintSummary struct {
	Files      int `json:"files"`
	Models     int `json:"models"`
	Issues     int `json:"issues"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Info       int `json:"info"`
	Hints      int `json:"hints"`
	Suppressed int `json:"suppressed"`
	Score      int `json:"score"`
}

// LintDiagnostic is one diagnostic in the JSON output.
type LintDiagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	DocsURL  string `json:"docs_url,omitempty"`
}

// LintOutput is the JSON output of the lint command.
type LintOutput struct {
	Summary     LintSummary      `json:"summary"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

func summarize(result *lint.Result, score int) LintSummary {
	counts := result.Counts()
	return LintSummary{
		Files:      result.Files,
		Models:     result.Models,
		Issues:     len(result.Diagnostics),
		Errors:     counts[core.SeverityError],
		Warnings:   counts[core.SeverityWarning],
		Info:       counts[core.SeverityInfo],
		Hints:      counts[core.SeverityHint],
		Suppressed: result.Suppressed,
		Score:      score,
	}
}

// displayPath shows a diagnostic's file relative to the project root.
func displayPath(root, file string) string {
	if file == "" {
		return "(project)"
	}
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return file
}

// groupByFile splits sorted diagnostics into runs sharing a file.
func groupByFile(diags []lint.Diagnostic) [][]lint.Diagnostic {
	var groups [][]lint.Diagnostic
	for i, d := range diags {
		if i == 0 || d.FilePath != diags[i-1].FilePath {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], d)
	}
	return groups
}

func renderLintResults(r *output.Renderer, root string, result *lint.Result, score int) error {
	summary := summarize(result, score)

	if r.EffectiveMode() == output.ModeJSON {
		out := LintOutput{Summary: summary, Diagnostics: []LintDiagnostic{}}
		for _, d := range result.Diagnostics {
			out.Diagnostics = append(out.Diagnostics, LintDiagnostic{
				File:     displayPath(root, d.FilePath),
				Line:     d.Pos.Line,
				Column:   d.Pos.Column,
				RuleID:   d.RuleID,
				Severity: d.Severity.String(),
				Message:  d.Message,
				DocsURL:  d.DocumentationURL,
			})
		}
		return r.JSON(out)
	}

	if len(result.Diagnostics) == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files (score %d/100)", summary.Files, score))
		return nil
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderLintMarkdown(r, root, result)
	} else {
		renderLintText(r, root, result)
	}
	r.Println(summaryLine(summary, len(groupByFile(result.Diagnostics))))
	return nil
}

func renderLintText(r *output.Renderer, root string, result *lint.Result) {
	styles := r.Styles()
	for _, group := range groupByFile(result.Diagnostics) {
		r.Println(styles.FilePath.Render(displayPath(root, group[0].FilePath)))
		for _, d := range group {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", location(d))),
				styles.Severity(d.Severity).Render(fmt.Sprintf("%-7s", d.Severity.String())),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}
}

func renderLintMarkdown(r *output.Renderer, root string, result *lint.Result) {
	r.Header(1, "Lint Results")
	for _, group := range groupByFile(result.Diagnostics) {
		r.Header(2, "`"+displayPath(root, group[0].FilePath)+"`")
		for _, d := range group {
			r.Printf("- `%s` **%s** (%s): %s\n", location(d), d.RuleID, d.Severity.String(), d.Message)
		}
		r.Println("")
	}
}

func location(d lint.Diagnostic) string {
	if d.Pos.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
}

func summaryLine(s LintSummary, files int) string {
	parts := []string{plural(s.Issues, "issue", "issues")}
	if s.Errors > 0 {
		parts = append(parts, plural(s.Errors, "error", "errors"))
	}
	if s.Warnings > 0 {
		parts = append(parts, plural(s.Warnings, "warning", "warnings"))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, plural(s.Hints, "hint", "hints"))
	}
	return fmt.Sprintf("Summary: %s in %s, score %d/100",
		strings.Join(parts, ", "), plural(files, "file", "files"), s.Score)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
