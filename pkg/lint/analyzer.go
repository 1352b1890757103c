package lint

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs lint rules against a loaded project.
type Analyzer struct {
	config      *Config
	rules       []Rule
	logger      *slog.Logger
	concurrency int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRules runs the given rules instead of the global registry.
func WithRules(rules ...Rule) Option {
	return func(a *Analyzer) { a.rules = rules }
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithConcurrency bounds how many models are checked at once.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) { a.concurrency = n }
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config, opts ...Option) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	a := &Analyzer{config: config}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if a.concurrency <= 0 {
		a.concurrency = runtime.GOMAXPROCS(0)
	}
	return a
}

// Analyze runs every enabled rule and returns the diagnostics sorted by file,
// line, column and rule ID, with severity overrides and noqa comments applied.
func (a *Analyzer) Analyze(ctx context.Context, project *core.Project) (*Result, error) {
	rules := a.rules
	if rules == nil {
		rules = Rules()
	}

	var (
		modelRules      []ModelRule
		propertiesRules []PropertiesRule
		projectRules    []ProjectRule
		ran             []string
	)
	for _, r := range rules {
		if !a.config.Enabled(r) {
			continue
		}
		switch rule := r.(type) {
		case ModelRule:
			modelRules = append(modelRules, rule)
		case PropertiesRule:
			propertiesRules = append(propertiesRules, rule)
		case ProjectRule:
			projectRules = append(projectRules, rule)
		default:
			a.logger.Warn("rule implements no check interface", "rule", r.ID())
			continue
		}
		ran = append(ran, r.ID())
	}
	a.logger.Debug("running rules", "model", len(modelRules), "properties", len(propertiesRules), "project", len(projectRules))

	noqa := make(map[string]Suppressions, len(project.Models))
	for _, m := range project.Models {
		noqa[m.FilePath] = SQLSuppressions(m.Tokens)
	}
	for _, f := range project.Properties {
		noqa[f.FilePath] = YAMLSuppressions(f.Lines)
	}

	perModel := make([][]Diagnostic, len(project.Models))
	perFile := make([][]Diagnostic, len(project.Properties))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, m := range project.Models {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var out []Diagnostic
			for _, rule := range modelRules {
				mc := &ModelContext{Project: project, Model: m, Options: a.config.GetRuleOptions(rule.ID())}
				for _, d := range rule.CheckModel(mc) {
					out = append(out, a.finalize(rule, d, m.FilePath, m.Name))
				}
			}
			perModel[i] = out
			return nil
		})
	}

	for i, f := range project.Properties {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var out []Diagnostic
			for _, rule := range propertiesRules {
				pc := &PropertiesContext{Project: project, File: f, Options: a.config.GetRuleOptions(rule.ID())}
				for _, d := range rule.CheckProperties(pc) {
					out = append(out, a.finalize(rule, d, f.FilePath, ""))
				}
			}
			perFile[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, diags := range perModel {
		all = append(all, diags...)
	}
	for _, diags := range perFile {
		all = append(all, diags...)
	}
	for _, rule := range projectRules {
		pc := &ProjectContext{Project: project, Options: a.config.GetRuleOptions(rule.ID())}
		for _, d := range rule.CheckProject(pc) {
			all = append(all, a.finalize(rule, d, "", ""))
		}
	}

	kept := all[:0]
	suppressed := 0
	for _, d := range all {
		if s, ok := noqa[d.FilePath]; ok && s.Suppressed(d.Pos.Line, d.RuleID) {
			suppressed++
			continue
		}
		kept = append(kept, d)
	}
	SortDiagnostics(kept)

	a.logger.Debug("analysis complete", "diagnostics", len(kept), "suppressed", suppressed)
	return &Result{
		Diagnostics: kept,
		Models:      len(project.Models),
		Files:       len(project.Models) + len(project.Properties),
		Rules:       ran,
		Suppressed:  suppressed,
	}, nil
}

// finalize fills the fields every diagnostic of a rule shares.
func (a *Analyzer) finalize(rule Rule, d Diagnostic, filePath, model string) Diagnostic {
	if d.RuleID == "" {
		d.RuleID = rule.ID()
	}
	d.Severity = a.config.GetSeverity(d.RuleID, rule.DefaultSeverity())
	if d.FilePath == "" {
		d.FilePath = filePath
	}
	if d.Model == "" {
		d.Model = model
	}
	if d.DocumentationURL == "" {
		d.DocumentationURL = BuildDocURL(d.RuleID)
	}
	if d.ImpactScore == 0 {
		d.ImpactScore = ImpactMedium.Int()
	}
	return d
}

// SortDiagnostics orders diagnostics by file, line, column and rule ID.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.RuleID < b.RuleID
	})
}
