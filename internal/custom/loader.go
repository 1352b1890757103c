// Package custom loads project-specific lint rules written in Starlark.
//
// Each *.star file in the custom rules directory declares one rule:
//
//	rule = {
//	    "id": "CU01",
//	    "name": "custom.no_select_star",
//	    "description": "Final selects list their columns.",
//	    "severity": "warning",
//	}
//
//	def check(model):
//	    if model.layer == "marts" and "select *" in model.sql:
//	        return [{"message": "Mart selects *", "line": 1}]
//	    return []
//
// check receives a struct describing the model and returns a list of
// messages, or dicts with "message" and an optional "line".
package custom

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.starlark.net/starlark"

	starctx "github.com/leapstack-labs/dbtstyle/internal/starlark"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

// Group is the rule group custom rules are registered under.
const Group = "custom"

var ruleID = regexp.MustCompile(`^[A-Z]{2}[0-9]{2,3}$`)

// Loader scans a directory for .star rule files.
type Loader struct {
	dir    string
	pool   *starctx.ThreadPool
	logger *slog.Logger
}

// NewLoader creates a loader for the rules in dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, pool: starctx.NewThreadPool(0, logger), logger: logger}
}

// Load reads every *.star file in the directory, in name order.
// A missing directory yields no rules.
func (l *Loader) Load() ([]*Rule, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("access custom rules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("custom rules path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("scan custom rules directory: %w", err)
	}

	rules := make([]*Rule, 0, len(files))
	seen := make(map[string]string)
	for _, file := range files {
		rule, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[rule.id]; dup {
			return nil, &LoadError{File: file, Message: fmt.Sprintf("rule id %s is already declared in %s", rule.id, filepath.Base(other))}
		}
		seen[rule.id] = file
		rules = append(rules, rule)
		l.logger.Debug("loaded custom rule", "id", rule.id, "file", file)
	}
	return rules, nil
}

// Register loads the rules and makes them the custom rules of the global lint
// registry. Custom rules registered by an earlier call that are no longer in
// the directory are removed.
func (l *Loader) Register() ([]*Rule, error) {
	rules, err := l.Load()
	if err != nil {
		return nil, err
	}
	for _, r := range lint.GetRulesByGroup(Group) {
		lint.Unregister(r.ID())
	}
	for _, r := range rules {
		lint.RegisterRule(r)
	}
	return rules, nil
}

func (l *Loader) loadFile(path string) (*Rule, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob of the rules directory
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("read file: %v", err)}
	}

	stem := strings.TrimSuffix(filepath.Base(path), ".star")
	thread := l.pool.Get("load:" + stem)
	defer l.pool.Put(thread)

	globals, err := starlark.ExecFile(thread, path, content, nil) //nolint:staticcheck // SA1019: ExecFileOptions has no benefit here
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("starlark: %v", err)}
	}
	globals.Freeze()

	decl, ok := globals["rule"].(*starlark.Dict)
	if !ok {
		return nil, &LoadError{File: path, Message: "missing rule dict"}
	}
	check, ok := globals["check"].(*starlark.Function)
	if !ok {
		return nil, &LoadError{File: path, Message: "missing check(model) function"}
	}
	if check.NumParams() != 1 {
		return nil, &LoadError{File: path, Message: "check must take exactly one argument"}
	}

	fields, err := starctx.ToGo(decl)
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("rule: %v", err)}
	}
	meta, _ := fields.(map[string]any)

	rule := &Rule{
		id:          stringField(meta, "id"),
		name:        stringField(meta, "name"),
		description: stringField(meta, "description"),
		rationale:   stringField(meta, "rationale"),
		severity:    core.SeverityWarning,
		path:        path,
		check:       check,
		pool:        l.pool,
		logger:      l.logger,
	}
	if !ruleID.MatchString(rule.id) {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("rule id %q must be two uppercase letters and a number, e.g. CU01", rule.id)}
	}
	if existing, ok := lint.GetRuleByID(rule.id); ok && existing.Group() != Group {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("rule id %s is taken by built-in rule %s", rule.id, existing.Name())}
	}
	if rule.name == "" {
		rule.name = Group + "." + stem
	}
	if s := stringField(meta, "severity"); s != "" {
		sev, ok := core.ParseSeverity(s)
		if !ok {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("unknown severity %q", s)}
		}
		rule.severity = sev
	}
	return rule, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// LoadError is a custom rule file that could not be loaded.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("custom rule %s: %s", filepath.Base(e.File), e.Message)
}
