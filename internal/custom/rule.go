package custom

import (
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	starctx "github.com/leapstack-labs/dbtstyle/internal/starlark"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// Rule is a model rule backed by a Starlark check function.
type Rule struct {
	id          string
	name        string
	description string
	rationale   string
	severity    core.Severity
	path        string

	check  *starlark.Function
	pool   *starctx.ThreadPool
	logger *slog.Logger
}

var _ lint.ModelRule = (*Rule)(nil)

func (r *Rule) ID() string                     { return r.id }
func (r *Rule) Name() string                   { return r.name }
func (r *Rule) Group() string                  { return Group }
func (r *Rule) Description() string            { return r.description }
func (r *Rule) DefaultSeverity() core.Severity { return r.severity }
func (r *Rule) ConfigKeys() []string           { return nil }
func (r *Rule) Scope() string                  { return core.ScopeModel }
func (r *Rule) Rationale() string              { return r.rationale }
func (r *Rule) BadExample() string             { return "" }
func (r *Rule) GoodExample() string            { return "" }
func (r *Rule) Fix() string                    { return "" }

// Path returns the .star file the rule was loaded from.
func (r *Rule) Path() string { return r.path }

// CheckModel calls check(model). A failing script is reported as a
// diagnostic on the model rather than aborting the run.
func (r *Rule) CheckModel(ctx *lint.ModelContext) []lint.Diagnostic {
	thread := r.pool.Get(r.id + ":" + ctx.Model.Name)
	defer r.pool.Put(thread)

	result, err := starlark.Call(thread, r.check, starlark.Tuple{modelValue(ctx)}, nil)
	if err != nil {
		r.logger.Warn("custom rule failed", "rule", r.id, "model", ctx.Model.Name, "error", err)
		return []lint.Diagnostic{failure(fmt.Sprintf("Custom rule %s failed: %v", r.id, err))}
	}

	diags, err := toDiagnostics(result)
	if err != nil {
		return []lint.Diagnostic{failure(fmt.Sprintf("Custom rule %s returned %v", r.id, err))}
	}
	return diags
}

func failure(msg string) lint.Diagnostic {
	return lint.Diagnostic{Message: msg, Pos: token.Position{Line: 1, Column: 1}, ImpactScore: lint.ImpactLow.Int()}
}

// Field describes one attribute of the model struct passed to check.
type Field struct {
	Name        string
	Type        string
	Description string
}

// ModelFields lists the attributes of the model struct, in documentation order.
var ModelFields = []Field{
	{"name", "string", "Model name, the file name without .sql"},
	{"path", "string", "Path of the SQL file relative to the models directory"},
	{"dir", "string", "Directory of the SQL file relative to the models directory, \".\" at its root"},
	{"layer", "string", "base, staging, intermediate, marts or other"},
	{"source", "string", "Source system of a staging model (stg_<source>__<entity>)"},
	{"unit", "string", "Business unit of an intermediate or marts model, if any"},
	{"materialized", "string", "Effective materialization from config() or dbt_project.yml"},
	{"sql", "string", "Raw SQL including Jinja"},
	{"columns", "list of string", "Output columns of the final select, empty when they cannot be determined"},
	{"documented_columns", "list of string", "Columns listed for the model in a properties file"},
	{"refs", "list of string", "Models referenced with ref()"},
	{"sources", "list of string", "Sources referenced with source(), as source.table"},
	{"lines", "list of string", "SQL split into lines; index 0 is line 1"},
}

// modelValue builds the struct passed to check.
func modelValue(ctx *lint.ModelContext) starlark.Value {
	m := ctx.Model
	refs := make([]string, len(m.Refs))
	for i, ref := range m.Refs {
		refs[i] = ref.Name
	}
	sources := make([]string, len(m.Sources))
	for i, src := range m.Sources {
		sources[i] = src.Source + "." + src.Table
	}
	materialized, _ := ctx.Project.Materialization(m)
	var documented []string
	if props, _ := ctx.Project.DescribeModel(m.Name); props != nil {
		for _, c := range props.Columns {
			documented = append(documented, c.Name)
		}
	}

	fields := starlark.StringDict{
		"name":         starlark.String(m.Name),
		"path":         starlark.String(m.Path),
		"dir":          starlark.String(m.Dir),
		"layer":        starlark.String(string(m.Layer)),
		"source":       starlark.String(m.Source),
		"unit":         starlark.String(m.Unit),
		"materialized": starlark.String(materialized),
		"sql":          starlark.String(m.SQL),
	}
	for key, list := range map[string][]string{
		"columns":            m.Columns,
		"documented_columns": documented,
		"refs":               refs,
		"sources":            sources,
		"lines":              m.Lines,
	} {
		v, _ := starctx.GoToStarlark(list)
		fields[key] = v
	}
	return starlarkstruct.FromStringDict(starlark.String("model"), fields)
}

// toDiagnostics converts check's return value: None, or a list whose items
// are strings or {"message": ..., "line": ...} dicts.
func toDiagnostics(v starlark.Value) ([]lint.Diagnostic, error) {
	if v == starlark.None {
		return nil, nil
	}
	if _, ok := v.(starlark.String); ok {
		return nil, fmt.Errorf("a string; expected a list")
	}
	g, err := starctx.ToGo(v)
	if err != nil {
		return nil, err
	}
	items, ok := g.([]any)
	if !ok {
		return nil, fmt.Errorf("%s; expected a list", v.Type())
	}

	diags := make([]lint.Diagnostic, 0, len(items))
	for i, item := range items {
		d := lint.Diagnostic{Pos: token.Position{Line: 1, Column: 1}, ImpactScore: lint.ImpactMedium.Int()}
		switch it := item.(type) {
		case string:
			d.Message = it
		case map[string]any:
			d.Message, _ = it["message"].(string)
			if line, ok := it["line"].(int64); ok && line > 0 {
				d.Pos.Line = int(line)
			}
		default:
			return nil, fmt.Errorf("item %d of type %T; expected a string or dict", i, item)
		}
		if d.Message == "" {
			return nil, fmt.Errorf("item %d without a message", i)
		}
		diags = append(diags, d)
	}
	return diags, nil
}
