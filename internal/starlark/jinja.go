package starlark

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Calls is what a model's Jinja asked dbt for.
type Calls struct {
	Refs      []core.Ref
	Sources   []core.SourceRef
	Config    map[string]any
	ConfigPos token.Position
	// Vars are the names passed to var()
	Vars []string
}

// tracked are the builtins whose calls are recorded.
var tracked = map[string]bool{"ref": true, "source": true, "config": true, "var": true}

// callStart finds tracked calls in text Starlark cannot parse,
// e.g. {% set x = ref('a') %} or filters like {{ ref('a') | upper }}.
var callStart = regexp.MustCompile(`\b(ref|source|config|var)\s*\(`)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Evaluator extracts dbt calls from Jinja tokens.
// It is safe for concurrent use.
type Evaluator struct {
	pool *ThreadPool
}

// NewEvaluator creates an evaluator drawing threads from pool.
func NewEvaluator(pool *ThreadPool) *Evaluator {
	if pool == nil {
		pool = NewThreadPool(0, nil)
	}
	return &Evaluator{pool: pool}
}

// Extract records every ref(), source(), config() and var() call in the
// Jinja tokens of a model. Expressions that do not evaluate (unknown macros,
// loop variables) are skipped.
func (e *Evaluator) Extract(modelName string, tokens []token.Token) *Calls {
	calls := &Calls{}
	thread := e.pool.Get(modelName)
	defer e.pool.Put(thread)

	for _, b := range jinjaBlocks(tokens) {
		body := blockBody(b.Text)
		if body == "" {
			continue
		}
		rec := &recorder{calls: calls, pos: b.Pos}
		env := rec.globals(modelName)

		if b.Kind == token.JINJA_EXPR {
			if expr, err := fileOptions.ParseExpr(modelName, body, 0); err == nil {
				evalTracked(thread, expr, env)
				continue
			}
		}
		for _, src := range callTexts(body) {
			expr, err := fileOptions.ParseExpr(modelName, src, 0)
			if err != nil {
				continue
			}
			evalTracked(thread, expr, env)
		}
	}
	return calls
}

// quotedBlock finds Jinja inside SQL string literals, as in '{{ var("x") }}'.
var quotedBlock = regexp.MustCompile(`\{\{.*?\}\}|\{%.*?%\}`)

// jinjaBlocks returns the Jinja expression and statement blocks of a model,
// including those embedded in string literals.
func jinjaBlocks(tokens []token.Token) []token.Token {
	var out []token.Token
	for _, t := range tokens {
		switch t.Kind {
		case token.JINJA_EXPR, token.JINJA_STMT:
			out = append(out, t)
		case token.STRING:
			for _, loc := range quotedBlock.FindAllStringIndex(t.Text, -1) {
				kind := token.JINJA_EXPR
				if t.Text[loc[0]+1] == '%' {
					kind = token.JINJA_STMT
				}
				out = append(out, token.Token{Kind: kind, Text: t.Text[loc[0]:loc[1]], Pos: t.Pos})
			}
		}
	}
	return out
}

// evalTracked evaluates each outermost tracked call inside expr on its own,
// so that ref() inside an unknown macro call is still seen.
func evalTracked(thread *starlark.Thread, expr syntax.Expr, env starlark.StringDict) {
	syntax.Walk(expr, func(n syntax.Node) bool {
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		ident, ok := call.Fn.(*syntax.Ident)
		if !ok || !tracked[ident.Name] {
			return true
		}
		_, _ = starlark.EvalExprOptions(fileOptions, thread, call, env)
		return false
	})
}

// blockBody strips Jinja delimiters and whitespace control markers.
func blockBody(text string) string {
	if len(text) < 4 {
		return ""
	}
	body := text[2:]
	if strings.HasSuffix(body, "}}") || strings.HasSuffix(body, "%}") {
		body = body[:len(body)-2]
	}
	body = strings.TrimPrefix(body, "-")
	body = strings.TrimPrefix(body, "+")
	body = strings.TrimSuffix(body, "-")
	body = strings.TrimSuffix(body, "+")
	return strings.TrimSpace(body)
}

// callTexts returns the source text of each tracked call in s,
// with balanced parentheses and quoted strings respected.
func callTexts(s string) []string {
	var out []string
	for _, loc := range callStart.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && s[loc[0]-1] == '.' {
			continue
		}
		if end := closeParen(s, loc[1]-1); end > 0 {
			out = append(out, s[loc[0]:end+1])
		}
	}
	return out
}

func closeParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// recorder implements the dbt builtins for one Jinja block.
type recorder struct {
	calls *Calls
	pos   token.Position
}

func (r *recorder) globals(modelName string) starlark.StringDict {
	this := &ThisInfo{Name: modelName}
	return starlark.StringDict{
		"ref":            starlark.NewBuiltin("ref", r.ref),
		"source":         starlark.NewBuiltin("source", r.source),
		"config":         starlark.NewBuiltin("config", r.config),
		"var":            starlark.NewBuiltin("var", r.variable),
		"env_var":        starlark.NewBuiltin("env_var", envVar),
		"is_incremental": starlark.NewBuiltin("is_incremental", isIncremental),
		"this":           this.ToStarlark(),
		"true":           starlark.True,
		"false":          starlark.False,
		"none":           starlark.None,
	}
}

func (r *recorder) ref(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var first, second string
	var version starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &first, "model?", &second, "version?", &version, "v?", &version); err != nil {
		return nil, err
	}
	ref := core.Ref{Name: first, Pos: r.pos}
	if second != "" {
		ref = core.Ref{Package: first, Name: second, Pos: r.pos}
	}
	r.calls.Refs = append(r.calls.Refs, ref)
	return starlark.String(ref.Name), nil
}

func (r *recorder) source(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var src, table string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "source_name", &src, "table_name", &table); err != nil {
		return nil, err
	}
	r.calls.Sources = append(r.calls.Sources, core.SourceRef{Source: src, Table: table, Pos: r.pos})
	return starlark.String(src + "." + table), nil
}

func (r *recorder) config(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s: unexpected positional arguments", b.Name())
	}
	if r.calls.Config == nil {
		r.calls.Config = make(map[string]any, len(kwargs))
		r.calls.ConfigPos = r.pos
	}
	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		v, err := ToGo(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", b.Name(), key, err)
		}
		r.calls.Config[key] = v
	}
	return starlark.String(""), nil
}

func (r *recorder) variable(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
		return nil, err
	}
	r.calls.Vars = append(r.calls.Vars, name)
	return def, nil
}

func envVar(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var def starlark.Value = starlark.String("")
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
		return nil, err
	}
	return def, nil
}

func isIncremental(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.False, nil
}
