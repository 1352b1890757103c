package fields

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// column is one output column of a model.
type column struct {
	Name string
	Pos  token.Position
	// Expr is the defining expression, nil when the column is only selected by name
	Expr []token.Token
	// Type is the lowercased base type name, "" when unknown
	Type string
}

// outputColumns returns the model's output columns with the select item that
// defines each one. Aliased items win over plain references.
func outputColumns(ctx *lint.ModelContext) []column {
	m := ctx.Model
	selects := sqlscan.Selects(sqlscan.Significant(m.Tokens))

	defining := make(map[string]sqlscan.SelectItem)
	for _, sel := range selects {
		for _, item := range sel.Items {
			name := strings.ToLower(item.Name())
			if name == "" {
				continue
			}
			prev, seen := defining[name]
			if !seen || (prev.Alias == "" && item.Alias != "") {
				defining[name] = item
			}
		}
	}

	names := m.Columns
	if names == nil {
		names = finalNames(m.Outline.Final)
	}
	props, _ := ctx.Properties()

	cols := make([]column, 0, len(names))
	for _, name := range names {
		col := column{Name: name, Pos: token.Position{Line: 1, Column: 1}}
		if item, ok := defining[strings.ToLower(name)]; ok {
			col.Pos = item.Pos()
			if item.Alias != "" {
				col.Pos = item.AliasPos
				col.Expr = item.Expr
			}
			col.Type = castType(item.Expr)
		}
		if props != nil {
			if pc, ok := props.Column(name); ok && pc.DataType != "" {
				col.Type = baseType(pc.DataType)
			}
		}
		cols = append(cols, col)
	}
	return cols
}

// finalNames returns the named items of the top-level final select.
func finalNames(final []token.Token) []string {
	for _, sel := range sqlscan.Selects(final) {
		if sel.Depth != 0 {
			continue
		}
		var names []string
		for _, item := range sel.Items {
			if n := item.Name(); n != "" {
				names = append(names, n)
			}
		}
		return names
	}
	return nil
}

// castType returns the type of the outermost cast in an expression:
// expr::type, cast(expr as type) or try_cast(expr as type).
func castType(expr []token.Token) string {
	depths := sqlscan.Depths(expr)
	typ := ""
	for i, t := range expr {
		switch {
		case t.IsPunct("::") && i+1 < len(expr) && depths[i] == 0:
			typ = baseType(expr[i+1].Text)
		case (t.Is("cast") || t.Is("try_cast")) && depths[i] == 0 && i+1 < len(expr) && expr[i+1].IsPunct("("):
			end := sqlscan.MatchParen(expr, i+1)
			for j := end - 1; j > i+1; j-- {
				if expr[j].Is("as") && depths[j] == 1 && j+1 < len(expr) {
					typ = baseType(expr[j+1].Text)
					break
				}
			}
		}
	}
	return typ
}

// baseType lowercases a type and drops its parameters: "NUMERIC(10, 2)" -> "numeric".
func baseType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	return t
}

var timestampTypes = map[string]bool{
	"timestamp": true, "timestamptz": true, "timestamp_ntz": true,
	"timestamp_ltz": true, "timestamp_tz": true, "datetime": true,
}

var integerTypes = map[string]bool{
	"int": true, "integer": true, "bigint": true, "smallint": true,
	"tinyint": true, "int64": true, "int4": true, "int8": true,
}

var booleanTypes = map[string]bool{"boolean": true, "bool": true}

func columnDiag(col column, impact lint.ImpactLevel, msg string) lint.Diagnostic {
	return lint.Diagnostic{Message: msg, Pos: col.Pos, ImpactScore: impact.Int()}
}

// isStagingLike reports whether the model is a base or staging model.
func isStagingLike(m *core.Model) bool {
	return m.Layer == core.LayerBase || m.Layer == core.LayerStaging
}
