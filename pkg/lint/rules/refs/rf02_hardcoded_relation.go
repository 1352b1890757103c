package refs

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "RF02",
		Name:        "refs.hardcoded_relation",
		Group:       "refs",
		Description: "Relations are selected through ref() or source(), never by name.",
		Severity:    core.SeverityError,
		Model:       checkHardcodedRelation,

		Rationale: `dbt builds its dependency graph from ref() and source(). A hard-coded schema.table is
invisible to that graph: the model may run before its input is built and always points at
one environment's schema.`,

		BadExample: `select * from analytics.stg_shop__orders`,

		GoodExample: `select * from {{ ref('stg_shop__orders') }}`,

		Fix: "Replace the relation with ref('<model>') or source('<source>', '<table>').",
	})
}

func checkHardcodedRelation(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	ctes := cteNames(m)

	var diagnostics []lint.Diagnostic
	for _, sel := range sqlscan.Selects(sqlscan.Significant(m.Tokens)) {
		for _, t := range sel.Tables {
			if t.Subquery || len(t.Relation) == 0 || !isPlainRelation(t) {
				continue
			}
			if len(t.Relation) == 1 && ctes[strings.ToLower(t.Name())] {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Message:     fmt.Sprintf("Hard-coded relation '%s'; use ref() or source()", relationText(t.Relation)),
				Pos:         t.Pos,
				ImpactScore: lint.ImpactCritical.Int(),
			})
		}
	}
	return diagnostics
}

// isPlainRelation reports whether a from-clause entry is a bare or dotted
// name, not Jinja, a table function or a lateral expression.
func isPlainRelation(t sqlscan.TableRef) bool {
	for _, tok := range t.Relation {
		if tok.IsJinja() || tok.IsPunct("(") || tok.Is("lateral") {
			return false
		}
	}
	return true
}
