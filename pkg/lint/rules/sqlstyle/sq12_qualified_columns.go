package sqlstyle

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ12",
		Name:        "sql.qualified_columns",
		Group:       "sql",
		Description: "When joining two or more tables, columns are prefixed with the table name.",
		Severity:    core.SeverityWarning,
		Model:       checkQualifiedColumns,

		Rationale: `With several tables in scope, an unqualified column makes the reader guess which
table it comes from, and breaks as soon as another table gains a column of the same name.`,

		BadExample: `select order_id, name
from orders
left join customers using (customer_id)`,

		GoodExample: `select orders.order_id, customers.name
from orders
left join customers using (customer_id)`,

		Fix: "Prefix the column with its table name or alias.",
	})
}

func checkQualifiedColumns(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range selects(ctx) {
		if !sel.HasJoin() {
			continue
		}
		for _, item := range sel.Items {
			for _, col := range unqualified(item.Expr) {
				diagnostics = append(diagnostics, diagAt(col.Pos, lint.ImpactMedium,
					fmt.Sprintf("Column '%s' should be qualified with its table when joining", col.Text)))
			}
		}
	}
	return diagnostics
}

// unqualified returns the column references in expr that carry no table prefix.
func unqualified(expr []token.Token) []token.Token {
	var out []token.Token
	for i, t := range expr {
		if t.Kind != token.IDENT || sqlscan.IsReserved(t.Text) {
			continue
		}
		if i > 0 && (expr[i-1].IsPunct(".") || expr[i-1].IsPunct("::") || expr[i-1].Is("as")) {
			continue
		}
		if i+1 < len(expr) && (expr[i+1].IsPunct(".") || expr[i+1].IsPunct("(")) {
			continue
		}
		out = append(out, t)
	}
	return out
}
