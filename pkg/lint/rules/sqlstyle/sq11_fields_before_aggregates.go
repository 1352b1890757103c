package sqlstyle

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ11",
		Name:        "sql.fields_before_aggregates",
		Group:       "sql",
		Description: "Plain fields come before aggregates and window functions.",
		Severity:    core.SeverityInfo,
		Model:       checkFieldsBeforeAggregates,

		Rationale: `Listing the grouped fields first is what makes group by 1, 2 work, and shows the grain
of the result before the measures computed over it.`,

		BadExample: `select
    count(*) as orders,
    customer_id
from orders
group by 2`,

		GoodExample: `select
    customer_id,
    count(*) as orders
from orders
group by 1`,

		Fix: "Move the plain fields to the top of the select list.",
	})
}

func checkFieldsBeforeAggregates(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range selects(ctx) {
		seenAggregate := false
		for _, item := range sel.Items {
			if item.IsAggregate() {
				seenAggregate = true
				continue
			}
			if !seenAggregate || item.IsStar() || len(item.Expr) == 0 {
				continue
			}
			name := item.Name()
			if name == "" {
				name = item.Expr[0].Text
			}
			diagnostics = append(diagnostics, diagAt(item.Pos(), lint.ImpactLow,
				fmt.Sprintf("Field '%s' should come before aggregates and window functions", name)))
		}
	}
	return diagnostics
}
