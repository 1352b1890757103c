package sqlstyle

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ09",
		Name:        "sql.join_alias",
		Group:       "sql",
		Description: "Tables in joins are not aliased with short initialisms.",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"min_length"},
		Model:       checkJoinAlias,

		Rationale: `In a join condition, customers.customer_id says what is joined; c.customer_id makes
the reader scroll back to find out what c is. CTE names are already short and meaningful.`,

		BadExample: `select o.order_id, c.name
from orders as o
left join customers as c on o.customer_id = c.customer_id`,

		GoodExample: `select orders.order_id, customers.name
from orders
left join customers on orders.customer_id = customers.customer_id`,

		Fix: "Drop the alias and qualify columns with the CTE name, or use a descriptive alias.",
	})
}

func checkJoinAlias(ctx *lint.ModelContext) []lint.Diagnostic {
	minLength := lint.GetIntOption(ctx.Options, "min_length", 3)

	var diagnostics []lint.Diagnostic
	for _, sel := range selects(ctx) {
		if !sel.HasJoin() {
			continue
		}
		for _, t := range sel.Tables {
			if t.Alias == "" || t.Subquery {
				continue
			}
			alias := strings.ToLower(t.Alias)
			if len(alias) >= minLength && alias != initials(t.Name()) {
				continue
			}
			diagnostics = append(diagnostics, diagAt(t.AliasPos, lint.ImpactLow,
				fmt.Sprintf("Join alias '%s' is too short to say what it stands for", t.Alias)))
		}
	}
	return diagnostics
}

// initials returns the first letter of each underscore-separated word: order_items -> oi.
func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.ToLower(name), "_") {
		if part != "" {
			b.WriteByte(part[0])
		}
	}
	return b.String()
}
