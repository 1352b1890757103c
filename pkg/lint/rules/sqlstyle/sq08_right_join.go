package sqlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ08",
		Name:        "sql.right_join",
		Group:       "sql",
		Description: "Avoid right joins.",
		Severity:    core.SeverityWarning,
		Model:       checkRightJoin,

		Rationale: `A right join keeps every row of the table written last, which reverses the usual
reading order of a from clause. Swapping the tables and using a left join says the same thing
in the order readers expect.`,

		BadExample: `select *
from orders
right join customers using (customer_id)`,

		GoodExample: `select *
from customers
left join orders using (customer_id)`,

		Fix: "Swap the two relations and use a left join.",
	})
}

func checkRightJoin(ctx *lint.ModelContext) []lint.Diagnostic {
	sig := significant(ctx)
	var diagnostics []lint.Diagnostic
	for i, t := range sig {
		if !t.Is("right") {
			continue
		}
		j := i + 1
		if j < len(sig) && sig[j].Is("outer") {
			j++
		}
		if j < len(sig) && sig[j].Is("join") {
			diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactMedium, "Use a left join with the relations swapped instead of a right join"))
		}
	}
	return diagnostics
}
