package sqlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ07",
		Name:        "sql.explicit_join",
		Group:       "sql",
		Description: "Write inner join, not a bare join.",
		Severity:    core.SeverityInfo,
		Model:       checkExplicitJoin,

		Rationale: `Spelling out the join type makes every join read the same way and shows that an inner
join was chosen, not assumed.`,

		BadExample: `select *
from orders
join customers using (customer_id)`,

		GoodExample: `select *
from orders
inner join customers using (customer_id)`,

		Fix: "Write inner join.",
	})
}

func checkExplicitJoin(ctx *lint.ModelContext) []lint.Diagnostic {
	sig := significant(ctx)
	var diagnostics []lint.Diagnostic
	for i, t := range sig {
		if !t.Is("join") {
			continue
		}
		if i > 0 && sig[i-1].IsWord() && joinWords[sig[i-1].Lower()] {
			continue
		}
		diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactLow, "Write inner join instead of join"))
	}
	return diagnostics
}
