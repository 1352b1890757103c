package sqlstyle

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ05",
		Name:        "sql.explicit_alias",
		Group:       "sql",
		Description: "Fields and tables are aliased with as.",
		Severity:    core.SeverityWarning,
		Model:       checkExplicitAlias,

		Rationale: `Without as, a missing comma silently turns the next column into an alias of the
previous one. Writing as makes every rename intentional and easy to find.`,

		BadExample: `select
    id payment_id,
    amount
from payments p`,

		GoodExample: `select
    id as payment_id,
    amount
from payments as p`,

		Fix: "Insert as between the expression and its alias.",
	})
}

func checkExplicitAlias(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range selects(ctx) {
		for _, item := range sel.Items {
			if item.Implicit {
				diagnostics = append(diagnostics, diagAt(item.AliasPos, lint.ImpactMedium,
					fmt.Sprintf("Alias '%s' should be introduced with as", item.Alias)))
			}
		}
		for _, t := range sel.Tables {
			if t.Alias != "" && !t.ExplicitAs {
				diagnostics = append(diagnostics, diagAt(t.AliasPos, lint.ImpactLow,
					fmt.Sprintf("Table alias '%s' should be introduced with as", t.Alias)))
			}
		}
	}
	return diagnostics
}
