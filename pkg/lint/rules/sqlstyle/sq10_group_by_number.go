package sqlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ10",
		Name:        "sql.group_by_number",
		Group:       "sql",
		Description: "Group by column positions, not names.",
		Severity:    core.SeverityInfo,
		Model:       checkGroupByNumber,

		Rationale: `Grouping by position keeps the group by short and in step with the select list, since
the grouped fields always come first.`,

		BadExample: `select customer_id, count(*) as orders
from orders
group by customer_id`,

		GoodExample: `select customer_id, count(*) as orders
from orders
group by 1`,

		Fix: "Replace the grouped expressions with their positions in the select list.",
	})
}

func checkGroupByNumber(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range selects(ctx) {
		for _, item := range sel.GroupBy {
			if isPositional(item) {
				continue
			}
			diagnostics = append(diagnostics, diagAt(item[0].Pos, lint.ImpactLow, "Group by column position instead of name or expression"))
			break
		}
	}
	return diagnostics
}

// isPositional accepts a column number, group by all, and Jinja.
func isPositional(item []token.Token) bool {
	if len(item) == 0 {
		return true
	}
	if len(item) == 1 && (item[0].Kind == token.NUMBER || item[0].Is("all")) {
		return true
	}
	for _, t := range item {
		if t.IsJinja() {
			return true
		}
	}
	return false
}
