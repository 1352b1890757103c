package sqlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ06",
		Name:        "sql.union_all",
		Group:       "sql",
		Description: "Prefer union all to union.",
		Severity:    core.SeverityWarning,
		Model:       checkUnionAll,

		Rationale: `A bare union removes duplicates with an expensive sort and hides rows that were
duplicated upstream. Use union all and deduplicate explicitly when that is what you mean.`,

		BadExample: `select * from web_orders
union
select * from store_orders`,

		GoodExample: `select * from web_orders
union all
select * from store_orders`,

		Fix: "Write union all; write union distinct if removing duplicates is intended.",
	})
}

func checkUnionAll(ctx *lint.ModelContext) []lint.Diagnostic {
	sig := significant(ctx)
	var diagnostics []lint.Diagnostic
	for i, t := range sig {
		if !t.Is("union") {
			continue
		}
		if i+1 < len(sig) && (sig[i+1].Is("all") || sig[i+1].Is("distinct")) {
			continue
		}
		diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactMedium, "Use union all instead of union"))
	}
	return diagnostics
}
