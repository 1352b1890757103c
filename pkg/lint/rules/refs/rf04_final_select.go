package refs

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "RF04",
		Name:        "ctes.final_select",
		Group:       "refs",
		Description: "A model with CTEs ends with select * from <cte>.",
		Severity:    core.SeverityInfo,
		Model:       checkFinalSelect,

		Rationale: `Ending every model with select * from a named CTE makes it easy to debug: swap the
name to inspect any intermediate step without rewriting the query.`,

		BadExample: `with orders as (...)

select order_id, sum(amount) as amount
from orders
group by 1`,

		GoodExample: `with orders as (...),

final as (
    select order_id, sum(amount) as amount
    from orders
    group by 1
)

select * from final`,

		Fix: "Wrap the last statement in a CTE (often called final) and end the model with select * from it.",
	})
}

func checkFinalSelect(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	o := m.Outline
	if !o.HasWith {
		return nil
	}
	pos := token.Position{Line: 1, Column: 1}
	if len(o.Final) > 0 {
		pos = o.Final[0].Pos
	}

	target, ok := sqlscan.FinalSelectTarget(o.Final)
	if !ok {
		return []lint.Diagnostic{{
			Message:     fmt.Sprintf("Model '%s' should end with select * from <cte>", m.Name),
			Pos:         pos,
			ImpactScore: lint.ImpactLow.Int(),
		}}
	}
	if !cteNames(m)[strings.ToLower(target)] {
		return []lint.Diagnostic{{
			Message:     fmt.Sprintf("Final select reads from '%s', which is not a CTE of this model", target),
			Pos:         pos,
			ImpactScore: lint.ImpactLow.Int(),
		}}
	}
	return nil
}
