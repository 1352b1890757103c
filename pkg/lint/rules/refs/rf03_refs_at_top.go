package refs

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "RF03",
		Name:        "ctes.refs_at_top",
		Group:       "refs",
		Description: "Every ref() and source() sits in an import CTE at the top of the model.",
		Severity:    core.SeverityWarning,
		Model:       checkRefsAtTop,

		Rationale: `Listing a model's inputs as import CTEs at the top shows its dependencies at a glance,
and the logic below reads from short CTE names instead of Jinja calls.`,

		BadExample: `with

orders as (
    select * from {{ ref('stg_shop__orders') }}
),

joined as (
    select *
    from orders
    left join {{ ref('stg_shop__customers') }} using (customer_id)
)

select * from joined`,

		GoodExample: `with

orders as (
    select * from {{ ref('stg_shop__orders') }}
),

customers as (
    select * from {{ ref('stg_shop__customers') }}
),

joined as (
    select *
    from orders
    left join customers using (customer_id)
)

select * from joined`,

		Fix: "Move each ref() and source() into its own 'name as (select * from ...)' CTE before the logic CTEs.",
	})
}

func checkRefsAtTop(ctx *lint.ModelContext) []lint.Diagnostic {
	o := ctx.Model.Outline
	var diagnostics []lint.Diagnostic

	seenLogic := false
	for _, cte := range o.CTEs {
		if isImportCTE(cte) {
			if seenLogic {
				diagnostics = append(diagnostics, lint.Diagnostic{
					Message:     fmt.Sprintf("Import CTE '%s' should come before the logic CTEs", cte.Name),
					Pos:         cte.Pos,
					ImpactScore: lint.ImpactLow.Int(),
				})
			}
			continue
		}
		seenLogic = true
		diagnostics = append(diagnostics, inlineImports(cte.Body, fmt.Sprintf("logic CTE '%s'", cte.Name))...)
	}

	where := "the final select"
	if !o.HasWith {
		where = "a model without import CTEs"
	}
	diagnostics = append(diagnostics, inlineImports(o.Final, where)...)
	return diagnostics
}

func inlineImports(toks []token.Token, where string) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, t := range toks {
		if sqlscan.IsImportExpr(t) {
			diagnostics = append(diagnostics, lint.Diagnostic{
				Message:     fmt.Sprintf("%s is used in %s; move it to an import CTE at the top", t.Text, where),
				Pos:         t.Pos,
				ImpactScore: lint.ImpactMedium.Int(),
			})
		}
	}
	return diagnostics
}
