package refs

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "RF05",
		Name:        "ctes.duplicated",
		Group:       "refs",
		Description: "A logic CTE repeated across models should become its own model.",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"min_tokens"},
		Project:     checkDuplicatedCTEs,

		Rationale: `Copies of the same logic drift apart as each one is edited on its own. A CTE that appears
in several models is a model waiting to be extracted and ref()'d.`,

		BadExample: `-- fct_orders.sql and fct_returns.sql both contain
order_totals as (
    select order_id, sum(amount) as total from payments group by 1
)`,

		GoodExample: `-- models/marts/core/intermediate/orders__totaled.sql holds the logic once
order_totals as (
    select * from {{ ref('orders__totaled') }}
)`,

		Fix: "Move the CTE into an intermediate model and ref() it from every model that needs it.",
	})
}

type cteSite struct {
	model *core.Model
	cte   core.CTE
}

func checkDuplicatedCTEs(ctx *lint.ProjectContext) []lint.Diagnostic {
	minTokens := lint.GetIntOption(ctx.Options, "min_tokens", 20)

	sites := make(map[string][]cteSite)
	var order []string
	for _, m := range ctx.Project.Models {
		for _, cte := range m.Outline.CTEs {
			if cte.Imports > 0 || len(cte.Body) < minTokens {
				continue
			}
			key := bodyKey(cte)
			if _, seen := sites[key]; !seen {
				order = append(order, key)
			}
			sites[key] = append(sites[key], cteSite{model: m, cte: cte})
		}
	}

	var diagnostics []lint.Diagnostic
	for _, key := range order {
		group := sites[key]
		if len(group) < 2 || distinctModels(group) < 2 {
			continue
		}
		first := group[0]
		for _, s := range group[1:] {
			if s.model == first.model {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Message: fmt.Sprintf("CTE '%s' duplicates '%s' in model '%s'; extract it into its own model",
					s.cte.Name, first.cte.Name, first.model.Name),
				FilePath:    s.model.FilePath,
				Model:       s.model.Name,
				Pos:         s.cte.Pos,
				ImpactScore: lint.ImpactMedium.Int(),
				RelatedInfo: []lint.RelatedInfo{{
					FilePath: first.model.FilePath,
					Pos:      first.cte.Pos,
					Message:  "first defined here",
				}},
			})
		}
	}
	return diagnostics
}

// bodyKey normalises a CTE body so formatting and case do not matter.
func bodyKey(c core.CTE) string {
	parts := make([]string, len(c.Body))
	for i, t := range c.Body {
		parts[i] = strings.ToLower(t.Text)
	}
	return strings.Join(parts, " ")
}

func distinctModels(group []cteSite) int {
	seen := make(map[*core.Model]bool)
	for _, s := range group {
		seen[s.model] = true
	}
	return len(seen)
}
