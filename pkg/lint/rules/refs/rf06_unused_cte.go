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
		ID:          "RF06",
		Name:        "ctes.unused",
		Group:       "refs",
		Description: "CTE is defined but never referenced.",
		Severity:    core.SeverityWarning,
		Model:       checkUnusedCTE,

		Rationale: `An unused CTE is dead code. An unused import CTE is worse: dbt still records the ref()
and builds the dependency, so the model waits on an input it never reads.`,

		BadExample: `with

orders as (select * from {{ ref('stg_shop__orders') }}),
customers as (select * from {{ ref('stg_shop__customers') }})

select * from orders`,

		GoodExample: `with

orders as (select * from {{ ref('stg_shop__orders') }})

select * from orders`,

		Fix: "Remove the CTE, or use it.",
	})
}

func checkUnusedCTE(ctx *lint.ModelContext) []lint.Diagnostic {
	o := ctx.Model.Outline
	if len(o.CTEs) == 0 {
		return nil
	}

	total := relationCounts(o.Final)
	own := make([]map[string]int, len(o.CTEs))
	for i, cte := range o.CTEs {
		own[i] = relationCounts(cte.Body)
		for name, n := range own[i] {
			total[name] += n
		}
	}

	var diagnostics []lint.Diagnostic
	for i, cte := range o.CTEs {
		name := strings.ToLower(cte.Name)
		// a CTE that only reads itself is recursive, not used
		if total[name]-own[i][name] > 0 {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     fmt.Sprintf("CTE '%s' is defined but never referenced", cte.Name),
			Pos:         cte.Pos,
			ImpactScore: lint.ImpactMedium.Int(),
		})
	}
	return diagnostics
}

// relationCounts counts the lowercased unqualified relation names read by
// from and join clauses, subqueries included. Columns and aliases that
// happen to share a CTE's name are not counted.
func relationCounts(toks []token.Token) map[string]int {
	counts := make(map[string]int)
	for _, sel := range sqlscan.Selects(sqlscan.Significant(toks)) {
		for _, ref := range sel.Tables {
			if ref.Subquery || len(ref.Relation) != 1 {
				continue
			}
			if name := ref.Name(); name != "" {
				counts[strings.ToLower(name)]++
			}
		}
	}
	return counts
}
