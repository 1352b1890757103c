package structure

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "PS04",
		Name:        "structure.mart_materialization",
		Group:       "structure",
		Description: "Mart models are materialized as tables.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"allowed"},
		Model:       checkMartMaterialization,

		Rationale: `Marts are queried directly by people and BI tools. Materializing them as tables keeps
those queries fast; views and ephemeral models push the whole upstream computation into every
dashboard refresh.`,

		BadExample: `# dbt_project.yml
models:
  jaffle_shop:
    +materialized: view   # marts inherit view`,

		GoodExample: `# dbt_project.yml
models:
  jaffle_shop:
    +materialized: view
    marts:
      +materialized: table`,

		Fix: "Set +materialized: table for the marts folder in dbt_project.yml. Incremental is allowed by default; change the list with the 'allowed' option.",
	})
}

var defaultMartMaterializations = []string{"table", "incremental"}

func checkMartMaterialization(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer != core.LayerMarts {
		return nil
	}
	allowed := lint.GetStringSliceOption(ctx.Options, "allowed", defaultMartMaterializations)
	mat, origin := ctx.Project.Materialization(m)
	for _, a := range allowed {
		if strings.EqualFold(a, mat) {
			return nil
		}
	}

	pos := fileStart
	if origin == core.OriginModel && m.ConfigPos.IsValid() {
		pos = m.ConfigPos
	}
	return []lint.Diagnostic{{
		Message:     fmt.Sprintf("Mart model '%s' is materialized as %s (from %s); expected %s", m.Name, mat, origin, strings.Join(allowed, " or ")),
		Pos:         pos,
		ImpactScore: lint.ImpactHigh.Int(),
	}}
}
