package refs

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "RF01",
		Name:        "refs.source_outside_staging",
		Group:       "refs",
		Description: "Only staging and base models select from sources.",
		Severity:    core.SeverityError,
		Model:       checkSourceOutsideStaging,

		Rationale: `Staging models are the single entry point for raw data: they rename, cast and clean
each source once. A mart that reads a source directly skips that cleaning and ties business
logic to the raw schema.`,

		BadExample: `-- models/marts/core/fct_orders.sql
select * from {{ source('shop', 'orders') }}`,

		GoodExample: `-- models/marts/core/fct_orders.sql
select * from {{ ref('stg_shop__orders') }}`,

		Fix: "Select from the staging model built on the source instead, adding one if it does not exist.",
	})
}

func checkSourceOutsideStaging(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer == core.LayerStaging || m.Layer == core.LayerBase {
		return nil
	}
	var diagnostics []lint.Diagnostic
	for _, s := range m.Sources {
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message: fmt.Sprintf("%s model '%s' selects from source('%s', '%s'); only staging and base models should",
				titleLayer(m.Layer), m.Name, s.Source, s.Table),
			Pos:         s.Pos,
			ImpactScore: lint.ImpactHigh.Int(),
		})
	}
	return diagnostics
}

func titleLayer(l core.Layer) string {
	switch l {
	case core.LayerIntermediate:
		return "Intermediate"
	case core.LayerMarts:
		return "Mart"
	default:
		return "Non-staging"
	}
}
