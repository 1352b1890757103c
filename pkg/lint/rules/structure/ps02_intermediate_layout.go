package structure

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "PS02",
		Name:        "structure.intermediate_layout",
		Group:       "structure",
		Description: "Intermediate models live in marts/<unit>/intermediate/.",
		Severity:    core.SeverityWarning,
		Model:       checkIntermediateLayout,

		Rationale: `Intermediate models exist to feed the marts of one business unit. Keeping them next to
those marts makes their purpose obvious and stops them from turning into a shared layer
nobody owns.`,

		BadExample: `models/intermediate/payments__pivoted.sql
models/marts/finance/payments__pivoted.sql`,

		GoodExample: `models/marts/finance/intermediate/payments__pivoted.sql`,

		Fix: "Move the model into the intermediate/ folder of the mart that uses it.",
	})
}

func checkIntermediateLayout(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer != core.LayerIntermediate {
		return nil
	}
	folder := core.PlacementFromPath(m.Dir)
	if folder.Layer == core.LayerIntermediate && folder.Unit != "" {
		return nil
	}
	return []lint.Diagnostic{{
		Message:     fmt.Sprintf("Intermediate model '%s' should live in marts/<unit>/intermediate/, not %s", m.Name, m.Dir),
		Pos:         fileStart,
		ImpactScore: lint.ImpactLow.Int(),
	}}
}
