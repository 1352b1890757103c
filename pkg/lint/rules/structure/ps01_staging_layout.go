package structure

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "PS01",
		Name:        "structure.staging_layout",
		Group:       "structure",
		Description: "Staging models live in staging/<source>/ and base models in staging/<source>/base/.",
		Severity:    core.SeverityWarning,
		Model:       checkStagingLayout,

		Rationale: `One folder per source keeps each system's staging models, source definitions and
tests together, and lets "dbt run -s staging.stripe" rebuild exactly one source.`,

		BadExample: `models/staging/stg_stripe__payments.sql
models/staging/stripe/base_stripe__customers.sql`,

		GoodExample: `models/staging/stripe/stg_stripe__payments.sql
models/staging/stripe/base/base_stripe__customers.sql`,

		Fix: "Move the model into staging/<source>/, or staging/<source>/base/ for base models.",
	})
}

var fileStart = token.Position{Line: 1, Column: 1}

func checkStagingLayout(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	prefix, _ := core.PrefixLayer(m.Name)
	folder := core.PlacementFromPath(m.Dir)

	var want string
	switch {
	case prefix == core.LayerBase || (m.Layer == core.LayerBase && prefix == core.LayerOther):
		if folder.Layer == core.LayerBase && folder.Source != "" {
			return nil
		}
		want = "staging/<source>/base/"
	case prefix == core.LayerStaging || (m.Layer == core.LayerStaging && prefix == core.LayerOther):
		if folder.Layer == core.LayerStaging && folder.Source != "" {
			return nil
		}
		want = "staging/<source>/"
	default:
		return nil
	}

	return []lint.Diagnostic{{
		Message:     fmt.Sprintf("%s model '%s' should live in %s, not %s", layerTitle(m.Layer, prefix), m.Name, want, m.Dir),
		Pos:         fileStart,
		ImpactScore: lint.ImpactMedium.Int(),
	}}
}

func layerTitle(layer, prefix core.Layer) string {
	if prefix == core.LayerBase || layer == core.LayerBase {
		return "Base"
	}
	return "Staging"
}
