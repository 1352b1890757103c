package naming

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM07",
		Name:        "naming.prefix_location",
		Group:       "naming",
		Description: "A model's layer prefix matches the folder it lives in.",
		Severity:    core.SeverityWarning,
		Model:       checkPrefixLocation,

		Rationale: `The prefix and the folder both say which layer a model belongs to. When they disagree,
one of them is wrong, and selectors such as "dbt run -s staging" no longer pick the models
their names promise.`,

		BadExample: `-- models/marts/core/stg_stripe__payments.sql
-- models/staging/stripe/fct_payments.sql`,

		GoodExample: `-- models/staging/stripe/stg_stripe__payments.sql
-- models/marts/core/fct_payments.sql`,

		Fix: "Move the model to the folder of its layer, or rename it with the prefix of the folder it is in.",
	})
}

func checkPrefixLocation(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	prefix, ok := core.PrefixLayer(m.Name)
	if !ok {
		return nil
	}
	folder := core.PlacementFromPath(m.Dir).Layer
	if folder == core.LayerOther || folder == prefix {
		return nil
	}
	return []lint.Diagnostic{nameDiag("Model '%s' has a %s prefix but lives in a %s folder (%s)", m.Name, prefix, folder, m.Dir)}
}
