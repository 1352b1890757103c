package naming

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM01",
		Name:        "naming.staging",
		Group:       "naming",
		Description: "Staging models are named stg_<source>__<objects>.",
		Severity:    core.SeverityWarning,
		Model:       checkStagingName,

		Rationale: `Staging models are the one place a source system enters the project. Naming them
stg_<source>__<objects> makes the source visible in every downstream ref() and keeps models
from different systems apart even when they describe the same objects.`,

		BadExample: `-- models/staging/stripe/payments.sql
-- models/staging/stripe/stg_payments.sql
-- models/staging/stripe/stg_braintree__payments.sql`,

		GoodExample: `-- models/staging/stripe/stg_stripe__payments.sql`,

		Fix: "Rename the model to stg_<source>__<objects>, using the name of the source folder it lives in.",
	})
}

func checkStagingName(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer != core.LayerStaging {
		return nil
	}
	source, _, ok := splitLayered(m.Name, "stg_")
	if !ok {
		return []lint.Diagnostic{nameDiag("Staging model '%s' should be named stg_<source>__<objects>", m.Name)}
	}
	if m.Source != "" && !strings.EqualFold(source, m.Source) {
		return []lint.Diagnostic{nameDiag("Staging model '%s' names source '%s' but lives in staging/%s", m.Name, source, m.Source)}
	}
	return nil
}
