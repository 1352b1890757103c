package naming

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM04",
		Name:        "naming.mart",
		Group:       "naming",
		Description: "Mart models are prefixed fct_ or dim_.",
		Severity:    core.SeverityWarning,
		Model:       checkMartName,

		Rationale: `Marts are what analysts and BI tools query. A fct_ prefix marks tall tables of events
or transactions and dim_ marks wide tables of entities, which tells consumers how to join and
aggregate them.`,

		BadExample: `-- models/marts/core/customers.sql
-- models/marts/core/order_metrics.sql`,

		GoodExample: `-- models/marts/core/dim_customers.sql
-- models/marts/core/fct_orders.sql`,

		Fix: "Rename the model with fct_ for facts or dim_ for dimensions.",
	})
}

func checkMartName(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer != core.LayerMarts {
		return nil
	}
	lower := strings.ToLower(m.Name)
	if strings.HasPrefix(lower, "fct_") || strings.HasPrefix(lower, "dim_") {
		return nil
	}
	return []lint.Diagnostic{nameDiag("Mart model '%s' should be prefixed fct_ or dim_", m.Name)}
}
