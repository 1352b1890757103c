package naming

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM02",
		Name:        "naming.base",
		Group:       "naming",
		Description: "Base models are named base_<source>__<objects>.",
		Severity:    core.SeverityWarning,
		Model:       checkBaseName,

		Rationale: `Base models prepare source tables that a staging model joins or unions before renaming.
They belong to one source, so they carry the same <source>__<objects> shape as staging models
with a base_ prefix that keeps them out of marts.`,

		BadExample: `-- models/staging/stripe/base/stripe_customers.sql`,

		GoodExample: `-- models/staging/stripe/base/base_stripe__customers.sql`,

		Fix: "Rename the model to base_<source>__<objects>.",
	})
}

func checkBaseName(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer != core.LayerBase {
		return nil
	}
	source, _, ok := splitLayered(m.Name, "base_")
	if !ok {
		return []lint.Diagnostic{nameDiag("Base model '%s' should be named base_<source>__<objects>", m.Name)}
	}
	if m.Source != "" && !strings.EqualFold(source, m.Source) {
		return []lint.Diagnostic{nameDiag("Base model '%s' names source '%s' but lives in staging/%s/base", m.Name, source, m.Source)}
	}
	return nil
}
