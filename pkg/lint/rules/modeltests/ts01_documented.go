package modeltests

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "TS01",
		Name:        "testing.documented",
		Group:       "testing",
		Description: "Every model is described in a properties file of its own folder.",
		Severity:    core.SeverityWarning,
		Model:       checkDocumented,

		Rationale: `A model without a properties entry has no description, no column docs and no tests.
Keeping the entry in the model's own folder means it moves with the model and is found where
readers look for it.`,

		BadExample: `models/marts/core/dim_customers.sql
models/marts/core/core.yml      # does not mention dim_customers`,

		GoodExample: `# models/marts/core/core.yml
models:
  - name: dim_customers
    description: One row per customer.`,

		Fix: "Add an entry with a description for the model to the properties file of its folder.",
	})
}

func checkDocumented(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	props, file := ctx.Properties()
	if props == nil {
		return []lint.Diagnostic{{
			Message:     fmt.Sprintf("Model '%s' is not described in any properties file", m.Name),
			Pos:         token.Position{Line: 1, Column: 1},
			ImpactScore: lint.ImpactHigh.Int(),
		}}
	}

	var diagnostics []lint.Diagnostic
	if file.Dir != m.Dir {
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     fmt.Sprintf("Model '%s' is described in %s, outside its folder %s", m.Name, file.Path, m.Dir),
			FilePath:    file.FilePath,
			Pos:         props.Pos,
			ImpactScore: lint.ImpactLow.Int(),
		})
	}
	if strings.TrimSpace(props.Description) == "" {
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     fmt.Sprintf("Model '%s' has no description", m.Name),
			FilePath:    file.FilePath,
			Pos:         props.Pos,
			ImpactScore: lint.ImpactMedium.Int(),
		})
	}
	return diagnostics
}
