package naming

import (
	"regexp"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM06",
		Name:        "naming.snake_case",
		Group:       "naming",
		Description: "Model names are snake_case.",
		Severity:    core.SeverityWarning,
		Model:       checkSnakeCaseName,

		Rationale: `Model names become relation names in the warehouse. Lowercase snake_case needs no quoting
in any warehouse and matches how the rest of the project is written.`,

		BadExample: `-- models/marts/core/dimCustomers.sql
-- models/marts/core/fct-orders.sql`,

		GoodExample: `-- models/marts/core/dim_customers.sql`,

		Fix: "Rename the model using lowercase letters, digits and underscores.",
	})
}

// snakeCase allows single or double underscores between lowercase words.
var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_{1,2}[a-z0-9]+)*$`)

func checkSnakeCaseName(ctx *lint.ModelContext) []lint.Diagnostic {
	if snakeCase.MatchString(ctx.Model.Name) {
		return nil
	}
	return []lint.Diagnostic{nameDiag("Model name '%s' should be snake_case", ctx.Model.Name)}
}
