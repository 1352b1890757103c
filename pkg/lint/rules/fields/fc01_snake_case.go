package fields

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC01",
		Name:        "fields.snake_case",
		Group:       "fields",
		Description: "Column names are snake_case.",
		Severity:    core.SeverityWarning,
		Model:       checkColumnSnakeCase,

		Rationale: `Mixed-case or spaced column names must be quoted in every query that touches them.
Renaming them to snake_case in staging means no downstream model or dashboard has to.`,

		BadExample: `select
    "CustomerID" as "CustomerId",
    "First Name" as "First Name"
from source`,

		GoodExample: `select
    "CustomerID" as customer_id,
    "First Name" as first_name
from source`,

		Fix: "Alias the column to a lowercase snake_case name.",
	})
}

var snakeColumn = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkColumnSnakeCase(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, col := range outputColumns(ctx) {
		if !snakeColumn.MatchString(col.Name) {
			diagnostics = append(diagnostics, columnDiag(col, lint.ImpactMedium,
				fmt.Sprintf("Column '%s' should be snake_case", col.Name)))
		}
	}
	return diagnostics
}
