package fields

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC04",
		Name:        "fields.reserved_word",
		Group:       "fields",
		Description: "Column names are not SQL reserved words.",
		Severity:    core.SeverityWarning,
		Model:       checkReservedWord,

		Rationale: `Reserved words such as date, order or user have to be quoted in some warehouses and
break queries in others. A more descriptive name avoids both.`,

		BadExample: `select
    created_on as date,
    kind as type
from source`,

		GoodExample: `select
    created_on as created_date,
    kind as payment_type
from source`,

		Fix: "Rename the column to something more specific that is not a reserved word.",
	})
}

func checkReservedWord(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, col := range outputColumns(ctx) {
		if sqlscan.IsReserved(col.Name) {
			diagnostics = append(diagnostics, columnDiag(col, lint.ImpactMedium,
				fmt.Sprintf("Column '%s' is a reserved word", col.Name)))
		}
	}
	return diagnostics
}
