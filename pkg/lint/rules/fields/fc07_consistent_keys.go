package fields

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC07",
		Name:        "fields.consistent_keys",
		Group:       "fields",
		Description: "A column with a relationships test is named like the field it references.",
		Severity:    core.SeverityInfo,
		Properties:  checkConsistentKeys,

		Rationale: `When a foreign key carries the same name as the key it points to, joins are obvious and
"using (customer_id)" works. A relationships test already states the pairing, so the names
should agree.`,

		BadExample: `columns:
  - name: cust
    tests:
      - relationships:
          to: ref('dim_customers')
          field: customer_id`,

		GoodExample: `columns:
  - name: customer_id
    tests:
      - relationships:
          to: ref('dim_customers')
          field: customer_id`,

		Fix: "Rename the column to match the referenced field.",
	})
}

func checkConsistentKeys(ctx *lint.PropertiesContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, m := range ctx.File.Models {
		for _, col := range m.Columns {
			rel, ok := col.Test("relationships")
			if !ok {
				continue
			}
			field := rel.StringArg("field")
			if field == "" || strings.EqualFold(field, col.Name) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Message:     fmt.Sprintf("Column '%s' of model '%s' references '%s' and should share its name", col.Name, m.Name, field),
				Model:       m.Name,
				Pos:         col.Pos,
				ImpactScore: lint.ImpactLow.Int(),
			})
		}
	}
	return diagnostics
}
