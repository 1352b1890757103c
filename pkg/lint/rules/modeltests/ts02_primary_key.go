package modeltests

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "TS02",
		Name:        "testing.primary_key",
		Group:       "testing",
		Description: "Every model has a primary key tested unique and not_null.",
		Severity:    core.SeverityError,
		Model:       checkPrimaryKeyTested,

		Rationale: `A primary key test is the cheapest guard against fan-out joins and duplicated source
rows. Without one, a bad join silently multiplies every metric built on the model.`,

		BadExample: `models:
  - name: dim_customers
    columns:
      - name: customer_id`,

		GoodExample: `models:
  - name: dim_customers
    columns:
      - name: customer_id
        tests:
          - unique
          - not_null`,

		Fix: "Add unique and not_null tests to the model's primary key column, or a unique_combination_of_columns test for a composite key.",
	})
}

func checkPrimaryKeyTested(ctx *lint.ModelContext) []lint.Diagnostic {
	props, file := ctx.Properties()
	if props == nil {
		return nil
	}
	if len(primaryKeys(props)) > 0 || hasCompositeKey(props) {
		return nil
	}
	return []lint.Diagnostic{{
		Message:     fmt.Sprintf("Model '%s' has no column tested both unique and not_null", ctx.Model.Name),
		FilePath:    file.FilePath,
		Pos:         props.Pos,
		ImpactScore: lint.ImpactHigh.Int(),
	}}
}
