package modeltests

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "TS03",
		Name:        "testing.primary_key_name",
		Group:       "testing",
		Description: "The primary key is named <object>_id, never a bare id.",
		Severity:    core.SeverityWarning,
		Model:       checkPrimaryKeyName,

		Rationale: `Naming keys after their object means the same column has the same name in every model
that carries it, so joins read customer_id = customer_id instead of id = customer_id.`,

		BadExample: `models:
  - name: stg_stripe__payments
    columns:
      - name: id
        tests: [unique, not_null]`,

		GoodExample: `models:
  - name: stg_stripe__payments
    columns:
      - name: payment_id
        tests: [unique, not_null]`,

		Fix: "Rename the key column to <object>_id, using the singular of the model's object.",
	})
}

// expectedKeyName returns "<object>_id" for a model name.
func expectedKeyName(model string) string {
	object := strings.ToLower(core.ObjectName(model))
	if object == "" {
		return ""
	}
	if i := strings.LastIndex(object, "_"); i >= 0 {
		return object[:i+1] + core.Singular(object[i+1:]) + "_id"
	}
	return core.Singular(object) + "_id"
}

func checkPrimaryKeyName(ctx *lint.ModelContext) []lint.Diagnostic {
	props, file := ctx.Properties()
	if props == nil {
		return nil
	}
	want := expectedKeyName(ctx.Model.Name)

	var diagnostics []lint.Diagnostic
	for _, col := range primaryKeys(props) {
		name := strings.ToLower(col.Name)
		var msg string
		switch {
		case name == "id":
			msg = fmt.Sprintf("Primary key of model '%s' is a bare 'id'; name it '%s'", ctx.Model.Name, want)
		case want != "" && name != want:
			msg = fmt.Sprintf("Primary key '%s' of model '%s' should be named '%s'", col.Name, ctx.Model.Name, want)
		default:
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     msg,
			FilePath:    file.FilePath,
			Pos:         col.Pos,
			ImpactScore: lint.ImpactMedium.Int(),
		})
	}
	return diagnostics
}
