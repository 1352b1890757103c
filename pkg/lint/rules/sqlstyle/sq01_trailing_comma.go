package sqlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ01",
		Name:        "sql.trailing_comma",
		Group:       "sql",
		Description: "Commas go at the end of a line, not the start.",
		Severity:    core.SeverityWarning,
		Model:       checkTrailingComma,

		Rationale: `Trailing commas keep each column on its own line starting with its name, which is how
the rest of the style guide lines things up. Leading commas are a matter of taste; the project
picks one.`,

		BadExample: `select
    order_id
    , customer_id
    , status
from orders`,

		GoodExample: `select
    order_id,
    customer_id,
    status
from orders`,

		Fix: "Move the comma to the end of the previous line.",
	})
}

func checkTrailingComma(ctx *lint.ModelContext) []lint.Diagnostic {
	tokens := ctx.Model.Tokens
	var diagnostics []lint.Diagnostic
	lineStart := true
	for _, t := range tokens {
		switch {
		case t.Kind == token.NEWLINE:
			lineStart = true
			continue
		case t.Kind == token.WHITESPACE:
			continue
		case lineStart && t.IsPunct(","):
			diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactLow, "Leading comma; put commas at the end of the line"))
		}
		lineStart = false
	}
	return diagnostics
}
