package sqlstyle

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ02",
		Name:        "sql.indentation",
		Group:       "sql",
		Description: "Indent with multiples of four spaces; predicates may line up with where.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"indent_size"},
		Model:       checkIndentation,

		Rationale: `A single indent width makes nesting visible at a glance. Tabs render differently in
every editor and diff viewer, so spaces are the only safe choice.`,

		BadExample: `select
  order_id,
	status
from orders`,

		GoodExample: `select
    order_id,
    status
from orders
where status = 'paid'
  and amount > 0`,

		Fix: "Re-indent the line with a multiple of four spaces.",
	})
}

func checkIndentation(ctx *lint.ModelContext) []lint.Diagnostic {
	size := lint.GetIntOption(ctx.Options, "indent_size", 4)
	if size <= 0 {
		size = 4
	}
	tokens := ctx.Model.Tokens

	var diagnostics []lint.Diagnostic
	for i, t := range tokens {
		if t.Kind != token.WHITESPACE || (i > 0 && tokens[i-1].Kind != token.NEWLINE) {
			continue
		}
		if i+1 >= len(tokens) || tokens[i+1].Kind == token.NEWLINE {
			continue
		}
		next := tokens[i+1]
		indent := strings.TrimSuffix(t.Text, "\r")

		if strings.Contains(indent, "\t") {
			diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactLow, "Indent with spaces, not tabs"))
			continue
		}
		if len(indent)%size == 0 || next.Is("and") || next.Is("or") {
			continue
		}
		diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactLow,
			fmt.Sprintf("Indentation of %d spaces is not a multiple of %d", len(indent), size)))
	}
	return diagnostics
}
