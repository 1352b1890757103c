package yamlstyle

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "YM03",
		Name:        "yaml.line_length",
		Group:       "yaml",
		Description: "Lines in properties files are no longer than 80 characters.",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"max_length"},
		Properties:  checkLineLength,

		Rationale: `Long descriptions are easier to review as folded block scalars than as one line that
scrolls off the screen.`,

		BadExample: `    description: One row per customer, including customers who have never placed an order.`,

		GoodExample: `    description: >
      One row per customer, including customers who have never
      placed an order.`,

		Fix: "Use a folded block scalar (>) for long text.",
	})
}

func checkLineLength(ctx *lint.PropertiesContext) []lint.Diagnostic {
	limit := lint.GetIntOption(ctx.Options, "max_length", 80)
	var diagnostics []lint.Diagnostic
	for i, l := range ctx.File.Lines {
		n := utf8.RuneCountInString(l)
		if n <= limit {
			continue
		}
		diagnostics = append(diagnostics, diagAt(token.Position{Line: i + 1, Column: limit + 1},
			fmt.Sprintf("Line is %d characters long; the limit is %d", n, limit)))
	}
	return diagnostics
}
