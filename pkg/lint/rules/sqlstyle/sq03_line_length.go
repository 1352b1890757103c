package sqlstyle

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "SQ03",
		Name:        "sql.line_length",
		Group:       "sql",
		Description: "Lines are no longer than 80 characters.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"max_length"},
		Model:       checkLineLength,

		Rationale: `Short lines fit side-by-side diffs and review tools without wrapping, and push long
expressions onto several lines where each part can be read on its own.`,

		BadExample: `select case when status in ('paid', 'shipped', 'delivered') then true else false end as is_fulfilled`,

		GoodExample: `select
    case
        when status in ('paid', 'shipped', 'delivered') then true
        else false
    end as is_fulfilled`,

		Fix: "Break the line; change the limit with the 'max_length' option.",
	})
}

// DefaultMaxLineLength is the line length limit when no option is set.
const DefaultMaxLineLength = 80

func checkLineLength(ctx *lint.ModelContext) []lint.Diagnostic {
	limit := lint.GetIntOption(ctx.Options, "max_length", DefaultMaxLineLength)
	var diagnostics []lint.Diagnostic
	for i, line := range ctx.Model.Lines {
		n := utf8.RuneCountInString(line)
		if n <= limit {
			continue
		}
		diagnostics = append(diagnostics, diagAt(token.Position{Line: i + 1, Column: limit + 1}, lint.ImpactLow,
			fmt.Sprintf("Line is %d characters long; the limit is %d", n, limit)))
	}
	return diagnostics
}
