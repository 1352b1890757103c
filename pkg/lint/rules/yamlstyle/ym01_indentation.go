package yamlstyle

import (
	"fmt"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "YM01",
		Name:        "yaml.indentation",
		Group:       "yaml",
		Description: "Indent properties files with two spaces.",
		Severity:    core.SeverityWarning,
		Properties:  checkIndentation,

		Rationale: `Properties files are edited by hand in every part of the project. One indent width keeps
them diffable and stops a stray space from moving a key to a different parent.`,

		BadExample: `models:
   - name: dim_customers
     description: One row per customer.`,

		GoodExample: `models:
  - name: dim_customers
    description: One row per customer.`,

		Fix: "Re-indent with a multiple of two spaces.",
	})
}

func checkIndentation(ctx *lint.PropertiesContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, l := range structure(ctx.File.Lines) {
		switch {
		case l.Tabs:
			diagnostics = append(diagnostics, diagAt(l.Pos(), "Indent with spaces, not tabs"))
		case l.Indent%2 != 0:
			diagnostics = append(diagnostics, diagAt(l.Pos(),
				fmt.Sprintf("Indentation of %d spaces is not a multiple of 2", l.Indent)))
		}
	}
	return diagnostics
}
