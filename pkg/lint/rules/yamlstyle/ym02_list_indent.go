package yamlstyle

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "YM02",
		Name:        "yaml.list_indent",
		Group:       "yaml",
		Description: "List items are indented under their key.",
		Severity:    core.SeverityInfo,
		Properties:  checkListIndent,

		Rationale: `YAML accepts list items level with their key, but indenting them makes nesting visible
and matches how dbt generates properties files.`,

		BadExample: `columns:
- name: customer_id
- name: first_name`,

		GoodExample: `columns:
  - name: customer_id
  - name: first_name`,

		Fix: "Indent the list two spaces past its key.",
	})
}

func checkListIndent(ctx *lint.PropertiesContext) []lint.Diagnostic {
	lines := structure(ctx.File.Lines)
	var diagnostics []lint.Diagnostic
	for i := 0; i+1 < len(lines); i++ {
		key, next := lines[i], lines[i+1]
		if !strings.HasSuffix(key.Content, ":") || !next.IsItem() || next.Indent != key.Indent {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(key.Content, ":"), "-"))
		diagnostics = append(diagnostics, diagAt(next.Pos(),
			fmt.Sprintf("List items under '%s' should be indented", name)))
	}
	return diagnostics
}
