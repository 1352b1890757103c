package yamlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "YM04",
		Name:        "yaml.list_spacing",
		Group:       "yaml",
		Description: "Multi-line dictionary list items are separated by a blank line.",
		Severity:    core.SeverityInfo,
		Properties:  checkListSpacing,

		Rationale: `A blank line between models or columns that span several lines makes each entry easy
to find. One-line items stay packed together.`,

		BadExample: `columns:
  - name: customer_id
    tests:
      - unique
  - name: first_name`,

		GoodExample: `columns:
  - name: customer_id
    tests:
      - unique

  - name: first_name`,

		Fix: "Insert a blank line before the list item.",
	})
}

type listItem struct {
	mapping   bool
	multiline bool
}

func checkListSpacing(ctx *lint.PropertiesContext) []lint.Diagnostic {
	// open list items by the indent of their dash
	open := map[int]*listItem{}

	var diagnostics []lint.Diagnostic
	for _, l := range structure(ctx.File.Lines) {
		for indent, item := range open {
			switch {
			case indent > l.Indent, indent == l.Indent && !l.IsItem():
				delete(open, indent)
			case indent < l.Indent:
				item.multiline = true
			}
		}
		if !l.IsItem() {
			continue
		}

		mapping := l.IsMappingItem()
		if prev, ok := open[l.Indent]; ok && prev.mapping && prev.multiline && mapping &&
			!blankBefore(ctx.File.Lines, l.Index) {
			diagnostics = append(diagnostics, diagAt(l.Pos(), "Separate multi-line list items with a blank line"))
		}
		open[l.Indent] = &listItem{mapping: mapping}
	}
	return diagnostics
}
