package refs

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// isImportCTE reports whether a CTE only pulls in one upstream relation:
// a single ref() or source() selected without joins.
func isImportCTE(c core.CTE) bool {
	if c.Imports != 1 || len(c.Body) == 0 || !c.Body[0].Is("select") {
		return false
	}
	for _, t := range c.Body {
		if t.Is("join") {
			return false
		}
	}
	return true
}

// cteNames returns the lowercased names of the model's CTEs.
func cteNames(m *core.Model) map[string]bool {
	names := make(map[string]bool, len(m.Outline.CTEs))
	for _, c := range m.Outline.CTEs {
		names[strings.ToLower(c.Name)] = true
	}
	return names
}

// relationText renders a relation's tokens as written, without whitespace.
func relationText(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}
