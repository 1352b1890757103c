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
		ID:          "SQ04",
		Name:        "sql.lowercase",
		Group:       "sql",
		Description: "Keywords, function names and field names are lowercase.",
		Severity:    core.SeverityInfo,
		Model:       checkLowercase,

		Rationale: `Lowercase SQL is as readable as uppercase and much faster to type. Mixing the two in
one project makes every diff noisier than it needs to be.`,

		BadExample: `SELECT Order_ID, COUNT(*) AS Payments FROM payments GROUP BY 1`,

		GoodExample: `select order_id, count(*) as payments from payments group by 1`,

		Fix: "Lowercase the word. Quote identifiers whose case must be kept.",
	})
}

func checkLowercase(ctx *lint.ModelContext) []lint.Diagnostic {
	sig := significant(ctx)
	var diagnostics []lint.Diagnostic
	for i, t := range sig {
		if t.Kind != token.KEYWORD && t.Kind != token.IDENT {
			continue
		}
		if t.Text == strings.ToLower(t.Text) {
			continue
		}
		kind := "Field"
		switch {
		case i+1 < len(sig) && sig[i+1].IsPunct("("):
			kind = "Function"
		case t.Kind == token.KEYWORD:
			kind = "Keyword"
		}
		diagnostics = append(diagnostics, diagAt(t.Pos, lint.ImpactLow,
			fmt.Sprintf("%s '%s' should be lowercase", kind, t.Text)))
	}
	return diagnostics
}
