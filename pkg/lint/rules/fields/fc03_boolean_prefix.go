package fields

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC03",
		Name:        "fields.boolean_prefix",
		Group:       "fields",
		Description: "Boolean columns start with is_ or has_.",
		Severity:    core.SeverityWarning,
		Model:       checkBooleanPrefix,

		Rationale: `An is_ or has_ prefix turns a column into a question with a yes or no answer, so
"where is_active" reads as English and nobody mistakes the column for a status string.`,

		BadExample: `select
    status = 'active' as active,
    deleted::boolean as deleted
from source`,

		GoodExample: `select
    status = 'active' as is_active,
    deleted::boolean as is_deleted
from source`,

		Fix: "Rename the column with an is_ or has_ prefix.",
	})
}

var booleanPrefixes = []string{"is_", "has_", "was_", "can_", "should_"}

// comparisonOps turn an expression into a boolean when they appear outside
// parentheses and case expressions.
var comparisonOps = map[string]bool{"=": true, "<>": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}

var predicateKeywords = map[string]bool{"not": true, "and": true, "or": true, "is": true, "in": true, "like": true, "ilike": true, "rlike": true, "between": true, "exists": true}

func checkBooleanPrefix(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, col := range outputColumns(ctx) {
		if !booleanTypes[col.Type] && !isBooleanExpr(col.Expr) {
			continue
		}
		name := strings.ToLower(col.Name)
		ok := false
		for _, p := range booleanPrefixes {
			if strings.HasPrefix(name, p) {
				ok = true
				break
			}
		}
		if !ok {
			diagnostics = append(diagnostics, columnDiag(col, lint.ImpactLow,
				fmt.Sprintf("Boolean column '%s' should start with is_ or has_", col.Name)))
		}
	}
	return diagnostics
}

// isBooleanExpr reports whether an expression is a comparison or predicate
// at its top level, or a bare true/false literal.
func isBooleanExpr(expr []token.Token) bool {
	if len(expr) == 1 && (expr[0].Is("true") || expr[0].Is("false")) {
		return true
	}
	depth, cases := 0, 0
	for _, t := range expr {
		switch {
		case t.IsPunct("("):
			depth++
		case t.IsPunct(")"):
			depth--
		case t.Is("case"):
			cases++
		case t.Is("end"):
			cases--
		case depth == 0 && cases == 0:
			if t.Kind == token.PUNCT && comparisonOps[t.Text] {
				return true
			}
			if t.Kind == token.KEYWORD && predicateKeywords[t.Lower()] {
				return true
			}
		}
	}
	return false
}
