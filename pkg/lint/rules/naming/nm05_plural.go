package naming

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM05",
		Name:        "naming.plural",
		Group:       "naming",
		Description: "The object part of a model name is plural.",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"singular_allowlist"},
		Model:       checkPluralName,

		Rationale: `A model holds many rows of the same object. Plural names (customers, orders) read
naturally in SQL and keep the project consistent.`,

		BadExample: `-- models/staging/stripe/stg_stripe__payment.sql
-- models/marts/core/dim_customer.sql`,

		GoodExample: `-- models/staging/stripe/stg_stripe__payments.sql
-- models/marts/core/dim_customers.sql`,

		Fix: "Use the plural of the object. Words that are correct as they are can be listed in 'singular_allowlist'.",
	})
}

// invariantPlurals are plural nouns the suffix heuristic does not recognise.
var invariantPlurals = map[string]bool{
	"people": true, "children": true, "data": true, "metadata": true,
	"media": true, "criteria": true, "men": true, "women": true,
	"feet": true, "teeth": true, "mice": true, "series": true,
	"species": true, "news": true, "analytics": true,
}

func checkPluralName(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	object := strings.ToLower(core.ObjectName(m.Name))
	if object == "" {
		return nil
	}
	word := object
	if i := strings.LastIndex(object, "_"); i >= 0 {
		word = object[i+1:]
	}
	if word == "" || isPlural(word, lint.GetStringSliceOption(ctx.Options, "singular_allowlist", nil)) {
		return nil
	}
	return []lint.Diagnostic{nameDiag("Object '%s' in model '%s' should be plural", object, m.Name)}
}

func isPlural(word string, allowlist []string) bool {
	if invariantPlurals[word] {
		return true
	}
	for _, a := range allowlist {
		if strings.EqualFold(a, word) {
			return true
		}
	}
	// digits only: a version or year suffix, not a noun
	if strings.Trim(word, "0123456789") == "" {
		return true
	}
	return core.Singular(word) != word
}
