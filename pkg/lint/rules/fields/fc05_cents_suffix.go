package fields

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC05",
		Name:        "fields.cents_suffix",
		Group:       "fields",
		Description: "Integer money columns carry an _in_cents suffix.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"money_words"},
		Model:       checkCentsSuffix,

		Rationale: `Prices and amounts are expected in decimal currency. Application databases often store
them as integer cents; without a suffix, a sum of amount is off by a factor of 100 and nobody
notices until finance does.`,

		BadExample: `select
    amount::integer as amount
from source`,

		GoodExample: `select
    amount::integer as amount_in_cents,
    amount / 100.0 as amount
from source`,

		Fix: "Rename the column with an _in_cents suffix, or convert it to decimal currency.",
	})
}

var defaultMoneyWords = []string{
	"amount", "price", "cost", "revenue", "fee", "fees",
	"balance", "tax", "discount", "subtotal", "refund", "payout",
}

func checkCentsSuffix(ctx *lint.ModelContext) []lint.Diagnostic {
	words := lint.GetStringSliceOption(ctx.Options, "money_words", defaultMoneyWords)
	money := make(map[string]bool, len(words))
	for _, w := range words {
		money[strings.ToLower(w)] = true
	}

	var diagnostics []lint.Diagnostic
	for _, col := range outputColumns(ctx) {
		if !integerTypes[col.Type] {
			continue
		}
		name := strings.ToLower(col.Name)
		if strings.Contains(name, "cents") {
			continue
		}
		for _, part := range strings.Split(name, "_") {
			if money[part] {
				diagnostics = append(diagnostics, columnDiag(col, lint.ImpactHigh,
					fmt.Sprintf("Integer money column '%s' should be named %s_in_cents", col.Name, name)))
				break
			}
		}
	}
	return diagnostics
}
