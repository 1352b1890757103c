package naming

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "NM03",
		Name:        "naming.intermediate",
		Group:       "naming",
		Description: "Intermediate models are named <objects>__<verb> with a past-tense verb.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"verbs"},
		Model:       checkIntermediateName,

		Rationale: `An intermediate model exists to do one thing to its inputs. Naming it after the objects
and what was done to them (customers__unioned, payments__pivoted) tells a reader its purpose
without opening the file.`,

		BadExample: `-- models/marts/finance/intermediate/payments_pivot.sql
-- models/marts/finance/intermediate/payments__pivot.sql`,

		GoodExample: `-- models/marts/finance/intermediate/payments__pivoted.sql`,

		Fix: "Rename the model to <objects>__<verb>, with the verb in the past tense. Irregular verbs can be allowed with the 'verbs' option.",
	})
}

// irregularPast are past participles that do not end in "ed".
var irregularPast = map[string]bool{
	"built": true, "split": true, "cut": true, "set": true, "spent": true,
	"sent": true, "held": true, "bound": true, "run": true, "grown": true,
	"drawn": true, "taken": true, "made": true, "kept": true, "found": true,
	"shown": true, "written": true, "done": true, "chosen": true, "broken": true,
	"brought": true, "put": true, "read": true, "left": true, "spread": true,
}

func checkIntermediateName(ctx *lint.ModelContext) []lint.Diagnostic {
	m := ctx.Model
	if m.Layer != core.LayerIntermediate {
		return nil
	}
	name := strings.TrimPrefix(strings.ToLower(m.Name), "int_")
	i := strings.LastIndex(name, "__")
	if i <= 0 || i+2 >= len(name) {
		return []lint.Diagnostic{nameDiag("Intermediate model '%s' should be named <objects>__<verb>", m.Name)}
	}

	verb, _, _ := strings.Cut(name[i+2:], "_")
	if !isPastTense(verb, lint.GetStringSliceOption(ctx.Options, "verbs", nil)) {
		return []lint.Diagnostic{nameDiag("Verb '%s' in intermediate model '%s' should be in the past tense", verb, m.Name)}
	}
	return nil
}

func isPastTense(verb string, allowed []string) bool {
	if strings.HasSuffix(verb, "ed") || irregularPast[verb] {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, verb) {
			return true
		}
	}
	return false
}
