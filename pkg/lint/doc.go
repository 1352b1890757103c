// Package lint is the rule framework behind dbtstyle.
//
// # Rule Scopes
//
// Every rule runs at one of three scopes:
//
//   - model: once per .sql model (ModelRule)
//   - properties: once per .yml properties file (PropertiesRule)
//   - project: once per project, for checks that span folders (ProjectRule)
//
// # Rule Registration
//
// Rules register themselves from init() functions when their packages are
// imported. Import every built-in rule with:
//
//	import _ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules"
//
// Most rules are declared as a RuleDef with exactly one check function set:
//
//	func init() {
//		lint.Register(lint.RuleDef{
//			ID:          "SQ06",
//			Name:        "sql.union_all",
//			Group:       "sql",
//			Description: "Prefer union all to union.",
//			Severity:    core.SeverityWarning,
//			Model:       checkUnionAll,
//		})
//	}
//
// # Configuration
//
// Config controls which rules run, their severity and their options:
//
//	config := lint.NewConfig()
//	config.Disable("SQ03")
//	config.SetSeverity("NM05", core.SeverityInfo)
//	config.SetRuleOptions("SQ03", map[string]any{"max_length": 100})
//
// # Suppression
//
// A "-- noqa" comment silences every rule on its SQL line and
// "-- noqa: SQ03,SQ05" only the listed ones. Properties files use "# noqa".
package lint
