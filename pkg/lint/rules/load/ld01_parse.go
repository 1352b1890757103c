// Package load reports files that could not be read or parsed.
//
// Rules in this package:
//   - LD01: load issues collected while reading the project
package load

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LD01",
		Name:        "load.parse",
		Group:       "load",
		Description: "Every model and properties file can be read and parsed.",
		Severity:    core.SeverityError,
		Project:     checkLoadIssues,

		Rationale: `A file that does not parse is skipped by every other rule, so its problems would go
unreported. dbt itself will also fail on it.`,

		Fix: "Fix the syntax error at the reported position.",
	})
}

func checkLoadIssues(ctx *lint.ProjectContext) []lint.Diagnostic {
	diagnostics := make([]lint.Diagnostic, 0, len(ctx.Project.Issues))
	for _, issue := range ctx.Project.Issues {
		pos := issue.Pos
		if !pos.IsValid() {
			pos = token.Position{Line: 1, Column: 1}
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     issue.Message,
			FilePath:    issue.FilePath,
			Pos:         pos,
			ImpactScore: lint.ImpactCritical.Int(),
		})
	}
	return diagnostics
}
