package jinjastyle

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "JN01",
		Name:        "jinja.delimiter_spacing",
		Group:       "jinja",
		Description: "Jinja delimiters are padded with a space: {{ this }}, not {{this}}.",
		Severity:    core.SeverityInfo,
		Model:       checkDelimiterSpacing,

		Rationale: `Spaces inside the delimiters separate the template from the expression, which is how
dbt's own docs and generated code write Jinja.`,

		BadExample: `select * from {{ref('stg_shop__orders')}}`,

		GoodExample: `select * from {{ ref('stg_shop__orders') }}`,

		Fix: "Add a space after the opening and before the closing delimiter.",
	})
}

func checkDelimiterSpacing(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, t := range ctx.Model.Tokens {
		if !t.IsJinja() {
			continue
		}
		open, body, closing, ok := splitDelimiters(t.Text)
		if !ok || padded(body) {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     fmt.Sprintf("Pad Jinja delimiters with spaces: %s ... %s", open, closing),
			Pos:         t.Pos,
			ImpactScore: lint.ImpactLow.Int(),
		})
	}
	return diagnostics
}

// splitDelimiters splits "{{- x }}" into "{{", "x " trimmed of whitespace
// control, and "}}". ok is false for an unterminated block.
func splitDelimiters(text string) (open, body, closing string, ok bool) {
	if len(text) < 4 {
		return "", "", "", false
	}
	open, closing = text[:2], text[len(text)-2:]
	if closing != map[string]string{"{{": "}}", "{%": "%}", "{#": "#}"}[open] {
		return "", "", "", false
	}
	body = text[2 : len(text)-2]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "-"), "+")
	body = strings.TrimSuffix(strings.TrimSuffix(body, "-"), "+")
	return open, body, closing, true
}

func padded(body string) bool {
	if strings.TrimSpace(body) == "" {
		return body != ""
	}
	return isSpace(body[0]) && isSpace(body[len(body)-1])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
