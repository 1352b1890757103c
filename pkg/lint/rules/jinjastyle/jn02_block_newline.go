package jinjastyle

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "JN02",
		Name:        "jinja.block_newline",
		Group:       "jinja",
		Description: "Jinja block tags that open or close a loop, macro or set sit on their own line.",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"tags"},
		Model:       checkBlockNewline,

		Rationale: `Putting loops and macros on their own lines makes the structure of the generated SQL
visible in the template, and a {% set %} buried mid-line is easy to miss. Short inline
conditionals such as a trailing comma are fine.`,

		BadExample: `select {% for m in methods %}sum(amount) as {{ m }}_amount,{% endfor %} 1 as one`,

		GoodExample: `select
    {% for m in methods %}
    sum(amount) as {{ m }}_amount,
    {% endfor %}
    1 as one`,

		Fix: "Move the tag onto a line of its own.",
	})
}

var defaultBlockTags = []string{
	"for", "endfor", "macro", "endmacro", "call", "endcall", "filter", "endfilter",
	"set", "endset",
}

func checkBlockNewline(ctx *lint.ModelContext) []lint.Diagnostic {
	tags := make(map[string]bool)
	for _, tag := range lint.GetStringSliceOption(ctx.Options, "tags", defaultBlockTags) {
		tags[strings.ToLower(tag)] = true
	}

	tokens := ctx.Model.Tokens
	var diagnostics []lint.Diagnostic
	for i, t := range tokens {
		if t.Kind != token.JINJA_STMT {
			continue
		}
		tag := tagName(t.Text)
		if !tags[tag] || aloneOnLine(tokens, i) {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     fmt.Sprintf("Put {%% %s %%} on its own line", tag),
			Pos:         t.Pos,
			ImpactScore: lint.ImpactLow.Int(),
		})
	}
	return diagnostics
}

// tagName returns the lowercased first word of a {% ... %} block.
func tagName(text string) string {
	body := strings.TrimPrefix(text, "{%")
	body = strings.TrimLeft(body, "-+ \t\r\n")
	end := strings.IndexFunc(body, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end >= 0 {
		body = body[:end]
	}
	return strings.ToLower(body)
}

// aloneOnLine reports whether only whitespace shares the lines of tokens[i].
func aloneOnLine(tokens []token.Token, i int) bool {
	for j := i - 1; j >= 0 && tokens[j].Kind != token.NEWLINE; j-- {
		if tokens[j].Kind != token.WHITESPACE {
			return false
		}
	}
	for j := i + 1; j < len(tokens) && tokens[j].Kind != token.NEWLINE; j++ {
		if tokens[j].Kind != token.WHITESPACE && tokens[j].Kind != token.EOF {
			return false
		}
	}
	return true
}
