package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules"
)

// groupDescriptions introduce each rule group on the index page.
var groupDescriptions = map[string]string{
	"naming":    "Model names follow the stg_, base_, int and fct_/dim_ conventions of their layer.",
	"structure": "Models, properties files and configuration live where the layer expects them.",
	"testing":   "Models are documented and their primary keys tested.",
	"fields":    "Column names say what they hold.",
	"refs":      "Models select through ref() and source() from import CTEs and end in a simple final select.",
	"sql":       "SQL reads the same across the project.",
	"yaml":      "Properties files are indented and wrapped consistently.",
	"jinja":     "Jinja tags are spaced and laid out for readability.",
	"load":      "Files the linter could not read.",
}

// generateRuleDocs writes an index of all rules and one page per rule,
// matching the documentation links in lint output.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.AllRules()
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	if err := generateRuleIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, rule := range rules {
		if err := generateRulePage(outDir, rule); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", rule.ID, err)
		}
	}
	log.Printf("  Generated %d rule pages", len(rules))

	return nil
}

// generateRuleIndex generates the rules overview page.
func generateRuleIndex(outDir string, rules []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Style guide rules checked by dbtstyle")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("dbtstyle checks **%d rules** in %d groups.", len(rules), len(lint.Groups())))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Breaks a convention other rules or tools rely on"},
			{InlineCode("warning"), "Departs from the style guide"},
			{InlineCode("info"), "Worth a look"},
			{InlineCode("hint"), "Suggestion"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are disabled, re-ranked and tuned in `dbtstyle.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [SQ04, jinja]   # rule IDs or groups
  severity:
    SQ03: error
  rules:
    SQ03:
      max_length: 100`)
	w.Paragraph("A trailing `-- noqa` comment silences every rule on a SQL line; `-- noqa: SQ03,SQ05` silences the listed rules. Properties files use `# noqa`.")

	var group string
	var rows [][]string
	flush := func() {
		if len(rows) == 0 {
			return
		}
		w.Header(2, output.Title(group))
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}
		w.Table([]string{"Rule", "Name", "Severity", "Description"}, rows)
		rows = nil
	}
	for _, rule := range rules {
		if rule.Group != group {
			flush()
			group = rule.Group
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%s](%s)", rule.ID, rule.ID),
			InlineCode(rule.Name),
			rule.DefaultSeverity.String(),
			cleanDescription(rule.Description),
		})
	}
	flush()

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulePage writes the documentation of a single rule.
func generateRulePage(outDir string, rule core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter(rule.ID+" - "+rule.Name, cleanDescription(rule.Description))
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name))
	w.Line(fmt.Sprintf("**Group:** %s | **Scope:** %s | **Severity:** %s",
		rule.Group, rule.Scope, InlineCode(rule.DefaultSeverity.String())))
	w.Newline()
	w.Paragraph(rule.Description)

	if rule.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(cleanDescription(rule.Rationale))
	}

	lang := exampleLanguage(rule.Scope)
	if rule.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock(lang, rule.BadExample)
	}
	if rule.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock(lang, rule.GoodExample)
	}

	if rule.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(rule.Fix)
	}

	if len(rule.ConfigKeys) > 0 {
		w.Header(2, "Configuration")
		keys := make([]string, len(rule.ConfigKeys))
		for i, k := range rule.ConfigKeys {
			keys[i] = InlineCode(k)
		}
		w.Paragraph("Options: " + strings.Join(keys, ", "))
		w.CodeBlock("yaml", fmt.Sprintf("lint:\n  rules:\n    %s:\n      %s: ...", rule.ID, rule.ConfigKeys[0]))
	}

	return os.WriteFile(filepath.Join(outDir, rule.ID+".md"), w.Bytes(), 0600)
}

func exampleLanguage(scope string) string {
	switch scope {
	case core.ScopeProperties:
		return "yaml"
	case core.ScopeProject:
		return "text"
	default:
		return "sql"
	}
}
