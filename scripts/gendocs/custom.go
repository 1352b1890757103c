package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/dbtstyle/internal/cli/commands"
	"github.com/leapstack-labs/dbtstyle/internal/custom"
)

// generateCustomRuleDocs writes the custom rule reference.
func generateCustomRuleDocs(outDir string) error {
	log.Printf("Generating custom rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Custom Rules", "Writing project rules in Starlark")
	w.GeneratedMarker()

	w.Header(1, "Custom Rules")
	w.Paragraph("Every `*.star` file in `custom_rules_dir` declares one model rule. " +
		"Custom rules run alongside the built-in rules, belong to the " + InlineCode(custom.Group) +
		" group and are disabled, re-ranked and suppressed like any other rule.")
	w.CodeBlock("python", strings.TrimSpace(commands.ExampleRule()))

	w.Header(2, "The rule Dict")
	w.Table(
		[]string{"Key", "Required", "Description"},
		[][]string{
			{InlineCode("id"), "yes", "Two capital letters and two or three digits, such as `CU01`"},
			{InlineCode("name"), "no", "Defaults to `custom.` followed by the file name"},
			{InlineCode("description"), "no", "Shown by `dbtstyle rules`"},
			{InlineCode("rationale"), "no", "Shown by `dbtstyle rules <id>`"},
			{InlineCode("severity"), "no", "`error`, `warning`, `info` or `hint`. Defaults to `warning`"},
		},
	)

	w.Header(2, "The model Struct")
	w.Paragraph("check(model) is called once per model with these attributes:")
	rows := make([][]string, len(custom.ModelFields))
	for i, f := range custom.ModelFields {
		rows[i] = []string{InlineCode(f.Name), f.Type, f.Description}
	}
	w.Table([]string{"Attribute", "Type", "Description"}, rows)

	w.Header(2, "Return Value")
	w.Paragraph("check returns `None` or a list. Each item is a message string, reported on line 1, " +
		"or a dict with `message` and an optional `line`. A check that fails or returns anything else " +
		"is reported as a diagnostic on the model instead of stopping the run.")

	filename := filepath.Join(outDir, "custom-rules.md")
	log.Printf("  Generated custom-rules.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
