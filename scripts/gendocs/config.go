package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/dbtstyle/internal/cli/commands"
)

type setting struct {
	key     string
	typ     string
	def     string
	summary string
}

var settings = []setting{
	{"models_dir", "string", "model-paths of dbt_project.yml, then `models`", "Directory with the SQL models and properties files"},
	{"output", "string", "`auto`", "Output mode: `auto`, `text`, `markdown` or `json`"},
	{"verbose", "bool", "`false`", "Debug logging on stderr"},
	{"history_path", "string", "`.dbtstyle/history.db`", "Lint history database, relative to the project root. `:memory:` records nothing"},
	{"custom_rules_dir", "string", "`dbtstyle_rules`", "Directory with custom Starlark rules, relative to the project root"},
	{"lint.disabled", "list", "`[]`", "Rule IDs or groups to turn off"},
	{"lint.severity", "map", "`{}`", "Severity per rule ID: `error`, `warning`, `info` or `hint`"},
	{"lint.rules", "map", "`{}`", "Options per rule ID"},
	{"lint.docs_base_url", "string", "`https://dbtstyle.dev/rules`", "Base URL of the documentation link on every diagnostic"},
}

// generateConfigDocs writes the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "dbtstyle.yaml reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("dbtstyle reads `dbtstyle.yaml` (or `dbtstyle.yml`) from the project root. " +
		"`dbtstyle init` writes a commented copy. Settings are merged in this order, later sources winning:")
	w.BulletList([]string{
		"built-in defaults",
		"the config file",
		"`DBTSTYLE_` environment variables, with `__` between nested keys",
		"command line flags",
	})

	w.Header(2, "Settings")
	rows := make([][]string, len(settings))
	for i, s := range settings {
		rows[i] = []string{InlineCode(s.key), s.typ, s.def, s.summary}
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Rule Options")
	w.Paragraph("Rules that take options list them on their page under [Rules](../rules/index.md).")

	w.Header(2, "Full Example")
	w.CodeBlock("yaml", commands.DefaultConfig())

	filename := filepath.Join(outDir, "configuration.md")
	log.Printf("  Generated configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
