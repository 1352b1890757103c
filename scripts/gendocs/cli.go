package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/dbtstyle/internal/cli"
	"github.com/leapstack-labs/dbtstyle/internal/cli/config"
	"github.com/leapstack-labs/dbtstyle/internal/custom"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

// flagGroup is a titled set of flags documented together. Flags of a
// command that no group names end up under "Other Options".
type flagGroup struct {
	title string
	names []string
}

var globalFlagGroups = []flagGroup{
	{"Project", []string{"config", "project-dir", "models-dir"}},
	{"Storage", []string{"history-path", "custom-rules-dir"}},
	{"Reporting", []string{"output", "verbose"}},
}

var commandFlagGroups = map[string][]flagGroup{
	"lint": {
		{"Rule Selection", []string{"rule", "disable"}},
		{"Reporting", []string{"severity", "format"}},
		{"History", []string{"no-history"}},
	},
	"watch": {
		{"Rule Selection", []string{"rule", "disable"}},
		{"Reporting", []string{"severity", "format"}},
		{"History", []string{"record"}},
	},
	"history": {
		{"Listing", []string{"limit", "format"}},
		{"Maintenance", []string{"prune"}},
	},
	"rules": {
		{"Filtering", []string{"group"}},
		{"Reporting", []string{"verbose", "format"}},
	},
	"init": {
		{"Scaffolding", []string{"force"}},
		{"Reporting", []string{"format"}},
	},
}

// commandSections add reference material below a command's options.
var commandSections = map[string]func(w *MarkdownWriter){
	"lint":    writeScoringSection,
	"watch":   writeWatchRecordingSection,
	"history": writeHistorySection,
	"rules":   writeGroupsSection,
	"init":    writeInitSection,
}

// generateCLIDocs writes the CLI overview and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	return writeCLIDocs(cli.NewRootCmd(), outDir)
}

func writeCLIDocs(root *cobra.Command, outDir string) error {
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pages := documentedCommands(root)
	if err := writePage(outDir, "index.md", cliIndex(root, pages)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	for _, cmd := range pages {
		if err := writePage(outDir, pageName(cmd)+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.CommandPath(), err)
		}
	}
	log.Printf("  Generated index.md and %d command pages", len(pages))
	return nil
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	return os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600)
}

// documentedCommands returns every visible command below root, depth first.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
		out = append(out, documentedCommands(cmd)...)
	}
	return out
}

// pageName is "history" for dbtstyle history and "a_b" for dbtstyle a b.
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "_")
}

func cliIndex(root *cobra.Command, pages []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for dbtstyle")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("dbtstyle lints a dbt project against the dbt style guide, explains its rules and keeps a history of lint runs.")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/dbtstyle/cmd/dbtstyle@latest\n\ndbtstyle init\ndbtstyle lint")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(pages))
	for _, cmd := range pages {
		name := strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")
		rows = append(rows, []string{
			fmt.Sprintf("[%s](%s.md)", InlineCode(name), pageName(cmd)),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagGroups(w, root.PersistentFlags(), globalFlagGroups, 3)

	w.Header(2, "Configuration")
	w.Paragraph("Flags override `" + config.EnvPrefix + "` environment variables, which override `dbtstyle.yaml`. " +
		"Every setting of the [configuration reference](../reference/configuration.md) that holds a single value " +
		"can be set from the environment:")
	w.Table([]string{"Variable", "Setting"}, envRows())

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success, or lint issues below the severity threshold"},
		{InlineCode("1"), "Lint issues at or above the severity threshold, or an error reported on stderr"},
	})

	return w
}

// envRows lists the environment variable of every scalar setting.
func envRows() [][]string {
	var rows [][]string
	for _, s := range settings {
		if s.typ != "string" && s.typ != "bool" {
			continue
		}
		rows = append(rows, []string{InlineCode(envName(s.key)), InlineCode(s.key)})
	}
	return rows
}

// envName is the inverse of the config loader's key mapping:
// lint.docs_base_url becomes DBTSTYLE_LINT__DOCS_BASE_URL.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	if cmd.HasAvailableSubCommands() {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.Paragraph("Aliases: " + strings.Join(aliases, ", "))
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagGroups(w, cmd.LocalFlags(), commandFlagGroups[pageName(cmd)], 3)
	}
	if cmd.HasInheritedFlags() {
		w.Paragraph("The [global options](index.md#global-options) apply as well.")
	}

	if section, ok := commandSections[pageName(cmd)]; ok {
		section(w)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w
}

// writeFlagGroups writes one table per group, then one for the flags no
// group claimed. A single unclaimed table gets no heading.
func writeFlagGroups(w *MarkdownWriter, flags *pflag.FlagSet, groups []flagGroup, level int) {
	claimed := make(map[string]bool)
	for _, g := range groups {
		var set []*pflag.Flag
		for _, name := range g.names {
			if f := flags.Lookup(name); f != nil && !f.Hidden {
				set = append(set, f)
				claimed[name] = true
			}
		}
		if len(set) == 0 {
			continue
		}
		w.Header(level, g.title)
		writeFlagsTable(w, set)
	}

	var rest []*pflag.Flag
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden && !claimed[f.Name] {
			rest = append(rest, f)
		}
	})
	if len(rest) == 0 {
		return
	}
	if len(claimed) > 0 {
		w.Header(level, "Other Options")
	}
	writeFlagsTable(w, rest)
}

func writeFlagsTable(w *MarkdownWriter, flags []*pflag.Flag) {
	rows := make([][]string, 0, len(flags))
	for _, f := range flags {
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		rows = append(rows, []string{name, flagDefault(f), cleanDescription(f.Usage)})
	}
	w.Table([]string{"Flag", "Default", "Description"}, rows)
}

func flagDefault(f *pflag.Flag) string {
	switch {
	case f.DefValue == "", f.DefValue == "[]":
		return ""
	case f.Value.Type() == "bool" && f.DefValue == "false":
		return ""
	default:
		return InlineCode(f.DefValue)
	}
}

// writeScoringSection documents how lint computes and records the score.
func writeScoringSection(w *MarkdownWriter) {
	w.Header(2, "Score")
	w.Paragraph("Every run ends with a health score from 0 to 100: 100 minus the weighted impact " +
		"of every diagnostic, divided by the number of models and floored at 0. " +
		"The severity threshold and a path argument only change what is shown. " +
		"The score always covers the whole project.")
	var rows [][]string
	for _, s := range []core.Severity{core.SeverityError, core.SeverityWarning, core.SeverityInfo, core.SeverityHint} {
		rows = append(rows, []string{InlineCode(s.String()), fmt.Sprintf("%g", lint.SeverityWeight(s))})
	}
	w.Table([]string{"Severity", "Weight"}, rows)

	w.Header(2, "Recording")
	w.BulletList([]string{
		"Each run is stored in the history database, and the next run prints the previous score.",
		InlineCode("--no-history") + " skips recording.",
		"Runs with " + InlineCode("--rule") + " or " + InlineCode("--disable") +
			" measure a different rule set and are not recorded.",
	})
}

func writeWatchRecordingSection(w *MarkdownWriter) {
	w.Header(2, "Recording")
	w.Paragraph("Watch runs are not recorded unless " + InlineCode("--record") + " is set. " +
		"Like lint, a run narrowed with " + InlineCode("--rule") + " or " + InlineCode("--disable") +
		" is never recorded.")
}

// writeHistorySection documents what one history entry holds.
func writeHistorySection(w *MarkdownWriter) {
	w.Header(2, "Stored Runs")
	w.Paragraph("Runs live in a SQLite database at " + InlineCode(config.DefaultHistoryPath) +
		" unless " + InlineCode("history_path") + " says otherwise. Each run stores:")
	w.Table([]string{"Field", "Description"}, [][]string{
		{"ID", "Random UUID of the run"},
		{"Project", "Name from dbt_project.yml"},
		{"Started", "Start time of the run"},
		{"Duration", "Time the run took"},
		{"Models, Files", "Number of models and files linted"},
		{"Errors, Warnings, Infos, Hints", "Diagnostics per severity"},
		{"Suppressed", "Diagnostics silenced by noqa comments"},
		{"Score", "Health score of the run"},
		{"Rule counts", "Diagnostics per rule ID"},
	})
}

// writeGroupsSection lists the rule groups with their current rule count.
func writeGroupsSection(w *MarkdownWriter) {
	w.Header(2, "Groups")
	w.Paragraph("Pass a group to " + InlineCode("--group") + ", " + InlineCode("lint --rule") +
		" or " + InlineCode("lint --disable") + " to select all of its rules.")
	var rows [][]string
	for _, g := range lint.Groups() {
		rows = append(rows, []string{
			InlineCode(g),
			fmt.Sprintf("%d", len(lint.GetRulesByGroup(g))),
			groupDescriptions[g],
		})
	}
	w.Table([]string{"Group", "Rules", "Description"}, rows)
}

// writeInitSection lists the scaffolded files and the attributes the
// example rule can read.
func writeInitSection(w *MarkdownWriter) {
	w.Header(2, "Files")
	w.Table([]string{"File", "Content"}, [][]string{
		{InlineCode("dbtstyle.yaml"), "Every setting with its default, commented"},
		{InlineCode(config.DefaultCustomRulesDir + "/no_select_star.star"), "An example custom rule"},
	})

	w.Header(2, "Custom Rule Attributes")
	w.Paragraph("The example rule's check(model) can read these attributes. " +
		"See [custom rules](../reference/custom-rules.md) for the full API.")
	rows := make([][]string, len(custom.ModelFields))
	for i, f := range custom.ModelFields {
		rows[i] = []string{InlineCode(f.Name), f.Type}
	}
	w.Table([]string{"Attribute", "Type"}, rows)
}

// cleanExample removes the common indentation of an example.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
