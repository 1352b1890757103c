package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	"github.com/leapstack-labs/dbtstyle/internal/custom"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules" // register built-in rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (naming, structure, sql, yaml, ...). Custom
Starlark rules from the project's custom rules directory are listed too.
Use --verbose to see the rationale of every rule.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  dbtstyle rules

  # Show details for a specific rule
  dbtstyle rules SQ06

  # List rules in the naming group
  dbtstyle rules --group naming

  # Show full documentation
  dbtstyle rules -V

  # Output as JSON
  dbtstyle rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd, opts.Format)
			if err != nil {
				return err
			}
			if _, err := custom.NewLoader(cmdCtx.Cfg.CustomRulesDir, cmdCtx.Logger).Register(); err != nil {
				cmdCtx.Renderer.Warning(fmt.Sprintf("custom rules not loaded: %v", err))
			}
			lint.SetDocsBaseURL(cmdCtx.Cfg.Lint.DocsBaseURL)

			if len(args) > 0 {
				return showRule(cmdCtx.Renderer, args[0])
			}
			return listRules(cmdCtx.Renderer, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func listRules(r *output.Renderer, opts *RulesOptions) error {
	rules := filterRulesByGroup(lint.AllRules(), opts.Group)
	if opts.Group != "" && len(rules) == 0 {
		return fmt.Errorf("no rules in group %q (groups: %s)", opts.Group, strings.Join(lint.Groups(), ", "))
	}

	// Sort by group, then ID
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, opts.Verbose)
	default:
		listRulesText(r, rules, opts.Verbose)
	}
	return nil
}

func filterRulesByGroup(rules []core.RuleInfo, group string) []core.RuleInfo {
	if group == "" {
		return rules
	}
	var filtered []core.RuleInfo
	for _, r := range rules {
		if strings.EqualFold(r.Group, group) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func findRule(ruleID string) (core.RuleInfo, bool) {
	rule, ok := lint.GetRuleByID(strings.ToUpper(strings.TrimSpace(ruleID)))
	if !ok {
		return core.RuleInfo{}, false
	}
	return lint.GetRuleInfo(rule), true
}

func showRule(r *output.Renderer, ruleID string) error {
	rule, ok := findRule(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, rule)
	default:
		showRuleText(r, rule)
	}
	return nil
}

// listRulesText outputs one table per group.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Header(1, fmt.Sprintf("Lint Rules (%d)", len(rules)))

	for _, group := range splitByGroup(rules) {
		r.Println(styles.Bold.Render(output.Title(group[0].Group)))
		headers := []string{"ID", "Name", "Severity", "Scope"}
		if verbose {
			headers = append(headers, "Description")
		}
		tbl := r.NewTable(headers...)
		for _, rule := range group {
			row := []any{
				rule.ID,
				rule.Name,
				styles.Severity(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
				rule.Scope,
			}
			if verbose {
				row = append(row, rule.Description)
			}
			tbl.Append(row...)
		}
		tbl.Render()
	}

	r.Println(styles.Muted.Render("Use 'dbtstyle rules <rule-id>' for detailed documentation"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Header(1, "Lint Rules")

	for _, group := range splitByGroup(rules) {
		r.Header(2, output.Title(group[0].Group))
		for _, rule := range group {
			r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
			if verbose {
				r.Println("  " + rule.Description)
				if rule.Rationale != "" {
					r.Println("  > " + oneLine(rule.Rationale))
				}
			}
		}
		r.Println("")
	}
}

func splitByGroup(rules []core.RuleInfo) [][]core.RuleInfo {
	var groups [][]core.RuleInfo
	for i, rule := range rules {
		if i == 0 || rule.Group != rules[i-1].Group {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], rule)
	}
	return groups
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules   []core.RuleInfo `json:"rules"`
	ByGroup map[string]int  `json:"by_group"`
	Total   int             `json:"total"`
}

func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	out := RulesJSONOutput{
		Rules:   rules,
		ByGroup: make(map[string]int),
		Total:   len(rules),
	}
	for _, rule := range rules {
		out.ByGroup[rule.Group]++
	}
	return r.JSON(out)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Header(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name))

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Scope"), rule.Scope)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.Severity(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), lint.BuildDocURL(rule.ID))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + oneLine(rule.Rationale))
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Error.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule core.RuleInfo) {
	r.Header(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name))
	r.Printf("**Group:** %s | **Scope:** %s | **Severity:** `%s`\n\n", rule.Group, rule.Scope, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Header(2, "Why This Matters")
		r.Println(oneLine(rule.Rationale))
		r.Println("")
	}

	fence := exampleFence(rule.Scope)
	if rule.BadExample != "" {
		r.Header(2, "Bad Example")
		r.Println("```" + fence)
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Header(2, "Good Example")
		r.Println("```" + fence)
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Header(2, "How to Fix")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Header(2, "Configuration")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	r.Printf("[Documentation](%s)\n", lint.BuildDocURL(rule.ID))
}

// exampleFence picks the code fence language for a rule's examples.
func exampleFence(scope string) string {
	if scope == core.ScopeProperties {
		return "yaml"
	}
	if scope == core.ScopeProject {
		return ""
	}
	return "sql"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
