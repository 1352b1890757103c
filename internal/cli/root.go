// Package cli provides the command-line interface for dbtstyle.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/cli/commands"
	"github.com/leapstack-labs/dbtstyle/internal/cli/config"
	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without loading the project config.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"init":       true,
	"version":    true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbtstyle",
		Short: "dbtstyle - style guide linter for dbt projects",
		Long: `dbtstyle checks a dbt project against the dbt style guide.

It reads the SQL models, properties files and dbt_project.yml of a project
and reports naming, layout, SQL, Jinja, YAML and testing conventions that
are not followed, with a health score for the whole project.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose))
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Project root: %s\n", cfg.ProjectRoot)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
commit %s, built %s
`, GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dbtstyle.yaml)")
	rootCmd.PersistentFlags().String("project-dir", "", "Path to the dbt project (default: search upward from the current directory)")
	rootCmd.PersistentFlags().String("models-dir", "", "Path to models directory")
	rootCmd.PersistentFlags().String("history-path", "", "Path to the lint history database, relative to the project root")
	rootCmd.PersistentFlags().String("custom-rules-dir", "", "Path to custom Starlark rules, relative to the project root")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagDirname("project-dir")
	_ = rootCmd.MarkPersistentFlagDirname("models-dir")
	_ = rootCmd.MarkPersistentFlagDirname("custom-rules-dir")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command. Lint findings are reported by the lint
// command itself, so only other errors are printed.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrLintIssues) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dbtstyle.

To load completions:

Bash:
  $ source <(dbtstyle completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ dbtstyle completion bash > /etc/bash_completion.d/dbtstyle
  # macOS:
  $ dbtstyle completion bash > $(brew --prefix)/etc/bash_completion.d/dbtstyle

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ dbtstyle completion zsh > "${fpath[1]}/_dbtstyle"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ dbtstyle completion fish | source

  # To load completions for each session, execute once:
  $ dbtstyle completion fish > ~/.config/fish/completions/dbtstyle.fish

PowerShell:
  PS> dbtstyle completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> dbtstyle completion powershell > dbtstyle.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
