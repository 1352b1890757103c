package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/watch"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Disable  []string
	Rules    []string
	Severity string
	Format   string
	Record   bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-lint the project whenever a file changes",
		Long: `Lint the project, then watch the models and custom rules directories
and lint again each time .sql, .yml or .star files change.

Stop with Ctrl+C.`,
		Example: `  # Watch with the default settings
  dbtstyle watch

  # Only show errors while iterating
  dbtstyle watch --severity error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts, nil)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs or groups to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only these rule IDs or groups")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record every run in the history store, unless --rule or --disable is set")

	return cmd
}

// runWatch lints until the command's context is canceled or the process is
// interrupted. onRun, when set, is called after every run.
func runWatch(cmd *cobra.Command, opts *WatchOptions, onRun func(*lintRun)) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("--severity: unknown severity %q", opts.Severity)
	}
	r := cmdCtx.Renderer
	lintOpts := &LintOptions{Disable: opts.Disable, Rules: opts.Rules}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lintAndRender := func() (*lintRun, error) {
		run, err := lintOnce(ctx, cmdCtx, lintOpts)
		if err != nil {
			return nil, err
		}
		if opts.Record && !lintOpts.narrowsRules() {
			recordRun(ctx, cmdCtx, run)
		}
		if err := renderLintResults(r, run.Project.Root, run.shown(threshold, ""), run.Result.Score()); err != nil {
			return nil, err
		}
		if onRun != nil {
			onRun(run)
		}
		return run, nil
	}

	first, err := lintAndRender()
	if err != nil {
		return err
	}

	dirs := []string{first.Project.ModelsDir}
	if info, err := os.Stat(cmdCtx.Cfg.CustomRulesDir); err == nil && info.IsDir() {
		dirs = append(dirs, cmdCtx.Cfg.CustomRulesDir)
	}
	changes, err := watch.New(dirs, watch.Options{Logger: cmdCtx.Logger}).Watch(ctx)
	if err != nil {
		return err
	}
	r.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", displayPath(first.Project.Root, first.Project.ModelsDir)))

	for batch := range changes {
		cmdCtx.Logger.Debug("files changed", "count", len(batch), "files", batch)
		r.Println("")
		r.Muted(fmt.Sprintf("%s changed, linting again", plural(len(batch), "file", "files")))
		if _, err := lintAndRender(); err != nil {
			r.Error(err.Error())
		}
	}
	return nil
}
