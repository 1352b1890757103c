package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	"github.com/leapstack-labs/dbtstyle/internal/history"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Prune  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lint runs",
		Long: `Show the most recent lint runs recorded in the history store, newest
first, with their issue counts, health score and noisiest rules.

Runs are recorded by 'dbtstyle lint' unless --no-history is given.`,
		Example: `  # Show the last 10 runs
  dbtstyle history

  # Show the last 50 runs as JSON
  dbtstyle history --limit 50 --format json

  # Keep only the 100 most recent runs
  dbtstyle history --prune 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().IntVar(&opts.Prune, "prune", 0, "Delete all but this many of the newest runs")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// HistoryRun is one run in the JSON output.
type HistoryRun struct {
	ID         string         `json:"id"`
	Project    string         `json:"project"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Models     int            `json:"models"`
	Errors     int            `json:"errors"`
	Warnings   int            `json:"warnings"`
	Info       int            `json:"info"`
	Hints      int            `json:"hints"`
	Suppressed int            `json:"suppressed"`
	Score      int            `json:"score"`
	RuleCounts map[string]int `json:"rule_counts"`
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	if opts.Limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", opts.Limit)
	}
	if opts.Prune < 0 {
		return fmt.Errorf("--prune must not be negative, got %d", opts.Prune)
	}
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	path := cmdCtx.Cfg.HistoryPath

	var runs []*history.Run
	if _, statErr := os.Stat(path); path == history.Memory || statErr == nil {
		store, err := history.Open(cmd.Context(), path, cmdCtx.Logger)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer func() { _ = store.Close() }()

		if opts.Prune > 0 {
			n, err := store.Prune(cmd.Context(), opts.Prune)
			if err != nil {
				return err
			}
			cmdCtx.Logger.Debug("pruned history", "deleted", n, "kept", opts.Prune)
			if r.EffectiveMode() != output.ModeJSON {
				r.Muted(fmt.Sprintf("Deleted %s", plural(int(n), "run", "runs")))
			}
		}

		if runs, err = store.Recent(cmd.Context(), opts.Limit); err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("failed to open history: %w", statErr)
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]HistoryRun, 0, len(runs))
		for _, run := range runs {
			out = append(out, HistoryRun{
				ID:         run.ID,
				Project:    run.Project,
				StartedAt:  run.StartedAt,
				DurationMS: run.Duration.Milliseconds(),
				Models:     run.Models,
				Errors:     run.Errors,
				Warnings:   run.Warnings,
				Info:       run.Infos,
				Hints:      run.Hints,
				Suppressed: run.Suppressed,
				Score:      run.Score,
				RuleCounts: run.RuleCounts,
			})
		}
		return r.JSON(out)
	}

	if len(runs) == 0 {
		r.Muted("No lint runs recorded yet. Run 'dbtstyle lint' to record one.")
		return nil
	}

	r.Header(1, fmt.Sprintf("Lint History (%d runs)", len(runs)))
	tbl := r.NewTable("Started", "Models", "Errors", "Warnings", "Info", "Hints", "Score", "Top Rules")
	for _, run := range runs {
		tbl.Append(
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Models,
			run.Errors,
			run.Warnings,
			run.Infos,
			run.Hints,
			run.Score,
			topRules(run, 3),
		)
	}
	tbl.Render()

	if len(runs) > 1 {
		delta := runs[0].Score - runs[1].Score
		switch {
		case delta > 0:
			r.Success(fmt.Sprintf("Score up %d since the previous run", delta))
		case delta < 0:
			r.Warning(fmt.Sprintf("Score down %d since the previous run", -delta))
		}
	}
	return nil
}

func topRules(run *history.Run, n int) string {
	ids := run.TopRules(n)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s (%d)", id, run.RuleCounts[id])
	}
	return strings.Join(parts, ", ")
}
