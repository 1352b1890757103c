package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/cli/config"
	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the configuration, logger and renderer for cmd.
// format, when set, overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	if format != "" {
		if mode, err = output.ParseMode(format); err != nil {
			return nil, fmt.Errorf("--format: %w", err)
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// getConfig returns the configuration the root command loaded. Commands run
// on their own, as in tests, load it from the working directory instead.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}
