package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

// Validate checks values that would otherwise fail late in a command.
func (c *Config) Validate() error {
	var errs []error
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if c.HistoryPath == "" {
		errs = append(errs, errors.New("history_path must not be empty"))
	}
	if _, err := c.LintRules(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LintRules converts the lint section into an analyzer configuration.
func (c *Config) LintRules() (*lint.Config, error) {
	if c.Lint == nil {
		return lint.NewConfig(), nil
	}
	lc, err := lint.FromLintConfig(*c.Lint)
	if err != nil {
		return nil, fmt.Errorf("invalid lint configuration: %w", err)
	}
	return lc, nil
}
