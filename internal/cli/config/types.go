// Package config provides configuration management for the dbtstyle CLI.
//
// The lint section reuses the shared core.LintConfig so the same settings can
// be built programmatically by library users.
package config

import (
	"github.com/leapstack-labs/dbtstyle/internal/history"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the directory paths are resolved against. It is
	// inferred, never read from the file.
	ProjectRoot string `koanf:"-"`

	// ModelsDir overrides model-paths from dbt_project.yml when set
	ModelsDir      string      `koanf:"models_dir"`
	Verbose        bool        `koanf:"verbose"`
	OutputFormat   string      `koanf:"output"`
	HistoryPath    string      `koanf:"history_path"`
	CustomRulesDir string      `koanf:"custom_rules_dir"`
	Lint           *LintConfig `koanf:"lint"`
}

// File names searched for, in order.
var FileNames = []string{"dbtstyle.yaml", "dbtstyle.yml"}

// Default configuration values.
const (
	DefaultHistoryPath    = history.DefaultPath
	DefaultCustomRulesDir = "dbtstyle_rules"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix             = "DBTSTYLE_"
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		ProjectRoot:    ".",
		OutputFormat:   DefaultOutput,
		HistoryPath:    DefaultHistoryPath,
		CustomRulesDir: DefaultCustomRulesDir,
		Lint:           &LintConfig{},
	}
}
