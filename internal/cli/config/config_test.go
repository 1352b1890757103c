package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtstyle/internal/testutil"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("project-dir", "", "")
	flags.String("models-dir", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("output", "o", "", "")
	return flags
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	root := testutil.NewProject(t, map[string]string{
		"dbtstyle.yaml": `models_dir: transform
output: json
history_path: .cache/runs.db
custom_rules_dir: rules
lint:
  disabled: [SQ03, jinja]
  severity:
    NM05: info
  rules:
    SQ09:
      min_length: 4
  docs_base_url: https://lint.example.com
`,
	})

	cfg, err := LoadConfig(filepath.Join(root, "dbtstyle.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "transform"), cfg.ModelsDir)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(root, ".cache", "runs.db"), cfg.HistoryPath)
	assert.Equal(t, filepath.Join(root, "rules"), cfg.CustomRulesDir)
	assert.Equal(t, []string{"SQ03", "jinja"}, cfg.Lint.Disabled)
	assert.Equal(t, "info", cfg.Lint.Severity["NM05"])
	assert.Equal(t, 4, cfg.Lint.Rules["SQ09"]["min_length"])
	assert.Equal(t, "https://lint.example.com", cfg.Lint.DocsBaseURL)
	assert.Equal(t, filepath.Join(root, "dbtstyle.yaml"), GetConfigFileUsed())
	assert.Same(t, cfg, FromContext(WithConfig(t.Context(), cfg)))

	lc, err := cfg.LintRules()
	require.NoError(t, err)
	assert.True(t, lc.IsDisabled("sq03"))
	assert.Equal(t, core.SeverityInfo, lc.GetSeverity("NM05", core.SeverityWarning))
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	t.Chdir(root)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.ModelsDir, "an unset models_dir leaves the choice to dbt_project.yml")
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultHistoryPath), cfg.HistoryPath)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultCustomRulesDir), cfg.CustomRulesDir)
	assert.NotNil(t, cfg.Lint)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"dbtstyle.yaml", map[string]string{"dbtstyle.yaml": "output: markdown\n", "models/staging/a.sql": "select 1"}},
		{"dbtstyle.yml", map[string]string{"dbtstyle.yml": "output: markdown\n", "models/staging/a.sql": "select 1"}},
		{"dbt_project.yml", map[string]string{"dbt_project.yml": "name: p\n", "models/staging/a.sql": "select 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			root := testutil.NewProject(t, tt.files)
			// Resolve symlinks so the comparison survives /tmp aliases.
			root, err := filepath.EvalSymlinks(root)
			require.NoError(t, err)
			t.Chdir(filepath.Join(root, "models", "staging"))

			cfg, err := LoadConfig("", nil)
			require.NoError(t, err)
			assert.Equal(t, root, cfg.ProjectRoot)
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	root := testutil.NewProject(t, map[string]string{
		"dbtstyle.yaml": "models_dir: from_file\noutput: text\n",
	})
	cfgPath := filepath.Join(root, "dbtstyle.yaml")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("DBTSTYLE_MODELS_DIR", "from_env")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "from_env"), cfg.ModelsDir)
		assert.Equal(t, "text", cfg.OutputFormat)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("DBTSTYLE_MODELS_DIR", "from_env")
		t.Setenv("DBTSTYLE_OUTPUT", "markdown")

		flags := newFlags()
		require.NoError(t, flags.Set("project-dir", root))
		require.NoError(t, flags.Set("models-dir", "from_flag"))
		require.NoError(t, flags.Set("output", "json"))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)

		assert.True(t, filepath.IsAbs(cfg.ModelsDir))
		assert.Equal(t, "from_flag", filepath.Base(cfg.ModelsDir))
		assert.Equal(t, "json", cfg.OutputFormat)
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("DBTSTYLE_OUTPUT", "markdown")

		cfg, err := LoadConfig(cfgPath, newFlags())
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("nested env key", func(t *testing.T) {
		ResetConfig()
		t.Setenv("DBTSTYLE_LINT__DOCS_BASE_URL", "https://mirror.example.com")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://mirror.example.com", cfg.Lint.DocsBaseURL)
	})
}

func TestLoadConfig_ProjectDirFlag(t *testing.T) {
	ResetConfig()
	root := testutil.NewProject(t, map[string]string{"dbtstyle.yaml": "verbose: true\n"})

	flags := newFlags()
	require.NoError(t, flags.Set("project-dir", root))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ModelsDirAnchorsRoot(t *testing.T) {
	ResetConfig()
	root := testutil.NewProject(t, map[string]string{"models/a.sql": "select 1"})

	flags := newFlags()
	require.NoError(t, flags.Set("models-dir", filepath.Join(root, "models")))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "models"), cfg.ModelsDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "output: [unclosed\n", "error reading config file"},
		{"bad output", "output: xml\n", "unknown output mode"},
		{"bad severity", "lint:\n  severity:\n    SQ01: fatal\n", "unknown severity"},
		{"empty history path", "history_path: \"\"\n", "history_path must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			root := testutil.NewProject(t, map[string]string{"dbtstyle.yaml": tt.content})
			_, err := LoadConfig(filepath.Join(root, "dbtstyle.yaml"), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "models_dir", envKey("DBTSTYLE_MODELS_DIR"))
	assert.Equal(t, "lint.docs_base_url", envKey("DBTSTYLE_LINT__DOCS_BASE_URL"))
}

func TestNewLogger(t *testing.T) {
	quiet := NewLogger(os.Stderr, false)
	assert.False(t, quiet.Enabled(t.Context(), slog.LevelDebug))

	loud := NewLogger(os.Stderr, true)
	assert.True(t, loud.Enabled(t.Context(), slog.LevelDebug))

	ctx := WithLogger(t.Context(), loud)
	assert.Same(t, loud, GetLogger(ctx))
	assert.NotNil(t, GetLogger(t.Context()))
}
