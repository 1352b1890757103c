package load_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/load"
	"github.com/leapstack-labs/dbtstyle/pkg/lint/rules/ruletest"
)

func TestLD01_LoadIssues(t *testing.T) {
	project := ruletest.Load(t, map[string]string{
		"models/broken.yml": "models:\n  name: a\n",
		"models/open.sql":   "select 'unterminated\n",
		"models/ok.sql":     "select 1 as id\n",
	})
	project.Issues = append(project.Issues, core.LoadIssue{FilePath: filepath.Join(project.ModelsDir, "unreadable.sql"), Message: "read model: permission denied"})

	diags := ruletest.Analyze(t, project, "LD01", nil)
	require.Len(t, diags, 3)
	assert.Equal(t, "models: must be a list", diags[0].Message)
	assert.Equal(t, 2, diags[0].Pos.Line)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
	assert.Equal(t, "unterminated string", diags[1].Message)
	assert.Equal(t, "read model: permission denied", diags[2].Message)
	assert.Equal(t, 1, diags[2].Pos.Line)
}

func TestLD01_CleanProject(t *testing.T) {
	assert.Empty(t, ruletest.Run(t, ruletest.Model("a.sql", "select 1 as id\n"), "LD01"))
}
