package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWatch_RelintsOnChange(t *testing.T) {
	root := chdirProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(ctx)

	runs := make(chan *lintRun, 8)
	done := make(chan error, 1)
	go func() {
		done <- runWatch(cmd, &WatchOptions{Rules: []string{"SQ06"}, Severity: "warning"}, func(r *lintRun) {
			runs <- r
		})
	}()

	first := waitRun(t, runs, 10*time.Second)
	require.Len(t, first.Result.Diagnostics, 1)
	assert.Equal(t, "SQ06", first.Result.Diagnostics[0].RuleID)

	// The watcher registers after the first run, so keep writing until a
	// change is seen.
	mart := filepath.Join(root, "models", "marts", "orders.sql")
	fixed := "select order_id from {{ ref('stg_shop__orders') }}\nunion all\nselect order_id from {{ ref('stg_shop__orders') }}\n"
	var second *lintRun
	deadline := time.After(10 * time.Second)
	for second == nil {
		require.NoError(t, os.WriteFile(mart, []byte(fixed), 0600))
		select {
		case second = <-runs:
		case <-time.After(300 * time.Millisecond):
		case <-deadline:
			t.Fatal("no lint run after the model changed")
		}
	}
	assert.Empty(t, second.Result.Diagnostics)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.Contains(t, out.String(), "Watching models for changes")
	assert.Contains(t, out.String(), "changed, linting again")
	assert.Contains(t, out.String(), "No lint issues found")
	assert.NoFileExists(t, filepath.Join(root, ".dbtstyle", "history.db"))
}

func TestRunWatch_InvalidSeverity(t *testing.T) {
	chdirProject(t)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := runWatch(cmd, &WatchOptions{Severity: "loud"}, nil)
	assert.ErrorContains(t, err, `unknown severity "loud"`)
}

func waitRun(t *testing.T, runs <-chan *lintRun, timeout time.Duration) *lintRun {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a lint run")
		return nil
	}
}
