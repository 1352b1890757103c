// Package history records lint runs in a local SQLite database so the score
// of a project can be followed over time.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

// DefaultPath is the database location relative to the project root.
const DefaultPath = ".dbtstyle/history.db"

// Memory opens a private in-memory database.
const Memory = ":memory:"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// Run is one recorded lint run.
type Run struct {
	ID         string
	Project    string
	StartedAt  time.Time
	Duration   time.Duration
	Models     int
	Files      int
	Errors     int
	Warnings   int
	Infos      int
	Hints      int
	Suppressed int
	Score      int
	// RuleCounts maps rule IDs to their number of diagnostics
	RuleCounts map[string]int
}

// Total returns the number of diagnostics of the run.
func (r *Run) Total() int {
	return r.Errors + r.Warnings + r.Infos + r.Hints
}

// TopRules returns up to n rule IDs with the most diagnostics.
func (r *Run) TopRules(n int) []string {
	ids := make([]string, 0, len(r.RuleCounts))
	for id := range r.RuleCounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := r.RuleCounts[ids[i]], r.RuleCounts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// NewRun summarizes an analysis result.
func NewRun(project string, startedAt time.Time, duration time.Duration, result *lint.Result) *Run {
	counts := result.Counts()
	return &Run{
		Project:    project,
		StartedAt:  startedAt.UTC(),
		Duration:   duration,
		Models:     result.Models,
		Files:      result.Files,
		Errors:     counts[core.SeverityError],
		Warnings:   counts[core.SeverityWarning],
		Infos:      counts[core.SeverityInfo],
		Hints:      counts[core.SeverityHint],
		Suppressed: result.Suppressed,
		Score:      result.Score(),
		RuleCounts: result.ByRule(),
	}
}

// Store persists runs in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
// Use Memory for an in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	dsn := Memory
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if path == Memory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := NewWithDB(db, logger)
	s.logger.Debug("opened history store", slog.String("path", path))
	return s, nil
}

// NewWithDB wraps an open, migrated database.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record stores run, assigning it an ID when it has none.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if s.db == nil {
		return ErrClosed
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, project, started_at, duration_ms, models, files, errors, warnings, infos, hints, suppressed, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Models, run.Files,
		run.Errors, run.Warnings, run.Infos, run.Hints, run.Suppressed, run.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	ruleIDs := make([]string, 0, len(run.RuleCounts))
	for id := range run.RuleCounts {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)
	for _, id := range ruleIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rule_counts (run_id, rule_id, count) VALUES (?, ?, ?)`,
			run.ID, id, run.RuleCounts[id],
		); err != nil {
			return fmt.Errorf("failed to insert rule count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Debug("recorded lint run", slog.String("id", run.ID), slog.Int("score", run.Score))
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, started_at, duration_ms, models, files, errors, warnings, infos, hints, suppressed, score
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	byID := make(map[string]*Run)
	for rows.Next() {
		run := &Run{RuleCounts: map[string]int{}}
		var startedAt, durationMS int64
		if err := rows.Scan(&run.ID, &run.Project, &startedAt, &durationMS, &run.Models, &run.Files,
			&run.Errors, &run.Warnings, &run.Infos, &run.Hints, &run.Suppressed, &run.Score); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedAt).UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
		byID[run.ID] = run
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}

	if err := s.loadRuleCounts(ctx, byID); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) loadRuleCounts(ctx context.Context, byID map[string]*Run) error {
	ids := make([]any, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, rule_id, count FROM rule_counts WHERE run_id IN (`+placeholders+`)`, ids...)
	if err != nil {
		return fmt.Errorf("failed to load rule counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var runID, ruleID string
		var count int
		if err := rows.Scan(&runID, &ruleID, &count); err != nil {
			return fmt.Errorf("failed to scan rule count: %w", err)
		}
		if run, ok := byID[runID]; ok {
			run.RuleCounts[ruleID] = count
		}
	}
	return rows.Err()
}

// Latest returns the newest run, or nil when none is recorded.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	runs, err := s.Recent(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// Prune keeps the newest keep runs and deletes the rest.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
