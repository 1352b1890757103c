// Package watch reports batches of changed project files.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// DefaultExtensions are the file types that trigger a re-lint.
var DefaultExtensions = []string{".sql", ".yml", ".yaml", ".star"}

// Options configures a Watcher.
type Options struct {
	Debounce   time.Duration
	Extensions []string
	Logger     *slog.Logger
}

// Watcher watches directory trees for changes to files of interest.
type Watcher struct {
	dirs     []string
	exts     map[string]bool
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for the given directories and everything below them.
func New(dirs []string, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Watcher{dirs: dirs, exts: exts, debounce: opts.Debounce, logger: opts.Logger}
}

// Watch starts watching and returns a channel receiving the sorted paths
// changed in each debounced burst. The channel is closed when ctx is done.
// Directories are registered before Watch returns.
func (w *Watcher) Watch(ctx context.Context) (<-chan []string, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if _, err := w.addTree(fw, dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	out := make(chan []string)
	go w.loop(ctx, fw, out)
	return out, nil
}

// addTree registers dir and its subdirectories, skipping hidden ones, and
// returns the files of interest already inside.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		if w.relevant(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (w *Watcher) relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)
	defer func() { _ = fw.Close() }()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if files, err := w.addTree(fw, event.Name); err == nil {
					for _, f := range files {
						pending[f] = true
					}
				}
			}
			if w.relevant(event.Name) {
				pending[event.Name] = true
			}
			if len(pending) > 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)

			w.logger.Debug("files changed", "count", len(batch))
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}
