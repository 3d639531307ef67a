// Package watch re-runs a callback when files below a set of directories
// change, coalescing bursts of events.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Watcher.Debounce is zero.
const DefaultDebounce = 150 * time.Millisecond

// Watcher observes directories recursively. Directories created after Run
// starts are added as they appear.
type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	// Ignore reports paths whose events are dropped, such as the destination
	// directory when it lives next to the sources.
	Ignore func(path string) bool
	Logger *log.Logger
}

// Run calls onChange with the changed paths after each quiet period until ctx
// is done. Errors returned by onChange are logged, not fatal. Run returns
// nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	logger := w.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.Dirs {
		if err := w.addTree(fsw, dir); err != nil {
			return err
		}
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, ev.Name); err != nil {
						logger.Warn("cannot watch new directory", "dir", ev.Name, "err", err)
					}
				}
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = true
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "err", err)

		case <-timer.C:
			changed := sortedKeys(pending)
			pending = map[string]bool{}
			if err := onChange(ctx, changed); err != nil {
				logger.Error("rebuild failed", "err", err)
			}
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	return w.Ignore != nil && w.Ignore(path)
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Within returns an Ignore func matching dir and everything below it.
func Within(dir string) func(string) bool {
	dir = filepath.Clean(dir)
	return func(path string) bool {
		path = filepath.Clean(path)
		return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
