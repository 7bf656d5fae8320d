// Package watcher provides file system watching with debouncing for
// scanned source files.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a set of files for changes and reports the paths that
// changed after a quiet period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	paths     map[string]string // absolute path -> path as given
	debounce  time.Duration
	onChange  chan []string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths []string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 1 * time.Second,
	}
}

// New creates a new file watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	paths := make(map[string]string, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path %s: %w", p, err)
		}
		paths[abs] = p
	}

	return &Watcher{
		fsWatcher: fsw,
		paths:     paths,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directories containing the configured files.
// Returns a channel that receives the changed paths after each quiet period.
func (w *Watcher) Start() (<-chan []string, error) {
	// Watch parent directories so editors that replace files (write to a
	// temp file, then rename) are still observed.
	dirs := make(map[string]bool)
	for abs := range w.paths {
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		changed = make(map[string]bool)
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			path, relevant := w.relevantPath(event)
			if !relevant {
				continue
			}
			changed[path] = true

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(changed) > 0 {
				paths := make([]string, 0, len(changed))
				for p := range changed {
					paths = append(paths, p)
				}
				changed = make(map[string]bool)

				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- paths:
				default:
				}
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Log error but continue watching
			// Note: We intentionally don't log here to avoid dependency on a logger.
			// Callers can wrap the watcher if they need error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevantPath reports whether the event touches a watched file, and if so
// returns the path as originally configured.
func (w *Watcher) relevantPath(event fsnotify.Event) (string, bool) {
	// Only care about write, create, or rename operations (editors often
	// save by renaming a temp file over the original)
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}

	orig, ok := w.paths[abs]
	return orig, ok
}
