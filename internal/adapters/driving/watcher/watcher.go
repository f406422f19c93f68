// Package watcher runs a handler for files created or rewritten in a directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultDebounce waits for writes to settle before handling a file.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions restricts handling to the given extensions (with dot).
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]bool, len(exts))
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = true
		}
	}
}

// WithDebounce sets how long a file must be quiet before it is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher watches one directory, non-recursively.
type Watcher struct {
	dir      string
	handle   Handler
	exts     map[string]bool
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir.
func New(dir string, handle Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		handle:   handle,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Handlers run one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Debug("Watching %s", w.dir)

	ready := make(chan string, 64)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.schedule(ctx, event.Name, ready)
		case path := <-ready:
			if err := w.handle(ctx, path); err != nil {
				logger.Warn("handling %s: %v", path, err)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	if w.exts != nil && !w.exts[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.Mode().IsRegular()
}

// schedule (re)starts the quiet timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
