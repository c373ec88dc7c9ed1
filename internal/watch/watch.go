// Package watch reloads components when their definition files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before its handler runs.
const DefaultDebounce = 500 * time.Millisecond

var reloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_watch_reloads_total",
	Help: "Number of reloads triggered by file changes, by file and outcome",
}, []string{"file", "outcome"})

// Handler reloads whatever a file defines.
type Handler func(ctx context.Context) error

type Watcher struct {
	dir      string
	handlers map[string]Handler
	debounce time.Duration
	log      *zap.Logger
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New watches dir; handlers are keyed by base file name.
func New(dir string, handlers map[string]Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		handlers: handlers,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w
}

// Run blocks until ctx is done. Handlers run on the watcher's goroutine, one
// at a time.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("Watching data directory", zap.String("dir", w.dir))

	tick := time.NewTicker(w.debounce / 5)
	defer tick.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if _, watched := w.handlers[name]; !watched {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending[name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", zap.Error(err))

		case now := <-tick.C:
			for name, at := range pending {
				if now.Sub(at) < w.debounce {
					continue
				}
				delete(pending, name)
				w.fire(ctx, name)
			}
		}
	}
}

func (w *Watcher) fire(ctx context.Context, name string) {
	if err := w.handlers[name](ctx); err != nil {
		reloads.WithLabelValues(name, "failed").Inc()
		w.log.Error("Reload after file change failed", zap.String("file", name), zap.Error(err))
		return
	}
	reloads.WithLabelValues(name, "ok").Inc()
	w.log.Info("Reloaded after file change", zap.String("file", name))
}
