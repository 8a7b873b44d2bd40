package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/fwlint/pkg/core"
)

// DefaultDebounce is the quiet period applied to bursts of events on one file.
const DefaultDebounce = 100 * time.Millisecond

// WatchWorker emits a core.Event for every change to a collection document
// under Root. It is a lifecycle worker and is meant to run under a supervisor.
type WatchWorker struct {
	*worker.BaseWorker
	Root      string
	collector *Collector
	events    chan<- core.Event
	logger    *slog.Logger
	delay     time.Duration

	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	mu     sync.RWMutex
	active bool
	dirs   map[string]bool // watched directories
}

// NewWatchWorker creates a watcher for the documents collector matches under root.
func NewWatchWorker(root string, collector *Collector, events chan<- core.Event, logger *slog.Logger) *WatchWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		Root:       root,
		collector:  collector,
		events:     events,
		logger:     logger,
		delay:      DefaultDebounce,
	}
}

// WithDebounce overrides the quiet period. It must be called before Start.
func (w *WatchWorker) WithDebounce(d time.Duration) *WatchWorker {
	w.delay = d
	return w
}

func (w *WatchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.recursiveAdd(watcher, w.Root); err != nil {
		_ = watcher.Close()
		return err
	}

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()
	w.debouncer = newDebouncer(w.delay)
	w.setActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *WatchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *WatchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"root":              w.Root,
			"pattern":           w.collector.Pattern,
		}
	})
}

// Active reports whether the underlying fsnotify watcher is running.
func (w *WatchWorker) Active() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

func (w *WatchWorker) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

// recursiveAdd registers dir and every non-skipped directory below it.
func (w *WatchWorker) recursiveAdd(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("skipping unreadable directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && w.collector.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.mu.Lock()
		if w.dirs == nil {
			w.dirs = make(map[string]bool)
		}
		w.dirs[path] = true
		w.mu.Unlock()
		return nil
	})
}

// announceDirectory emits a create event for every document already inside a
// directory that appeared under Root, such as one moved in or extracted.
// Files written later are reported by the watch added in recursiveAdd.
func (w *WatchWorker) announceDirectory(ctx context.Context, dir string) bool {
	sent := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && w.collector.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !w.collector.Match(rel) {
			return nil
		}
		w.sendEvent(ctx, core.Event{Type: core.EventCreate, Path: rel, Timestamp: time.Now()})
		sent = true
		return nil
	})
	if err != nil {
		w.logger.Warn("failed to scan new directory", "path", dir, "error", err)
	}
	return sent
}

// forgetDirectory drops the watches on dir and below. It reports false when
// dir was not a watched directory.
func (w *WatchWorker) forgetDirectory(dir string) bool {
	w.mu.Lock()
	watcher := w.watcher
	var gone []string
	prefix := dir + string(filepath.Separator)
	for path := range w.dirs {
		if path == dir || strings.HasPrefix(path, prefix) {
			gone = append(gone, path)
			delete(w.dirs, path)
		}
	}
	w.mu.Unlock()

	for _, path := range gone {
		// fsnotify may already have dropped it
		_ = watcher.Remove(path)
	}
	return len(gone) > 0
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

// processFilesystemEvent handles filtering, mapping, and debouncing of filesystem events.
func (w *WatchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.mu.RLock()
			watcher := w.watcher
			w.mu.RUnlock()
			if err := w.recursiveAdd(watcher, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return w.announceDirectory(ctx, event.Name)
		}
	}

	rel, err := filepath.Rel(w.Root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && rel != "." && w.forgetDirectory(event.Name) {
		// The documents inside went with it.
		w.sendEvent(ctx, core.Event{Type: core.EventDelete, Path: rel, Timestamp: time.Now()})
		return true
	}

	if !w.collector.Match(rel) {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	w.sendEvent(ctx, core.Event{Type: eType, Path: rel, Timestamp: time.Now()})
	return true
}

// sendEvent enqueues an event via the debouncer.
func (w *WatchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			// the consumer may close the channel while stopping
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// run is the main event loop for the watcher worker.
func (w *WatchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.setActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Stop accepting events and wait for in-flight timers before returning.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *WatchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}
