package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/estate/pkg/core"
)

// Watch reports changes to keys matching pattern made by other processes.
// The channel is closed once ctx is cancelled and the watcher has drained.
func (m *Medium) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(m.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", m.Path, err)
	}

	events := make(chan core.Event)
	w := &watchWorker{
		medium:    m,
		pattern:   pattern,
		events:    events,
		watcher:   watcher,
		debouncer: newDebouncer(m.config.Debounce),
	}
	m.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		m.reportError(fmt.Errorf("watcher failed: %w", err))
	}))

	return events, nil
}

type watchWorker struct {
	medium    *Medium
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.medium.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.medium.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// In-flight timers must finish before the events channel is closed.
	if !w.debouncer.stopAndWait(5 * time.Second) {
		logger.Warn("watcher debouncer did not drain in time")
	}
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.medium.config.Logger.Error("fsnotify error", "error", wErr)
			w.medium.reportError(wErr)
		}
	}
}

// process filters a filesystem event and schedules a re-read of its key.
// The event type is decided by what is on disk once the burst settles, since
// atomic renames surface as a mix of create, rename and remove operations.
func (w *watchWorker) process(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) {
		return
	}
	key, ok := keyFromName(name)
	if !ok {
		return
	}
	if match, _ := doublestar.Match(w.pattern, key); !match {
		return
	}

	w.medium.config.Logger.Debug("event received", "key", key, "op", event.Op.String())

	w.debouncer.add(key, func() {
		e, ok := w.settle(key, event.Name)
		if !ok {
			return
		}
		w.send(ctx, e)
	})
}

// settle reads the current state of key and builds the event to deliver.
// It returns false when the change was made by this handle.
func (w *watchWorker) settle(key, path string) (core.Event, bool) {
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if w.medium.isOwn(key, true, "") {
			return core.Event{}, false
		}
		return core.Event{Type: core.EventRemove, Key: key, Timestamp: time.Now().Unix()}, true
	case err != nil:
		w.medium.reportError(fmt.Errorf("failed to read %s after change: %w", key, err))
		return core.Event{}, false
	}

	value := string(data)
	if w.medium.isOwn(key, false, value) {
		return core.Event{}, false
	}
	return core.Event{Type: core.EventSet, Key: key, Value: value, Timestamp: time.Now().Unix()}, true
}

func (w *watchWorker) send(ctx context.Context, e core.Event) {
	defer func() {
		// The channel may already be closed while shutting down.
		_ = recover()
	}()
	select {
	case w.events <- e:
		w.medium.recordEvent()
	case <-ctx.Done():
	}
}

func (m *Medium) reportError(err error) {
	if m.config.ErrorHandler != nil {
		m.config.ErrorHandler(err)
		return
	}
	m.config.Logger.Error("fs medium error", "error", err)
}
