// Package watcher reports changes to footage files on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Watcher interface {
	Watch(ctx context.Context, path string) error
	Stop() error
	OnChange(callback func(path string, event EventType))
}

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventDelete:
		return "delete"
	default:
		return "modify"
	}
}

// FSWatcher watches individual files through their parent directories.
// Bursts of events on one file are coalesced into a single callback once
// the file has been quiet for the settle period.
type FSWatcher struct {
	fs     *fsnotify.Watcher
	logger *slog.Logger
	settle time.Duration

	mu       sync.Mutex
	files    map[string]bool
	dirs     map[string]int
	pending  map[string]EventType
	timer    *time.Timer
	callback func(path string, event EventType)

	done chan struct{}
	once sync.Once
}

func NewFSWatcher(settle time.Duration, logger *slog.Logger) (*FSWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &FSWatcher{
		fs:      fs,
		logger:  logger,
		settle:  settle,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]EventType),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *FSWatcher) Watch(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	if w.logger != nil {
		w.logger.Debug("watching footage", "path", abs)
	}
	return nil
}

// Unwatch stops reporting changes to path.
func (w *FSWatcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fs.Remove(dir)
	}
	return nil
}

func (w *FSWatcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return err
}

func (w *FSWatcher) OnChange(callback func(path string, event EventType)) {
	w.mu.Lock()
	w.callback = callback
	w.mu.Unlock()
}

func (w *FSWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.record(evt)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("footage watcher error", "error", err)
			}
		}
	}
}

func (w *FSWatcher) record(evt fsnotify.Event) {
	var kind EventType
	switch {
	case evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename):
		kind = EventDelete
	case evt.Has(fsnotify.Create):
		kind = EventCreate
	case evt.Has(fsnotify.Write):
		kind = EventModify
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[evt.Name] {
		return
	}
	// a recreated file is a modification of the footage we know
	if prev, ok := w.pending[evt.Name]; ok && prev == EventDelete && kind == EventCreate {
		kind = EventModify
	}
	w.pending[evt.Name] = kind
	if w.timer == nil {
		w.timer = time.AfterFunc(w.settle, w.flush)
	} else {
		w.timer.Reset(w.settle)
	}
}

func (w *FSWatcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]EventType)
	cb := w.callback
	w.mu.Unlock()

	for path, kind := range pending {
		if w.logger != nil {
			w.logger.Info("footage changed", "path", path, "event", kind.String())
		}
		if cb != nil {
			cb(path, kind)
		}
	}
}
