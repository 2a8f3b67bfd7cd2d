package project

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Autosaver periodically writes sessions with unsaved changes.
type Autosaver struct {
	manager  *Manager
	logger   *slog.Logger
	interval time.Duration
	running  atomic.Bool
	paused   atomic.Bool
}

func NewAutosaver(manager *Manager, interval time.Duration, logger *slog.Logger) *Autosaver {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Autosaver{manager: manager, logger: logger, interval: interval}
}

func (a *Autosaver) Start(ctx context.Context) {
	if a.running.Swap(true) {
		return
	}

	a.logger.Info("autosave started", "interval", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("autosave stopping")
			a.running.Store(false)
			return
		case <-ticker.C:
			if !a.paused.Load() {
				a.saveNow(ctx)
			}
		}
	}
}

func (a *Autosaver) saveNow(ctx context.Context) {
	n, err := a.manager.SaveDirty(ctx)
	if err != nil {
		a.logger.Error("autosave failed", "error", err)
		return
	}
	if n > 0 {
		a.logger.Debug("autosaved sequences", "count", n)
	}
}

func (a *Autosaver) Pause() {
	a.paused.Store(true)
	a.logger.Info("autosave paused")
}

func (a *Autosaver) Resume() {
	a.paused.Store(false)
	a.logger.Info("autosave resumed")
}

func (a *Autosaver) IsPaused() bool {
	return a.paused.Load()
}

func (a *Autosaver) IsRunning() bool {
	return a.running.Load()
}
