package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/splicekit/splice/internal/api"
	"github.com/splicekit/splice/internal/cache"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/playback"
	"github.com/splicekit/splice/internal/project"
	"github.com/splicekit/splice/internal/sysclip"
	"github.com/splicekit/splice/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP editing service",
	Long: `Run the HTTP editing service on 127.0.0.1.

Open sequences are autosaved, footage files are watched for changes and a
frame cache worker decodes frames around each playhead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		autosave, _ := cmd.Flags().GetDuration("autosave")
		exportDir, _ := cmd.Flags().GetString("export-dir")
		return serve(autosave, exportDir)
	},
}

func init() {
	serveCmd.Flags().Duration("autosave", 30*time.Second, "interval between autosaves of open sequences")
	serveCmd.Flags().String("export-dir", "", "default directory for EDL exports (default <data dir>/exports)")
}

func serve(autosaveInterval time.Duration, exportDir string) error {
	startTime := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger
	logger.Info("starting splice", "version", Version, "data_dir", a.cfg.DataDir())

	if exportDir == "" {
		exportDir = filepath.Join(a.cfg.DataDir(), "exports")
	}
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authToken, err := ensureAuthToken(ctx, a.repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Printf("║  SPLICE v%-69s║\n", Version)
	fmt.Printf("║  API URL:    http://127.0.0.1:%-48d║\n", a.cfg.Port())
	fmt.Printf("║  Auth Token: %-65s║\n", authToken)
	fmt.Println("╚═══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	var frames *cache.Pool
	if a.cfg.CacheWorker() {
		store := cache.NewStore(a.cfg.CacheMaxBytes())
		frames = cache.NewPool(store, &cache.FFmpegDecoder{Width: 640}, a.editor.CachePrefetchFrames, logger)
		defer frames.Close()
	} else {
		logger.Info("frame cache disabled")
	}

	var fsw *watcher.FSWatcher
	if a.cfg.WatchFootage() {
		if fsw, err = watcher.NewFSWatcher(500*time.Millisecond, logger); err != nil {
			logger.Warn("footage watcher unavailable", "error", err)
		} else {
			defer fsw.Stop()
			fsw.OnChange(func(path string, event watcher.EventType) {
				if frames != nil {
					dropped := frames.Store().InvalidatePath(path)
					logger.Debug("invalidated cached frames", "path", path, "frames", dropped)
				}
				sessions := a.manager.FootageChanged(ctx, path)
				logger.Info("footage changed", "path", path, "event", event.String(), "sessions", len(sessions))
			})
			paths, err := a.library.FootagePaths(ctx)
			if err != nil {
				logger.Warn("failed to list footage", "error", err)
			}
			for _, p := range paths {
				if err := fsw.Watch(ctx, p); err != nil {
					logger.Warn("failed to watch footage", "path", p, "error", err)
				}
			}
		}
	}

	a.manager.OnOpen(func(s *project.Session) {
		if frames != nil {
			id := s.ID()
			s.Viewer.Add(frames.Attach(ctx, s.Sequence))
			s.OnClose(func() { frames.Detach(id) })
		}
		if fsw != nil {
			for _, c := range s.Sequence.Clips() {
				if f, ok := c.Media.(*media.Footage); ok && f.Path != "" {
					if err := fsw.Watch(ctx, f.Path); err != nil {
						logger.Warn("failed to watch footage", "path", f.Path, "error", err)
					}
				}
			}
		}
	})

	var mirror *sysclip.Mirror
	if a.cfg.SystemClipboard() {
		if sysclip.Available() {
			mirror = sysclip.NewMirror(sysclip.System{}, logger)
		} else {
			logger.Warn("system clipboard not supported on this machine")
		}
	}

	autosaver := project.NewAutosaver(a.manager, autosaveInterval, logger)
	go autosaver.Start(ctx)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       a.cfg.Port(),
		Manager:    a.manager,
		Repository: a.repo,
		Autosaver:  autosaver,
		Frames:     frames,
		Files:      playback.NewServer(logger),
		Mirror:     mirror,
		ExportDir:  exportDir,
		Logger:     logger,
		StartTime:  startTime,
		InstanceID: uuid.NewString(),
	})

	errCh := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		logger.Error("HTTP server error", "error", err)
	}

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}
	cancel()
	if err := a.manager.CloseAll(shutdownCtx); err != nil {
		logger.Error("failed to save open sequences", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
