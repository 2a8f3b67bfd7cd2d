// Package api is the local HTTP control surface of the editor. Every edit
// runs inside the session lock of the sequence it targets.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/splicekit/splice/internal/cache"
	"github.com/splicekit/splice/internal/playback"
	"github.com/splicekit/splice/internal/project"
	"github.com/splicekit/splice/internal/sysclip"
)

const Version = "0.3.0"

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Manager    *project.Manager
	Repository project.Repository
	Autosaver  *project.Autosaver
	// Frames serves decoded frames of open sequences. Optional.
	Frames *cache.Pool
	Files  playback.FileServer
	// Mirror copies clipboard summaries to the OS clipboard. Optional.
	Mirror *sysclip.Mirror
	// ExportDir is used when an export request names no directory.
	ExportDir  string
	Logger     *slog.Logger
	StartTime  time.Time
	InstanceID string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
