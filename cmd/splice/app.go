package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/splicekit/splice/internal/config"
	"github.com/splicekit/splice/internal/db"
	"github.com/splicekit/splice/internal/logging"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/project"
)

// app holds what every subcommand needs: settings, the database and an
// edit session manager.
type app struct {
	cfg     *config.EnvConfig
	editor  config.Editor
	logger  *slog.Logger
	db      *db.DB
	repo    *project.SQLiteRepository
	library *project.Library
	manager *project.Manager
}

func openApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())

	editor, err := config.LoadEditor(cfg.EditorPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load editor settings: %w", err)
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := project.NewRepository(database.Conn())
	library := project.NewLibrary(repo, media.NewFFProbe(logger), logger)
	return &app{
		cfg:     cfg,
		editor:  editor,
		logger:  logger,
		db:      database,
		repo:    repo,
		library: library,
		manager: project.NewManager(repo, library, editor, cfg.UndoLimit(), logger),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// findSequence resolves ref as a sequence id, then as a sequence name.
func (a *app) findSequence(ctx context.Context, ref string) (*project.SequenceInfo, error) {
	info, err := a.repo.GetSequence(ctx, ref)
	if err != nil {
		return nil, err
	}
	if info != nil {
		return info, nil
	}
	all, err := a.repo.ListSequences(ctx)
	if err != nil {
		return nil, err
	}
	var match *project.SequenceInfo
	for _, s := range all {
		if s.Name != ref {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("sequence name %q is ambiguous, use the id", ref)
		}
		match = s
	}
	if match == nil {
		return nil, fmt.Errorf("sequence %q: %w", ref, project.ErrNotFound)
	}
	return match, nil
}

func ensureAuthToken(ctx context.Context, repo *project.SQLiteRepository) (string, error) {
	existing, err := repo.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}
	return token, nil
}
