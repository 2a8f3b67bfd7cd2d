// Package config provides configuration management for splice.
// Configuration is loaded from environment variables with sensible defaults,
// and editor behaviour from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".splice"

	// Environment variable names
	EnvPort          = "SPLICE_PORT"
	EnvLogLevel      = "SPLICE_LOG_LEVEL"
	EnvDataDir       = "SPLICE_DATA_DIR"
	EnvEditorFile    = "SPLICE_EDITOR_CONFIG"
	EnvCacheWorker   = "SPLICE_CACHE_WORKER"
	EnvSystemClip    = "SPLICE_SYSTEM_CLIPBOARD"
	EnvUndoLimit     = "SPLICE_UNDO_LIMIT"
	EnvWatchFootage  = "SPLICE_WATCH_FOOTAGE"
	EnvCacheMaxBytes = "SPLICE_CACHE_MAX_BYTES"

	// Database filename
	DBFilename = "splice.db"

	// Editor settings filename inside the data directory
	EditorFilename = "editor.yaml"

	DefaultCacheMaxBytes = 512 * 1024 * 1024
	DefaultUndoLimit     = 200
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	EditorPath() string
	CacheWorker() bool
	CacheMaxBytes() int64
	SystemClipboard() bool
	WatchFootage() bool
	UndoLimit() int
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	dataDir       string
	editorPath    string
	cacheWorker   bool
	cacheMaxBytes int64
	systemClip    bool
	watchFootage  bool
	undoLimit     int
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:          DefaultPort,
		logLevel:      DefaultLogLevel,
		dataDir:       defaultDataDir(),
		cacheWorker:   true,
		cacheMaxBytes: DefaultCacheMaxBytes,
		watchFootage:  true,
		undoLimit:     DefaultUndoLimit,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.editorPath = os.Getenv(EnvEditorFile)

	var err error
	if cfg.cacheWorker, err = envBool(EnvCacheWorker, cfg.cacheWorker); err != nil {
		return nil, err
	}
	if cfg.systemClip, err = envBool(EnvSystemClip, cfg.systemClip); err != nil {
		return nil, err
	}
	if cfg.watchFootage, err = envBool(EnvWatchFootage, cfg.watchFootage); err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvUndoLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %s: %q", EnvUndoLimit, v)
		}
		cfg.undoLimit = n
	}

	if v := os.Getenv(EnvCacheMaxBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", EnvCacheMaxBytes, v)
		}
		cfg.cacheMaxBytes = n
	}

	return cfg, nil
}

func envBool(name string, def bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// EditorPath returns the editor settings file, defaulting to editor.yaml in
// the data directory.
func (c *EnvConfig) EditorPath() string {
	if c.editorPath != "" {
		return c.editorPath
	}
	return filepath.Join(c.dataDir, EditorFilename)
}

// CacheWorker reports whether the background frame cache runs.
func (c *EnvConfig) CacheWorker() bool {
	return c.cacheWorker
}

func (c *EnvConfig) CacheMaxBytes() int64 {
	return c.cacheMaxBytes
}

// SystemClipboard reports whether copies are mirrored to the OS clipboard.
func (c *EnvConfig) SystemClipboard() bool {
	return c.systemClip
}

func (c *EnvConfig) WatchFootage() bool {
	return c.watchFootage
}

func (c *EnvConfig) UndoLimit() int {
	return c.undoLimit
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
