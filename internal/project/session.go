package project

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/splicekit/splice/internal/config"
	"github.com/splicekit/splice/internal/edit"
	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/logging"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
	"github.com/splicekit/splice/internal/undo"
	"github.com/splicekit/splice/internal/viewer"
)

// Session is an open sequence with its undo history and editor state. All
// access goes through Do, which serialises edits.
type Session struct {
	mu         sync.Mutex
	Sequence   *timeline.Sequence
	Undo       *undo.Stack
	Edit       *edit.Context
	Viewer     *viewer.Multi
	Heights    *timeline.TrackHeights
	Selections []timeline.Selection
	Ghosts     []timeline.Ghost

	changed bool
	closers []func()
}

func (s *Session) ID() string { return s.Sequence.ID }

func (s *Session) Do(fn func(s *Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// MarkChanged flags state that is saved but not tracked by undo, such as
// the playhead or track heights.
func (s *Session) MarkChanged() { s.changed = true }

func (s *Session) Dirty() bool { return s.changed || !s.Undo.IsClean() }

// UndoEdit reverts the last edit and redraws.
func (s *Session) UndoEdit() (string, bool) {
	name, ok := s.Undo.Undo()
	if ok {
		s.Viewer.Refresh()
	}
	return name, ok
}

func (s *Session) RedoEdit() (string, bool) {
	name, ok := s.Undo.Redo()
	if ok {
		s.Viewer.Refresh()
	}
	return name, ok
}

// OnClose registers fn to run when the session is closed.
func (s *Session) OnClose(fn func()) {
	s.closers = append(s.closers, fn)
}

// UsesFootage reports whether any clip plays the file at path.
func (s *Session) UsesFootage(path string) bool {
	for _, c := range s.Sequence.Clips() {
		if f, ok := c.Media.(*media.Footage); ok && f.Path == path {
			return true
		}
	}
	return false
}

// Manager owns the open sessions. Sessions share one edit clipboard so clips
// can be copied between sequences.
type Manager struct {
	mu       sync.Mutex
	clipMu   sync.Mutex
	repo     Repository
	library  *Library
	cfg      config.Editor
	limit    int
	effects  *effects.Registry
	clip     *edit.Clipboard
	sessions map[string]*Session
	hooks    []func(*Session)
	reserved bool
	logger   *slog.Logger
}

func NewManager(repo Repository, library *Library, cfg config.Editor, undoLimit int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		repo:     repo,
		library:  library,
		cfg:      cfg,
		limit:    undoLimit,
		effects:  effects.Default(),
		clip:     &edit.Clipboard{},
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (m *Manager) Repository() Repository { return m.repo }

func (m *Manager) Library() *Library { return m.library }

func (m *Manager) Effects() *effects.Registry { return m.effects }

// OnOpen registers fn to run for every session opened afterwards, before it
// is handed to callers. It is used to attach viewer sinks.
func (m *Manager) OnOpen(fn func(*Session)) {
	m.mu.Lock()
	m.hooks = append(m.hooks, fn)
	m.mu.Unlock()
}

// WithClipboard runs fn on s while holding the shared clipboard.
func (m *Manager) WithClipboard(s *Session, fn func(s *Session, cb *edit.Clipboard) error) error {
	m.clipMu.Lock()
	defer m.clipMu.Unlock()
	return s.Do(func(s *Session) error { return fn(s, m.clip) })
}

// PeekClipboard runs fn on the shared clipboard without touching a session.
func (m *Manager) PeekClipboard(fn func(cb *edit.Clipboard)) {
	m.clipMu.Lock()
	defer m.clipMu.Unlock()
	fn(m.clip)
}

// reserveIDs keeps fresh clip ids above every id already stored. Callers
// hold m.mu.
func (m *Manager) reserveIDs(ctx context.Context) error {
	if m.reserved {
		return nil
	}
	id, err := m.repo.MaxClipID(ctx)
	if err != nil {
		return fmt.Errorf("read clip ids: %w", err)
	}
	timeline.ReserveClipID(id)
	m.reserved = true
	return nil
}

// Create stores a new empty sequence and opens it.
func (m *Manager) Create(ctx context.Context, name string, width, height int, rate float64, freq int) (*Session, error) {
	if name == "" {
		return nil, fmt.Errorf("sequence name is required")
	}
	if width <= 0 || height <= 0 || rate <= 0 || freq <= 0 {
		return nil, fmt.Errorf("invalid sequence format %dx%d @ %g fps, %d Hz", width, height, rate, freq)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reserveIDs(ctx); err != nil {
		return nil, err
	}

	seq := timeline.NewSequence(name, width, height, rate, freq)
	heights := timeline.NewTrackHeights(m.cfg.DefaultTrackHeight, m.cfg.MinTrackHeight)
	if err := m.repo.SaveTimeline(ctx, seq, heights); err != nil {
		return nil, fmt.Errorf("save sequence: %w", err)
	}
	m.logger.Info("sequence created", "sequence_id", seq.ID, "name", name)
	return m.open(seq, heights), nil
}

// Open returns the session of sequence id, loading it if needed.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	if err := m.reserveIDs(ctx); err != nil {
		return nil, err
	}

	var lib *media.Library
	if m.library != nil {
		var err error
		if lib, err = m.library.Index(ctx); err != nil {
			return nil, fmt.Errorf("load media library: %w", err)
		}
	}
	seq, stored, err := m.repo.LoadTimeline(ctx, id, lib)
	if err != nil {
		return nil, err
	}
	if err := seq.Validate(); err != nil {
		m.logger.Warn("loaded sequence is inconsistent", "sequence_id", id, "error", err)
	}
	for _, c := range seq.Clips() {
		if c.Media == nil {
			m.logger.Warn("clip media offline", "sequence_id", id, "clip", c.ID)
		}
	}

	heights := timeline.NewTrackHeights(m.cfg.DefaultTrackHeight, m.cfg.MinTrackHeight)
	for track, h := range stored {
		heights.SetTrackHeight(track, h)
	}
	m.logger.Info("sequence opened", "sequence_id", id, "clips", seq.Len())
	return m.open(seq, heights), nil
}

func (m *Manager) open(seq *timeline.Sequence, heights *timeline.TrackHeights) *Session {
	s := &Session{
		Sequence: seq,
		Undo:     undo.NewStack(m.limit),
		Viewer:   viewer.NewMulti(),
		Heights:  heights,
	}
	s.Edit = &edit.Context{
		Sequence:  seq,
		Undo:      s.Undo,
		Viewer:    s.Viewer,
		Config:    m.cfg,
		Effects:   m.effects,
		Clipboard: m.clip,
		Logger:    logging.WithSequenceID(m.logger, seq.ID),
	}
	s.Undo.SetClean()
	for _, hook := range m.hooks {
		hook(s)
	}
	m.sessions[seq.ID] = s
	return s
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Sessions returns the open sessions ordered by sequence id.
func (m *Manager) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Save writes the session back and marks its history clean.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	return s.Do(func(s *Session) error {
		if err := m.repo.SaveTimeline(ctx, s.Sequence, s.Heights); err != nil {
			return fmt.Errorf("save sequence %s: %w", s.ID(), err)
		}
		s.Undo.SetClean()
		s.changed = false
		return nil
	})
}

// SaveDirty saves every session with unsaved changes and returns how many
// were written.
func (m *Manager) SaveDirty(ctx context.Context) (int, error) {
	saved := 0
	for _, s := range m.Sessions() {
		s.mu.Lock()
		dirty := s.Dirty()
		s.mu.Unlock()
		if !dirty {
			continue
		}
		if err := m.Save(ctx, s); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// Close drops the session of id, saving it first when save is set.
func (m *Manager) Close(ctx context.Context, id string, save bool) error {
	s, ok := m.Get(id)
	if !ok {
		return nil
	}
	if save {
		if err := m.Save(ctx, s); err != nil {
			return err
		}
	}
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	for _, fn := range s.closers {
		fn()
	}
	return nil
}

// CloseAll saves and closes every session.
func (m *Manager) CloseAll(ctx context.Context) error {
	var firstErr error
	for _, s := range m.Sessions() {
		if err := m.Close(ctx, s.ID(), true); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Delete closes and removes a sequence.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.Close(ctx, id, false); err != nil {
		return err
	}
	info, err := m.repo.GetSequence(ctx, id)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("sequence %s: %w", id, ErrNotFound)
	}
	return m.repo.DeleteSequence(ctx, id)
}

// SessionsUsing returns the open sessions playing the file at path.
func (m *Manager) SessionsUsing(path string) []*Session {
	var out []*Session
	for _, s := range m.Sessions() {
		var uses bool
		s.Do(func(s *Session) error {
			uses = s.UsesFootage(path)
			return nil
		})
		if uses {
			out = append(out, s)
		}
	}
	return out
}

// FootageChanged reprobes the file at path and redraws every open session
// playing it. Sessions keep their loaded media until reopened.
func (m *Manager) FootageChanged(ctx context.Context, path string) []*Session {
	if m.library != nil {
		if _, _, err := m.library.Rescan(ctx, path); err != nil {
			m.logger.Warn("failed to rescan footage", "path", path, "error", err)
		}
	}
	sessions := m.SessionsUsing(path)
	for _, s := range sessions {
		s.Do(func(s *Session) error {
			s.Viewer.Refresh()
			return nil
		})
	}
	return sessions
}
