package project

import (
	"context"
	"errors"
	"testing"

	"github.com/splicekit/splice/internal/config"
	"github.com/splicekit/splice/internal/edit"
	"github.com/splicekit/splice/internal/logging"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
	"github.com/splicekit/splice/internal/viewer"
)

func setupManager(t *testing.T) (*Manager, *SQLiteRepository) {
	t.Helper()
	_, repo := setupTestDB(t)
	lib := NewLibrary(repo, &fakeProber{}, nil)
	return NewManager(repo, lib, config.DefaultEditor(), 50, logging.Discard()), repo
}

func TestManager_CreateEditSaveReopen(t *testing.T) {
	m, repo := setupManager(t)
	ctx := context.Background()

	rec := createFootage(t, repo, "/footage/a.mov")
	var hooked int
	m.OnOpen(func(s *Session) {
		hooked++
		s.Viewer.Add(&viewer.Recorder{})
	})

	s, err := m.Create(ctx, "cut 1", 1920, 1080, 25, 48000)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if hooked != 1 {
		t.Errorf("open hooks ran %d times, want 1", hooked)
	}
	if s.Dirty() {
		t.Error("new session is dirty")
	}

	lib, _ := m.Library().Index(ctx)
	item := lib.Get(rec.ID)
	var ids []timeline.ClipID
	err = s.Do(func(s *Session) error {
		ghosts, err := edit.GhostsFromMedia(s.Edit, []media.Item{item}, 0)
		if err != nil {
			return err
		}
		ids, err = edit.CommitImport(s.Edit, ghosts, false)
		return err
	})
	if err != nil || len(ids) != 2 {
		t.Fatalf("import = %v, %v", ids, err)
	}
	if !s.Dirty() {
		t.Fatal("session not dirty after edit")
	}

	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if s.Dirty() {
		t.Error("session dirty after save")
	}
	id := s.ID()
	if err := m.Close(ctx, id, false); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := m.Get(id); ok {
		t.Fatal("session still open after Close")
	}

	reopened, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if reopened == s {
		t.Fatal("Open() returned the closed session")
	}
	c := reopened.Sequence.Clip(ids[0])
	if c == nil || !c.IsLinkedTo(ids[1]) {
		t.Fatalf("reloaded clip = %+v", c)
	}
	if c.Media == nil || c.Media.MediaID() != rec.ID {
		t.Errorf("reloaded media = %v", c.Media)
	}

	fresh := timeline.NextClipID()
	if fresh <= ids[1] {
		t.Errorf("NextClipID() = %d, not above stored id %d", fresh, ids[1])
	}
}

func TestManager_UndoRefreshesViewer(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()
	rec := &viewer.Recorder{}
	m.OnOpen(func(s *Session) { s.Viewer.Add(rec) })

	s, err := m.Create(ctx, "undo", 640, 480, 30, 48000)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s.Sequence.AddClip(timeline.NewClip(nil, 0, -1, 0, 100, 0))

	s.Do(func(s *Session) error {
		_, err := edit.SplitAll(s.Edit, 50)
		return err
	})
	before := rec.RefreshCount()
	if name, ok := s.UndoEdit(); !ok || name != "split" {
		t.Fatalf("UndoEdit() = %q, %v", name, ok)
	}
	if rec.RefreshCount() != before+1 {
		t.Error("undo did not refresh the viewer")
	}
	if s.Sequence.Len() != 1 {
		t.Errorf("Len() after undo = %d, want 1", s.Sequence.Len())
	}
	if _, ok := s.RedoEdit(); !ok || s.Sequence.Len() != 2 {
		t.Error("redo did not split again")
	}
}

func TestManager_SaveDirtyAndDelete(t *testing.T) {
	m, repo := setupManager(t)
	ctx := context.Background()

	a, _ := m.Create(ctx, "a", 640, 480, 30, 48000)
	b, _ := m.Create(ctx, "b", 640, 480, 30, 48000)
	b.Do(func(s *Session) error {
		s.Sequence.Playhead = 99
		s.MarkChanged()
		return nil
	})

	n, err := m.SaveDirty(ctx)
	if err != nil || n != 1 {
		t.Fatalf("SaveDirty() = %d, %v, want 1", n, err)
	}

	if err := m.Delete(ctx, a.ID()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if info, _ := repo.GetSequence(ctx, a.ID()); info != nil {
		t.Error("deleted sequence still stored")
	}
	if err := m.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}

	if err := m.CloseAll(ctx); err != nil {
		t.Fatalf("CloseAll() error = %v", err)
	}
	if len(m.Sessions()) != 0 {
		t.Error("sessions left after CloseAll")
	}
	list, _ := repo.ListSequences(ctx)
	if len(list) != 1 || list[0].Name != "b" {
		t.Errorf("stored sequences = %v", list)
	}
}

func TestManager_CreateValidates(t *testing.T) {
	m, _ := setupManager(t)
	if _, err := m.Create(context.Background(), "", 640, 480, 30, 48000); err == nil {
		t.Error("Create() without a name should fail")
	}
	if _, err := m.Create(context.Background(), "bad", 640, 480, 0, 48000); err == nil {
		t.Error("Create() with zero frame rate should fail")
	}
}

func TestManager_FootageChangedRefreshesUsers(t *testing.T) {
	m, repo := setupManager(t)
	ctx := context.Background()
	rec := createFootage(t, repo, "/footage/a.mov")

	var recorders []*viewer.Recorder
	m.OnOpen(func(s *Session) {
		r := &viewer.Recorder{}
		recorders = append(recorders, r)
		s.Viewer.Add(r)
	})
	using, _ := m.Create(ctx, "using", 640, 480, 25, 48000)
	m.Create(ctx, "idle", 640, 480, 25, 48000)

	lib, _ := m.Library().Index(ctx)
	using.Sequence.AddClip(timeline.NewClip(lib.Get(rec.ID), 0, -1, 0, 50, 0))

	got := m.FootageChanged(ctx, "/footage/a.mov")
	if len(got) != 1 || got[0] != using {
		t.Fatalf("FootageChanged() = %v, want the using session", got)
	}
	if recorders[0].RefreshCount() != 1 || recorders[1].RefreshCount() != 0 {
		t.Errorf("refresh counts = %d, %d", recorders[0].RefreshCount(), recorders[1].RefreshCount())
	}
}
