package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/splicekit/splice/internal/export"
	"github.com/splicekit/splice/internal/project"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("SPLICE_DATA_DIR", t.TempDir())
	t.Setenv("SPLICE_LOG_LEVEL", "error")
	a, err := openApp()
	if err != nil {
		t.Fatalf("openApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestFindSequence(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	s, err := a.manager.Create(ctx, "Rough Cut", 1920, 1080, 25, 48000)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byID, err := a.findSequence(ctx, s.ID())
	if err != nil || byID.Name != "Rough Cut" {
		t.Fatalf("findSequence(id) = %+v, %v", byID, err)
	}
	byName, err := a.findSequence(ctx, "Rough Cut")
	if err != nil || byName.ID != s.ID() {
		t.Fatalf("findSequence(name) = %+v, %v", byName, err)
	}

	if _, err := a.findSequence(ctx, "missing"); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("findSequence(missing) error = %v, want ErrNotFound", err)
	}

	if _, err := a.manager.Create(ctx, "Rough Cut", 1280, 720, 30, 48000); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := a.findSequence(ctx, "Rough Cut"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("findSequence(duplicate name) error = %v, want ambiguous", err)
	}
}

func TestEnsureAuthToken(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	first, err := ensureAuthToken(ctx, a.repo)
	if err != nil {
		t.Fatalf("ensureAuthToken() error = %v", err)
	}
	if len(first) != 64 {
		t.Errorf("token length = %d, want 64", len(first))
	}
	second, err := ensureAuthToken(ctx, a.repo)
	if err != nil {
		t.Fatalf("ensureAuthToken() error = %v", err)
	}
	if first != second {
		t.Error("token changed between calls")
	}
}

func TestOpenApp_EditorSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SPLICE_DATA_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "editor.yaml"), []byte("paste_seeks: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	a, err := openApp()
	if err != nil {
		t.Fatalf("openApp() error = %v", err)
	}
	defer a.Close()
	if a.editor.PasteSeeks {
		t.Error("editor settings file was not applied")
	}
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		frame int64
		rate  float64
		want  string
	}{
		{0, 25, "00:00:00:00"},
		{500, 25, "00:00:20:00"},
		{1800, 29.97, "00:01:00;02"},
		{7, 0, "7"},
	}
	for _, tc := range tests {
		if got := timecode(tc.frame, tc.rate); got != tc.want {
			t.Errorf("timecode(%d, %g) = %q, want %q", tc.frame, tc.rate, got, tc.want)
		}
	}
	if got := timecode(1800, 29.97); got != export.Timecode(1800, 30, true) {
		t.Errorf("timecode disagrees with export.Timecode: %q", got)
	}
}
