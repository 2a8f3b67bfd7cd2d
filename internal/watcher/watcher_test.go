package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorded struct {
	mu     sync.Mutex
	events map[string][]EventType
}

func (r *recorded) add(path string, e EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[path] = append(r.events[path], e)
}

func (r *recorded) get(path string) []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EventType(nil), r.events[path]...)
}

func TestFSWatcher_CoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.mov")
	other := filepath.Join(dir, "b.mov")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("v1"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	w, err := NewFSWatcher(50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFSWatcher() error = %v", err)
	}
	defer w.Stop()

	rec := &recorded{events: make(map[string][]EventType)}
	w.OnChange(rec.add)
	if err := w.Watch(context.Background(), watched); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(watched, []byte("v2 longer"), 0644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}
	os.WriteFile(other, []byte("ignored"), 0644)

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.get(watched)) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	got := rec.get(watched)
	if len(got) != 1 || got[0] != EventModify {
		t.Errorf("events for watched file = %v, want one modify", got)
	}
	if len(rec.get(other)) != 0 {
		t.Error("unwatched file reported")
	}
}

func TestFSWatcher_Unwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mov")
	os.WriteFile(path, []byte("v1"), 0644)

	w, err := NewFSWatcher(10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFSWatcher() error = %v", err)
	}
	defer w.Stop()

	ctx := context.Background()
	if err := w.Watch(ctx, path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(ctx, path); err != nil {
		t.Fatalf("second Watch() error = %v", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if len(w.dirs) != 0 || len(w.files) != 0 {
		t.Errorf("watch state left behind: %v %v", w.dirs, w.files)
	}
}

func TestEventType_String(t *testing.T) {
	if EventDelete.String() != "delete" || EventCreate.String() != "create" || EventModify.String() != "modify" {
		t.Error("unexpected event names")
	}
}
