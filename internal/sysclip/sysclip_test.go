package sysclip

import (
	"errors"
	"testing"

	"github.com/splicekit/splice/internal/edit"
	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/timeline"
)

type memBackend struct {
	text string
	fail bool
}

func (m *memBackend) ReadAll() (string, error) { return m.text, nil }

func (m *memBackend) WriteAll(text string) error {
	if m.fail {
		return errors.New("no clipboard utility")
	}
	m.text = text
	return nil
}

func TestSummary(t *testing.T) {
	c := timeline.NewClip(nil, 0, -1, 0, 50, 10)
	c.Name = "a.mov"
	cb := &edit.Clipboard{Kind: edit.ClipboardClips, Clips: []*timeline.Clip{c}, FrameRate: 25}

	want := "# splice clips 1 @ 25 fps\nV1\t0\t50\t10\ta.mov\n"
	if got := Summary(cb); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	fx := &edit.Clipboard{Kind: edit.ClipboardEffects, Video: true,
		Effects: []effects.Effect{{ID: "opacity", Name: "Opacity"}}}
	if got := Summary(fx); got != "# splice video effects 1\nopacity\tOpacity\n" {
		t.Errorf("Summary(effects) = %q", got)
	}
	if Summary(&edit.Clipboard{}) != "" || Summary(nil) != "" {
		t.Error("empty clipboard should render nothing")
	}
}

func TestMirror_PublishAndOwned(t *testing.T) {
	backend := &memBackend{}
	m := NewMirror(backend, nil)
	if m.Owned() {
		t.Error("Owned() before publishing")
	}

	cb := &edit.Clipboard{Kind: edit.ClipboardClips, Clips: []*timeline.Clip{timeline.NewClip(nil, 0, 0, 0, 10, 0)}, FrameRate: 30}
	if err := m.Publish(cb); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !m.Owned() {
		t.Error("Owned() = false right after publishing")
	}
	backend.text = "something else"
	if m.Owned() {
		t.Error("Owned() = true after another app copied")
	}

	backend.fail = true
	if err := m.Publish(cb); err == nil {
		t.Error("Publish() should report backend errors")
	}
}
