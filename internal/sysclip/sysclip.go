// Package sysclip mirrors the edit clipboard into the operating system
// clipboard as plain text, so copied clips can be pasted into notes or
// chat as a cut list.
package sysclip

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/splicekit/splice/internal/edit"
	"github.com/splicekit/splice/internal/timeline"
)

const header = "# splice"

// Backend reads and writes clipboard text.
type Backend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System is the OS clipboard.
type System struct{}

func (System) ReadAll() (string, error) { return clipboard.ReadAll() }

func (System) WriteAll(text string) error {
	if text == "" {
		return errors.New("refusing to write empty clipboard text")
	}
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility exists on this system.
func Available() bool { return !clipboard.Unsupported }

type Mirror struct {
	backend Backend
	logger  *slog.Logger

	mu   sync.Mutex
	last string
}

func NewMirror(backend Backend, logger *slog.Logger) *Mirror {
	return &Mirror{backend: backend, logger: logger}
}

// Publish writes a text rendering of cb. An empty clipboard is not written.
func (m *Mirror) Publish(cb *edit.Clipboard) error {
	text := Summary(cb)
	if text == "" {
		return nil
	}
	if err := m.backend.WriteAll(text); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}
	m.mu.Lock()
	m.last = text
	m.mu.Unlock()
	if m.logger != nil {
		m.logger.Debug("mirrored clipboard", "bytes", len(text))
	}
	return nil
}

// Owned reports whether the system clipboard still holds the last text
// published, i.e. nothing was copied elsewhere since.
func (m *Mirror) Owned() bool {
	m.mu.Lock()
	last := m.last
	m.mu.Unlock()
	if last == "" {
		return false
	}
	current, err := m.backend.ReadAll()
	return err == nil && current == last
}

// Summary renders cb as tab separated lines: track, in, out, source in, name.
func Summary(cb *edit.Clipboard) string {
	if cb == nil {
		return ""
	}
	var b strings.Builder
	switch cb.Kind {
	case edit.ClipboardClips:
		fmt.Fprintf(&b, "%s clips %d @ %g fps\n", header, len(cb.Clips), cb.FrameRate)
		for _, c := range cb.Clips {
			fmt.Fprintf(&b, "%s\t%d\t%d\t%d\t%s\n", timeline.TrackName(c.Track), c.In, c.Out, c.ClipIn, c.Name)
		}
	case edit.ClipboardEffects:
		kind := "audio"
		if cb.Video {
			kind = "video"
		}
		fmt.Fprintf(&b, "%s %s effects %d\n", header, kind, len(cb.Effects))
		for _, e := range cb.Effects {
			fmt.Fprintf(&b, "%s\t%s\n", e.ID, e.Name)
		}
	default:
		return ""
	}
	return b.String()
}
