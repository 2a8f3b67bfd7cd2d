// Package edit implements the timeline edit engine. Every entry point plans
// its changes as a Batch of reversible ops against the sequence held by a
// Context and hands the batch to the undo sink, which executes it. Empty
// batches are dropped.
package edit

import (
	"errors"
	"log/slog"

	"github.com/splicekit/splice/internal/config"
	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/timeline"
	"github.com/splicekit/splice/internal/undo"
	"github.com/splicekit/splice/internal/viewer"
)

var (
	ErrNothingToPaste = errors.New("clipboard is empty")
	ErrInvalidRange   = errors.New("invalid frame range")
	ErrNoClip         = errors.New("clip not found")
)

// Context carries everything an edit needs. It is not safe for concurrent
// use; callers serialise edits on one sequence.
type Context struct {
	Sequence  *timeline.Sequence
	Undo      undo.Sink
	Viewer    viewer.Sink
	Config    config.Editor
	Effects   *effects.Registry
	Clipboard *Clipboard
	Logger    *slog.Logger
}

// NewContext returns a context with default editor settings, the built-in
// effects and no-op sinks.
func NewContext(seq *timeline.Sequence) *Context {
	return &Context{
		Sequence:  seq,
		Config:    config.DefaultEditor(),
		Effects:   effects.Default(),
		Clipboard: &Clipboard{},
	}
}

func (ctx *Context) logger() *slog.Logger {
	if ctx.Logger == nil {
		return slog.Default()
	}
	return ctx.Logger
}

func (ctx *Context) viewer() viewer.Sink {
	if ctx.Viewer == nil {
		return viewer.Nop{}
	}
	return ctx.Viewer
}

func (ctx *Context) registry() *effects.Registry {
	if ctx.Effects == nil {
		ctx.Effects = effects.Default()
	}
	return ctx.Effects
}

func (ctx *Context) batch(name string) *Batch {
	return NewBatch(ctx.Sequence, name)
}

// commit pushes b and asks the viewer to redraw. It reports whether anything
// was pushed.
func (ctx *Context) commit(b *Batch) bool {
	if b.Empty() {
		ctx.logger().Debug("edit produced no changes", "op", b.Name())
		return false
	}
	if ctx.Undo != nil {
		ctx.Undo.Push(b)
	} else {
		b.Do()
	}
	ctx.logger().Debug("edit committed", "op", b.Name(), "steps", b.Len())
	ctx.viewer().Refresh()
	return true
}

// seek moves the playhead and tells the viewer.
func (ctx *Context) seek(frame int64) {
	if frame < 0 {
		frame = 0
	}
	ctx.Sequence.Playhead = frame
	ctx.viewer().Seek(frame)
}

// Seek moves the playhead. It is not an undoable edit.
func (ctx *Context) Seek(frame int64) {
	ctx.seek(frame)
}
