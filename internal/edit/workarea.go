package edit

import (
	"strings"

	"github.com/splicekit/splice/internal/timeline"
)

// SetWorkareaRange enables the work area over [in,out).
func SetWorkareaRange(ctx *Context, in, out int64) (bool, error) {
	if in < 0 || in >= out {
		return false, ErrInvalidRange
	}
	wa := timeline.Workarea{In: in, Out: out, Using: true, Enabled: true}
	if ctx.Sequence.Workarea == wa {
		return false, nil
	}
	b := ctx.batch("set workarea")
	b.Add(&SetWorkarea{Workarea: wa})
	return ctx.commit(b), nil
}

// ClearWorkarea stops using the work area.
func ClearWorkarea(ctx *Context) (bool, error) {
	if !ctx.Sequence.Workarea.Using {
		return false, nil
	}
	b := ctx.batch("clear workarea")
	b.Add(&SetWorkarea{Workarea: timeline.Workarea{}})
	return ctx.commit(b), nil
}

// PlaceMarker adds a marker at frame.
func PlaceMarker(ctx *Context, frame int64, name string) (bool, error) {
	if frame < 0 {
		return false, ErrInvalidRange
	}
	b := ctx.batch("add marker")
	b.Add(&AddMarker{Marker: timeline.Marker{Frame: frame, Name: strings.TrimSpace(name)}})
	return ctx.commit(b), nil
}

// RemoveMarker deletes the marker at index.
func RemoveMarker(ctx *Context, index int) (bool, error) {
	if index < 0 || index >= len(ctx.Sequence.Markers) {
		return false, nil
	}
	b := ctx.batch("delete marker")
	b.Add(&DeleteMarker{Index: index})
	return ctx.commit(b), nil
}
