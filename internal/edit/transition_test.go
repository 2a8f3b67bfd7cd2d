package edit

import (
	"errors"
	"testing"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/timeline"
)

func TestCreateTransition(t *testing.T) {
	f := newFixture(30)
	c := f.add(-1, 0, 100)

	ok, err := CreateTransition(f.ctx, c.ID, timeline.Opening, "cross-dissolve", 0, false)
	if err != nil || !ok {
		t.Fatalf("CreateTransition() = %v, %v", ok, err)
	}
	if got := f.seq.Clip(c.ID).Opening; got == nil || got.Length != 30 || got.EffectID != "cross-dissolve" {
		t.Fatalf("opening = %+v, want default length 30", got)
	}

	if _, err := CreateTransition(f.ctx, c.ID, timeline.Closing, "opacity", 10, false); !errors.Is(err, effects.ErrNotTransition) {
		t.Errorf("non-transition effect error = %v, want ErrNotTransition", err)
	}
	if _, err := CreateTransition(f.ctx, c.ID, timeline.Closing, "linear-fade", 10, false); err == nil {
		t.Error("audio transition on video clip should fail")
	}
	if _, err := CreateTransition(f.ctx, 424242, timeline.Closing, "cross-dissolve", 10, false); !errors.Is(err, ErrNoClip) {
		t.Errorf("missing clip error = %v, want ErrNoClip", err)
	}
}

func TestCreateTransition_Shared(t *testing.T) {
	f := newFixture(30)
	a := f.add(-1, 0, 100)
	b := f.add(-1, 100, 120)
	b.Opening = &timeline.Transition{EffectID: "dip-to-black", Length: 5}

	ok, _ := CreateTransition(f.ctx, a.ID, timeline.Closing, "cross-dissolve", 50, true)
	if !ok {
		t.Fatal("CreateTransition() = false")
	}
	got := f.seq.Clip(a.ID).Closing
	if got == nil || got.Secondary != b.ID || got.Length != 20 {
		t.Fatalf("closing = %+v, want shared with %d clamped to 20", got, b.ID)
	}
	if f.seq.Clip(b.ID).Opening != nil {
		t.Error("neighbour transition on the shared boundary survived")
	}
	f.validate(t)

	span, _ := timeline.TransitionSpan(f.seq.Clip(a.ID), timeline.Closing)
	if span.In != 80 || span.Out != 120 {
		t.Errorf("span = %v, want [80,120)", span)
	}

	if ok, _ := CreateTransition(f.ctx, b.ID, timeline.Closing, "cross-dissolve", 10, true); ok {
		t.Error("shared transition without a neighbour = true")
	}
}

func TestResizeAndRemoveTransition(t *testing.T) {
	f := newFixture(30)
	a := f.add(-1, 0, 100)
	b := f.add(-1, 100, 140)
	a.Closing = &timeline.Transition{EffectID: "cross-dissolve", Length: 10, Secondary: b.ID}

	if ok, _ := ResizeTransition(f.ctx, a.ID, timeline.Closing, 90); !ok {
		t.Fatal("ResizeTransition() = false")
	}
	if got := f.seq.Clip(a.ID).Closing.Length; got != 40 {
		t.Errorf("length = %d, want 40 (partner length)", got)
	}
	f.validate(t)

	if ok, _ := RemoveTransition(f.ctx, a.ID, timeline.Closing); !ok {
		t.Fatal("RemoveTransition() = false")
	}
	if ok, _ := RemoveTransition(f.ctx, a.ID, timeline.Closing); ok {
		t.Error("removing a missing transition = true")
	}
	f.undo.Undo()
	f.undo.Undo()
	if got := f.seq.Clip(a.ID).Closing; got == nil || got.Length != 10 {
		t.Errorf("after undo closing = %+v, want length 10", got)
	}
}

func TestWorkareaAndMarkers(t *testing.T) {
	f := newFixture(30)

	if _, err := SetWorkareaRange(f.ctx, 50, 10); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("SetWorkareaRange(50, 10) error = %v, want ErrInvalidRange", err)
	}
	if ok, _ := SetWorkareaRange(f.ctx, 10, 50); !ok {
		t.Fatal("SetWorkareaRange() = false")
	}
	if wa := f.seq.Workarea; !wa.Using || wa.In != 10 || wa.Out != 50 {
		t.Errorf("workarea = %+v", wa)
	}
	if ok, _ := SetWorkareaRange(f.ctx, 10, 50); ok {
		t.Error("unchanged workarea pushed")
	}
	ClearWorkarea(f.ctx)
	if f.seq.Workarea.Using {
		t.Error("ClearWorkarea() left workarea in use")
	}

	PlaceMarker(f.ctx, 10, " a ")
	PlaceMarker(f.ctx, 20, "b")
	RemoveMarker(f.ctx, 0)
	if len(f.seq.Markers) != 1 || f.seq.Markers[0].Name != "b" {
		t.Fatalf("markers = %+v", f.seq.Markers)
	}
	f.undo.Undo()
	if len(f.seq.Markers) != 2 || f.seq.Markers[0].Name != "a" {
		t.Fatalf("undo markers = %+v", f.seq.Markers)
	}
	if ok, _ := RemoveMarker(f.ctx, 7); ok {
		t.Error("RemoveMarker() out of range = true")
	}
}
