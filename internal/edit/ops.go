package edit

import (
	"slices"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/timeline"
)

// Op is one reversible change to a sequence. Ops address clips by id so the
// same op can be replayed against a clone while a batch is being planned and
// against the live sequence when the batch is executed. Apply records
// whatever Revert needs.
type Op interface {
	Name() string
	Apply(seq *timeline.Sequence)
	Revert(seq *timeline.Sequence)
}

// AddClips inserts copies of Clips, keeping their ids.
type AddClips struct {
	Clips []*timeline.Clip
}

func (o *AddClips) Name() string { return "add clips" }

func (o *AddClips) Apply(seq *timeline.Sequence) {
	for _, c := range o.Clips {
		seq.AddClip(c.Copy())
	}
}

func (o *AddClips) Revert(seq *timeline.Sequence) {
	for i := len(o.Clips) - 1; i >= 0; i-- {
		seq.RemoveClip(o.Clips[i].ID)
	}
}

// DeleteClip removes a clip.
type DeleteClip struct {
	ID    timeline.ClipID
	saved *timeline.Clip
}

func (o *DeleteClip) Name() string { return "delete clip" }

func (o *DeleteClip) Apply(seq *timeline.Sequence) {
	o.saved = nil
	if c := seq.RemoveClip(o.ID); c != nil {
		o.saved = c
	}
}

func (o *DeleteClip) Revert(seq *timeline.Sequence) {
	if o.saved != nil {
		seq.AddClip(o.saved.Copy())
	}
}

// MoveClip sets the placement of a clip. It covers moves, trims and the
// truncation half of a split.
type MoveClip struct {
	ID     timeline.ClipID
	In     int64
	Out    int64
	ClipIn int64
	Track  int

	old   [3]int64
	track int
	found bool
}

func (o *MoveClip) Name() string { return "move clip" }

func (o *MoveClip) Apply(seq *timeline.Sequence) {
	c := seq.Clip(o.ID)
	o.found = c != nil
	if c == nil {
		return
	}
	o.old = [3]int64{c.In, c.Out, c.ClipIn}
	o.track = c.Track
	c.In, c.Out, c.ClipIn, c.Track = o.In, o.Out, o.ClipIn, o.Track
}

func (o *MoveClip) Revert(seq *timeline.Sequence) {
	c := seq.Clip(o.ID)
	if c == nil || !o.found {
		return
	}
	c.In, c.Out, c.ClipIn, c.Track = o.old[0], o.old[1], o.old[2], o.track
}

// SetTransitionLength resizes an existing transition.
type SetTransitionLength struct {
	Ref    timeline.TransitionRef
	Length int64
	old    int64
	found  bool
}

func (o *SetTransitionLength) Name() string { return "set transition length" }

func (o *SetTransitionLength) Apply(seq *timeline.Sequence) {
	t := transitionAt(seq, o.Ref)
	o.found = t != nil
	if t == nil {
		return
	}
	o.old = t.Length
	t.Length = o.Length
}

func (o *SetTransitionLength) Revert(seq *timeline.Sequence) {
	if t := transitionAt(seq, o.Ref); t != nil && o.found {
		t.Length = o.old
	}
}

// DeleteTransition detaches a transition from its owning clip.
type DeleteTransition struct {
	Ref   timeline.TransitionRef
	saved *timeline.Transition
}

func (o *DeleteTransition) Name() string { return "delete transition" }

func (o *DeleteTransition) Apply(seq *timeline.Sequence) {
	o.saved = nil
	c := seq.Clip(o.Ref.Clip)
	if c == nil {
		return
	}
	o.saved = c.Transition(o.Ref.Side)
	c.SetTransition(o.Ref.Side, nil)
}

func (o *DeleteTransition) Revert(seq *timeline.Sequence) {
	if c := seq.Clip(o.Ref.Clip); c != nil && o.saved != nil {
		c.SetTransition(o.Ref.Side, o.saved)
	}
}

// AddTransition attaches a copy of Transition, replacing whatever was there.
type AddTransition struct {
	Ref        timeline.TransitionRef
	Transition *timeline.Transition
	old        *timeline.Transition
}

func (o *AddTransition) Name() string { return "add transition" }

func (o *AddTransition) Apply(seq *timeline.Sequence) {
	c := seq.Clip(o.Ref.Clip)
	if c == nil {
		return
	}
	o.old = c.Transition(o.Ref.Side)
	c.SetTransition(o.Ref.Side, o.Transition.Copy())
}

func (o *AddTransition) Revert(seq *timeline.Sequence) {
	if c := seq.Clip(o.Ref.Clip); c != nil {
		c.SetTransition(o.Ref.Side, o.old)
	}
}

// SetTransitionSecondary points a shared transition at a different partner
// clip. Zero makes it unshared.
type SetTransitionSecondary struct {
	Ref       timeline.TransitionRef
	Secondary timeline.ClipID
	old       timeline.ClipID
	found     bool
}

func (o *SetTransitionSecondary) Name() string { return "set transition partner" }

func (o *SetTransitionSecondary) Apply(seq *timeline.Sequence) {
	t := transitionAt(seq, o.Ref)
	o.found = t != nil
	if t == nil {
		return
	}
	o.old = t.Secondary
	t.Secondary = o.Secondary
}

func (o *SetTransitionSecondary) Revert(seq *timeline.Sequence) {
	if t := transitionAt(seq, o.Ref); t != nil && o.found {
		t.Secondary = o.old
	}
}

// SetLinks replaces the link list of a clip.
type SetLinks struct {
	ID    timeline.ClipID
	Links []timeline.ClipID
	old   []timeline.ClipID
	found bool
}

func (o *SetLinks) Name() string { return "set links" }

func (o *SetLinks) Apply(seq *timeline.Sequence) {
	c := seq.Clip(o.ID)
	o.found = c != nil
	if c == nil {
		return
	}
	o.old = c.Links
	c.Links = slices.Clone(o.Links)
}

func (o *SetLinks) Revert(seq *timeline.Sequence) {
	if c := seq.Clip(o.ID); c != nil && o.found {
		c.Links = o.old
	}
}

// Ripple shifts every clip starting at or after Point by Length frames on
// unlocked tracks.
type Ripple struct {
	Point  int64
	Length int64
	moved  []timeline.ClipID
}

func (o *Ripple) Name() string { return "ripple" }

func (o *Ripple) Apply(seq *timeline.Sequence) {
	o.moved = o.moved[:0]
	for _, c := range seq.Clips() {
		if c.In >= o.Point && !seq.IsTrackLocked(c.Track) {
			c.In += o.Length
			c.Out += o.Length
			o.moved = append(o.moved, c.ID)
		}
	}
}

func (o *Ripple) Revert(seq *timeline.Sequence) {
	for _, id := range o.moved {
		if c := seq.Clip(id); c != nil {
			c.In -= o.Length
			c.Out -= o.Length
		}
	}
}

// SetWorkarea replaces the work area.
type SetWorkarea struct {
	Workarea timeline.Workarea
	old      timeline.Workarea
}

func (o *SetWorkarea) Name() string { return "set workarea" }

func (o *SetWorkarea) Apply(seq *timeline.Sequence) {
	o.old = seq.Workarea
	seq.Workarea = o.Workarea
}

func (o *SetWorkarea) Revert(seq *timeline.Sequence) {
	seq.Workarea = o.old
}

type AddMarker struct {
	Marker timeline.Marker
}

func (o *AddMarker) Name() string { return "add marker" }

func (o *AddMarker) Apply(seq *timeline.Sequence) {
	seq.Markers = append(seq.Markers, o.Marker)
}

func (o *AddMarker) Revert(seq *timeline.Sequence) {
	if n := len(seq.Markers); n > 0 {
		seq.Markers = seq.Markers[:n-1]
	}
}

type DeleteMarker struct {
	Index int
	saved *timeline.Marker
}

func (o *DeleteMarker) Name() string { return "delete marker" }

func (o *DeleteMarker) Apply(seq *timeline.Sequence) {
	o.saved = nil
	if o.Index < 0 || o.Index >= len(seq.Markers) {
		return
	}
	m := seq.Markers[o.Index]
	o.saved = &m
	seq.Markers = slices.Delete(seq.Markers, o.Index, o.Index+1)
}

func (o *DeleteMarker) Revert(seq *timeline.Sequence) {
	if o.saved != nil {
		seq.Markers = slices.Insert(seq.Markers, o.Index, *o.saved)
	}
}

// SetEffects replaces the effect stack of a clip.
type SetEffects struct {
	ID      timeline.ClipID
	Effects []effects.Effect
	old     []effects.Effect
	found   bool
}

func (o *SetEffects) Name() string { return "set effects" }

func (o *SetEffects) Apply(seq *timeline.Sequence) {
	c := seq.Clip(o.ID)
	o.found = c != nil
	if c == nil {
		return
	}
	o.old = c.Effects
	c.Effects = effects.CopyAll(o.Effects)
}

func (o *SetEffects) Revert(seq *timeline.Sequence) {
	if c := seq.Clip(o.ID); c != nil && o.found {
		c.Effects = o.old
	}
}

// SetTrackState locks or disables a track.
type SetTrackState struct {
	Track   int
	Locked  bool
	Enabled bool

	oldLocked  bool
	oldEnabled bool
}

func (o *SetTrackState) Name() string { return "set track state" }

func (o *SetTrackState) Apply(seq *timeline.Sequence) {
	o.oldLocked, o.oldEnabled = seq.IsTrackLocked(o.Track), seq.IsTrackEnabled(o.Track)
	seq.SetTrackLocked(o.Track, o.Locked)
	seq.SetTrackEnabled(o.Track, o.Enabled)
}

func (o *SetTrackState) Revert(seq *timeline.Sequence) {
	seq.SetTrackLocked(o.Track, o.oldLocked)
	seq.SetTrackEnabled(o.Track, o.oldEnabled)
}

func transitionAt(seq *timeline.Sequence, ref timeline.TransitionRef) *timeline.Transition {
	c := seq.Clip(ref.Clip)
	if c == nil {
		return nil
	}
	return c.Transition(ref.Side)
}
