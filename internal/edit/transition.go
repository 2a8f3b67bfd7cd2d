package edit

import (
	"fmt"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/timeline"
)

// neighbour returns the clip abutting c on side, if any.
func neighbour(seq *timeline.Sequence, c *timeline.Clip, side timeline.Side) *timeline.Clip {
	for _, o := range seq.ClipsOnTrack(c.Track) {
		if o.ID == c.ID {
			continue
		}
		if side == timeline.Opening && o.Out == c.In {
			return o
		}
		if side == timeline.Closing && o.In == c.Out {
			return o
		}
	}
	return nil
}

func opposite(side timeline.Side) timeline.Side {
	if side == timeline.Opening {
		return timeline.Closing
	}
	return timeline.Opening
}

// CreateTransition attaches transition effectID to a clip boundary. A length
// of zero uses the configured default. With shared set the transition
// straddles the boundary with the abutting clip, whose own transition on
// that boundary is removed.
func CreateTransition(ctx *Context, id timeline.ClipID, side timeline.Side, effectID string, length int64, shared bool) (bool, error) {
	seq := ctx.Sequence
	c := seq.Clip(id)
	if c == nil {
		return false, fmt.Errorf("add transition: %w: %d", ErrNoClip, id)
	}
	if seq.IsTrackLocked(c.Track) {
		return false, nil
	}
	kind := effects.KindAudio
	if c.IsVideo() {
		kind = effects.KindVideo
	}
	desc, err := ctx.registry().CreateTransition(effectID, kind)
	if err != nil {
		return false, fmt.Errorf("add transition: %w", err)
	}
	if length <= 0 {
		length = int64(ctx.Config.DefaultTransitionFrames)
	}
	length = min(length, c.Length())

	b := ctx.batch("add transition")
	t := &timeline.Transition{EffectID: desc.ID, Length: length}
	n := neighbour(seq, c, side)
	if shared {
		if n == nil {
			ctx.logger().Warn("no abutting clip to share transition with", "clip", id, "side", side.String())
			return false, nil
		}
		t.Secondary = n.ID
		t.Length = min(t.Length, n.Length())
	}
	// The neighbour's transition on this boundary goes if it would overlap.
	if n != nil {
		if nt := n.Transition(opposite(side)); nt != nil && (shared || nt.Secondary == id) {
			b.Add(&DeleteTransition{Ref: timeline.TransitionRef{Clip: n.ID, Side: opposite(side)}})
		}
	}
	if t.Length <= 0 {
		return false, nil
	}
	b.Add(&AddTransition{Ref: timeline.TransitionRef{Clip: id, Side: side}, Transition: t})
	return ctx.commit(b), nil
}

// ResizeTransition changes a transition's length, clamped to the clips it
// covers.
func ResizeTransition(ctx *Context, id timeline.ClipID, side timeline.Side, length int64) (bool, error) {
	seq := ctx.Sequence
	c := seq.Clip(id)
	if c == nil {
		return false, fmt.Errorf("resize transition: %w: %d", ErrNoClip, id)
	}
	t := c.Transition(side)
	if t == nil || length <= 0 {
		return false, nil
	}
	length = min(length, c.Length())
	if t.Shared() {
		if p := seq.Clip(t.Secondary); p != nil {
			length = min(length, p.Length())
		}
	}
	if length == t.Length {
		return false, nil
	}
	b := ctx.batch("resize transition")
	b.Add(&SetTransitionLength{Ref: timeline.TransitionRef{Clip: id, Side: side}, Length: length})
	return ctx.commit(b), nil
}

// RemoveTransition deletes a clip's transition on side.
func RemoveTransition(ctx *Context, id timeline.ClipID, side timeline.Side) (bool, error) {
	c := ctx.Sequence.Clip(id)
	if c == nil {
		return false, fmt.Errorf("delete transition: %w: %d", ErrNoClip, id)
	}
	if c.Transition(side) == nil {
		return false, nil
	}
	b := ctx.batch("delete transition")
	b.Add(&DeleteTransition{Ref: timeline.TransitionRef{Clip: id, Side: side}})
	return ctx.commit(b), nil
}
