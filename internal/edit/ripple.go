package edit

import "github.com/splicekit/splice/internal/timeline"

// safeRipple shrinks a negative ripple length so that no moved clip overlaps
// a clip that stays put on its track and nothing moves before frame 0.
// Positive lengths never cause overlaps and are returned unchanged.
func safeRipple(seq *timeline.Sequence, point, length int64) int64 {
	if length >= 0 {
		return length
	}
	type bounds struct {
		maxOut int64
		minIn  int64
		moving bool
	}
	tracks := make(map[int]*bounds)
	for _, c := range seq.Clips() {
		if seq.IsTrackLocked(c.Track) {
			continue
		}
		tb := tracks[c.Track]
		if tb == nil {
			tb = &bounds{}
			tracks[c.Track] = tb
		}
		if c.In >= point {
			if !tb.moving || c.In < tb.minIn {
				tb.minIn = c.In
			}
			tb.moving = true
		} else if c.Out > tb.maxOut {
			tb.maxOut = c.Out
		}
	}
	for _, tb := range tracks {
		if !tb.moving {
			continue
		}
		if limit := tb.maxOut - tb.minIn; length < limit {
			length = limit
		}
	}
	if length > 0 {
		return 0
	}
	return length
}

// addRipple queues a ripple at point, shrunk to a safe length. It reports
// whether anything will move.
func addRipple(b *Batch, point, length int64) bool {
	work := b.Work()
	length = safeRipple(work, point, length)
	if length == 0 {
		return false
	}
	moves := false
	for _, c := range work.Clips() {
		if c.In >= point && !work.IsTrackLocked(c.Track) {
			moves = true
			break
		}
	}
	if !moves {
		return false
	}
	for _, ref := range splitSharedTransitions(work, point) {
		b.Add(&DeleteTransition{Ref: ref})
	}
	b.Add(&Ripple{Point: point, Length: length})
	return true
}

// splitSharedTransitions returns the shared transitions whose two clips end
// up on different sides of a ripple at point.
func splitSharedTransitions(seq *timeline.Sequence, point int64) []timeline.TransitionRef {
	var refs []timeline.TransitionRef
	for _, c := range seq.Clips() {
		if seq.IsTrackLocked(c.Track) {
			continue
		}
		for _, side := range []timeline.Side{timeline.Opening, timeline.Closing} {
			t := c.Transition(side)
			if !t.Shared() {
				continue
			}
			p := seq.Clip(t.Secondary)
			if p != nil && (p.In >= point) != (c.In >= point) {
				refs = append(refs, timeline.TransitionRef{Clip: c.ID, Side: side})
			}
		}
	}
	return refs
}

// RippleEdit shifts every clip starting at or after point by length frames.
// A negative length that would overlap clips is shrunk to the largest shift
// that does not.
func RippleEdit(ctx *Context, point, length int64) (bool, error) {
	if point < 0 {
		return false, ErrInvalidRange
	}
	b := ctx.batch("ripple")
	addRipple(b, point, length)
	return ctx.commit(b), nil
}
