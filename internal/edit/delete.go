package edit

import (
	"slices"
	"sort"

	"github.com/splicekit/splice/internal/timeline"
)

// fitted returns the transition t adjusted for a clip boundary that moved
// inward by trimmed frames and a clip that is now room frames long. A nil
// result means the transition no longer fits.
func fitted(t *timeline.Transition, trimmed, room int64) *timeline.Transition {
	if t == nil {
		return nil
	}
	cp := t.Copy()
	if trimmed > 0 {
		if cp.Shared() || trimmed >= cp.Length {
			return nil
		}
		cp.Length -= trimmed
	}
	if cp.Length > room {
		cp.Length = room
	}
	if cp.Length <= 0 {
		return nil
	}
	return cp
}

// fitTransition queues the ops that turn t, currently at ref, into its
// fitted form.
func fitTransition(b *Batch, ref timeline.TransitionRef, t *timeline.Transition, trimmed, room int64) {
	if t == nil {
		return
	}
	nt := fitted(t, trimmed, room)
	switch {
	case nt == nil:
		b.Add(&DeleteTransition{Ref: ref})
	case nt.Length != t.Length:
		b.Add(&SetTransitionLength{Ref: ref, Length: nt.Length})
	}
}

// deleteClip queues removal of a clip along with the shared transitions other
// clips own across its boundaries.
func deleteClip(b *Batch, id timeline.ClipID) {
	for _, ref := range b.Work().TransitionsReferencing(id) {
		b.Add(&DeleteTransition{Ref: ref})
	}
	b.Add(&DeleteClip{ID: id})
}

// reshape cuts the clip id down to pieces, which must be ordered, disjoint
// and inside the clip. The clip itself becomes the first piece. Every later
// piece is returned as a detached template with a fresh id for the caller to
// add. The opening transition stays with the first piece and the closing
// transition travels to the last one.
func reshape(b *Batch, id timeline.ClipID, pieces []timeline.Selection) []*timeline.Clip {
	work := b.Work()
	live := work.Clip(id)
	if live == nil {
		return nil
	}
	if len(pieces) == 0 {
		deleteClip(b, id)
		return nil
	}
	orig := live.Copy()
	rate := work.FrameRate
	first, last := pieces[0], pieces[len(pieces)-1]
	if len(pieces) == 1 && first.In == orig.In && first.Out == orig.Out {
		return nil
	}
	refs := work.TransitionsReferencing(id)

	b.Add(&MoveClip{
		ID:     id,
		In:     first.In,
		Out:    first.Out,
		ClipIn: orig.ClipIn + orig.SourceOffset(first.In-orig.In, rate),
		Track:  orig.Track,
	})
	fitTransition(b, timeline.TransitionRef{Clip: id, Side: timeline.Opening}, orig.Opening, first.In-orig.In, first.Length())

	var posts []*timeline.Clip
	for _, p := range pieces[1:] {
		post := orig.Copy()
		post.ID = timeline.NextClipID()
		post.In, post.Out = p.In, p.Out
		post.ClipIn = orig.ClipIn + orig.SourceOffset(p.In-orig.In, rate)
		post.Opening, post.Closing = nil, nil
		post.Links = nil
		posts = append(posts, post)
	}

	tailOwner := id
	if len(posts) > 0 {
		tail := posts[len(posts)-1]
		tailOwner = tail.ID
		if orig.Closing != nil {
			b.Add(&DeleteTransition{Ref: timeline.TransitionRef{Clip: id, Side: timeline.Closing}})
			tail.Closing = fitted(orig.Closing, orig.Out-last.Out, last.Length())
		}
	} else {
		fitTransition(b, timeline.TransitionRef{Clip: id, Side: timeline.Closing}, orig.Closing, orig.Out-last.Out, last.Length())
	}

	for _, ref := range refs {
		t := transitionAt(work, ref)
		if t == nil {
			continue
		}
		// A neighbour's closing transition shares our head; its opening one our tail.
		kept, room := first.In == orig.In, first.Length()
		if ref.Side == timeline.Opening {
			kept, room = last.Out == orig.Out, last.Length()
		}
		if !kept {
			b.Add(&DeleteTransition{Ref: ref})
			continue
		}
		if ref.Side == timeline.Opening && tailOwner != id {
			b.Add(&SetTransitionSecondary{Ref: ref, Secondary: tailOwner})
		}
		if t.Length > room {
			b.Add(&SetTransitionLength{Ref: ref, Length: room})
		}
	}
	return posts
}

// addPosts relinks post templates and queues them. The i-th post of a clip
// is linked to the i-th post of each clip the original was linked to.
func addPosts(b *Batch, plans map[timeline.ClipID][]*timeline.Clip, links map[timeline.ClipID][]timeline.ClipID, order []timeline.ClipID) []timeline.ClipID {
	var all []*timeline.Clip
	var ids []timeline.ClipID
	for _, id := range order {
		for i, post := range plans[id] {
			for _, l := range links[id] {
				if lp := plans[l]; i < len(lp) {
					post.Links = append(post.Links, lp[i].ID)
				}
			}
			all = append(all, post)
			ids = append(ids, post.ID)
		}
	}
	if len(all) > 0 {
		b.Add(&AddClips{Clips: all})
	}
	return ids
}

// subtract returns the parts of c not covered by regions, which must be
// sorted by In and disjoint. hit reports whether any region touched c.
func subtract(c *timeline.Clip, regions []timeline.Selection) (pieces []timeline.Selection, hit bool) {
	cur := c.In
	for _, r := range regions {
		if r.Out <= c.In || r.In >= c.Out {
			continue
		}
		hit = true
		if r.In > cur {
			pieces = append(pieces, timeline.Selection{In: cur, Out: r.In, Track: c.Track})
		}
		if r.Out > cur {
			cur = r.Out
		}
	}
	if cur < c.Out {
		pieces = append(pieces, timeline.Selection{In: cur, Out: c.Out, Track: c.Track})
	}
	return pieces, hit
}

// dropSelectedTransition deletes the transition whose span is exactly a, if
// there is one.
func dropSelectedTransition(b *Batch, a timeline.Selection, skip map[timeline.ClipID]bool) bool {
	work := b.Work()
	if work.IsTrackLocked(a.Track) {
		return false
	}
	for _, c := range work.ClipsOnTrack(a.Track) {
		if skip[c.ID] {
			continue
		}
		for _, side := range []timeline.Side{timeline.Opening, timeline.Closing} {
			if timeline.SelectionContainsTransition(a, c, side) {
				b.Add(&DeleteTransition{Ref: timeline.TransitionRef{Clip: c.ID, Side: side}})
				return true
			}
		}
	}
	return false
}

// deleteAreas queues the ops that carve every area out of the clips under
// it. Clips on locked tracks and clips in skip are left alone. It returns the
// ids of clips created where an area fell strictly inside a clip.
func (ctx *Context) deleteAreas(b *Batch, areas []timeline.Selection, skip map[timeline.ClipID]bool) []timeline.ClipID {
	var rest []timeline.Selection
	for _, a := range areas {
		if a.Valid() {
			rest = append(rest, a)
		}
	}
	rest = timeline.CleanUpSelections(rest)

	byTrack := make(map[int][]timeline.Selection)
	var tracks []int
	for _, a := range rest {
		if _, ok := byTrack[a.Track]; !ok {
			tracks = append(tracks, a.Track)
		}
		byTrack[a.Track] = append(byTrack[a.Track], a)
	}
	sort.Ints(tracks)

	work := b.Work()
	plans := make(map[timeline.ClipID][]*timeline.Clip)
	links := make(map[timeline.ClipID][]timeline.ClipID)
	var order []timeline.ClipID
	for _, track := range tracks {
		if work.IsTrackLocked(track) {
			ctx.logger().Warn("skipping locked track", "track", timeline.TrackName(track))
			continue
		}
		regions := byTrack[track]
		sort.Slice(regions, func(i, j int) bool { return regions[i].In < regions[j].In })
		for _, c := range work.ClipsOnTrack(track) {
			if skip[c.ID] {
				continue
			}
			pieces, hit := subtract(c, regions)
			if !hit {
				continue
			}
			ls := slices.Clone(c.Links)
			if posts := reshape(b, c.ID, pieces); len(posts) > 0 {
				plans[c.ID] = posts
				links[c.ID] = ls
				order = append(order, c.ID)
			}
		}
	}
	return addPosts(b, plans, links, order)
}

// DeleteSelection clears the selected areas. A selection matching a
// transition span exactly removes that transition and leaves the clip body
// alone. With ripple set the gaps left behind are closed, as far as that is
// possible without overlapping clips. Transition-only selections leave no
// gap and do not ripple.
func DeleteSelection(ctx *Context, sels []timeline.Selection, ripple bool) (bool, error) {
	var valid []timeline.Selection
	for _, s := range sels {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return false, nil
	}
	name := "delete"
	if ripple {
		name = "ripple delete"
	}
	b := ctx.batch(name)
	var areas []timeline.Selection
	for _, s := range valid {
		if !dropSelectedTransition(b, s, nil) {
			areas = append(areas, s)
		}
	}
	ctx.deleteAreas(b, areas, nil)
	if ripple && len(areas) > 0 {
		spans := mergeSpans(areas)
		for i := len(spans) - 1; i >= 0; i-- {
			addRipple(b, spans[i].In, -spans[i].Length())
		}
	}
	return ctx.commit(b), nil
}

// DeleteClips removes whole clips.
func DeleteClips(ctx *Context, ids []timeline.ClipID, ripple bool) (bool, error) {
	var sels []timeline.Selection
	for _, id := range ids {
		if c := ctx.Sequence.Clip(id); c != nil {
			sels = append(sels, timeline.SelectionOf(c))
		}
	}
	return DeleteSelection(ctx, sels, ripple)
}

// DeleteRange clears [in,out) on every track.
func DeleteRange(ctx *Context, in, out int64, ripple bool) (bool, error) {
	if in >= out || in < 0 {
		return false, ErrInvalidRange
	}
	v, a := ctx.Sequence.TrackLimits()
	var sels []timeline.Selection
	for t := v; t <= a; t++ {
		sels = append(sels, timeline.Selection{In: in, Out: out, Track: t})
	}
	return DeleteSelection(ctx, sels, ripple)
}

// mergeSpans flattens selections from all tracks into disjoint frame spans
// ordered by In.
func mergeSpans(sels []timeline.Selection) []timeline.Selection {
	spans := make([]timeline.Selection, 0, len(sels))
	for _, s := range sels {
		spans = append(spans, timeline.Selection{In: s.In, Out: s.Out})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].In < spans[j].In })
	var out []timeline.Selection
	for _, s := range spans {
		if n := len(out); n > 0 && s.In <= out[n-1].Out {
			if s.Out > out[n-1].Out {
				out[n-1].Out = s.Out
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
