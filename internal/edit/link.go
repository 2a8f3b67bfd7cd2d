package edit

import (
	"slices"

	"github.com/splicekit/splice/internal/timeline"
)

// Link makes every clip in ids list all the others as linked. Unknown ids are
// ignored; fewer than two clips is a no-op.
func Link(ctx *Context, ids []timeline.ClipID) (bool, error) {
	var members []timeline.ClipID
	for _, id := range ids {
		if ctx.Sequence.Clip(id) != nil && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	if len(members) < 2 {
		return false, nil
	}
	b := ctx.batch("link")
	for _, id := range members {
		others := make([]timeline.ClipID, 0, len(members)-1)
		for _, o := range members {
			if o != id {
				others = append(others, o)
			}
		}
		b.Add(&SetLinks{ID: id, Links: others})
	}
	return ctx.commit(b), nil
}

// Unlink clears the link list of each clip in ids. The lists of the clips
// they were linked to are left as they are.
func Unlink(ctx *Context, ids []timeline.ClipID) (bool, error) {
	b := ctx.batch("unlink")
	for _, id := range ids {
		if c := ctx.Sequence.Clip(id); c != nil && len(c.Links) > 0 {
			b.Add(&SetLinks{ID: id})
		}
	}
	return ctx.commit(b), nil
}

// WithLinked returns ids followed by every live clip linked to them, without
// duplicates.
func WithLinked(seq *timeline.Sequence, ids []timeline.ClipID) []timeline.ClipID {
	out := make([]timeline.ClipID, 0, len(ids))
	add := func(id timeline.ClipID) {
		if seq.Clip(id) != nil && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	for _, id := range ids {
		add(id)
	}
	for _, id := range slices.Clone(out) {
		for _, l := range seq.Clip(id).Links {
			add(l)
		}
	}
	return out
}
