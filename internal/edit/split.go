package edit

import (
	"slices"

	"github.com/splicekit/splice/internal/timeline"
)

// splitClip queues the truncation of clip id at frame and returns the
// template of the post clip, or nil when frame is not strictly inside it.
func splitClip(b *Batch, id timeline.ClipID, frame int64) *timeline.Clip {
	c := b.Work().Clip(id)
	if c == nil || frame <= c.In || frame >= c.Out {
		return nil
	}
	posts := reshape(b, id, []timeline.Selection{
		{In: c.In, Out: frame, Track: c.Track},
		{In: frame, Out: c.Out, Track: c.Track},
	})
	if len(posts) == 0 {
		return nil
	}
	return posts[0]
}

// splitClipAndRelink splits id and the clips linked to it at frame, skipping
// clips already in done, and links the posts to each other the way the
// originals are linked. It returns the ids of the added posts.
func splitClipAndRelink(b *Batch, id timeline.ClipID, frame int64, done map[timeline.ClipID]bool) []timeline.ClipID {
	work := b.Work()
	c := work.Clip(id)
	if c == nil {
		return nil
	}
	group := append([]timeline.ClipID{id}, c.Links...)

	plans := make(map[timeline.ClipID][]*timeline.Clip)
	links := make(map[timeline.ClipID][]timeline.ClipID)
	var order []timeline.ClipID
	for _, gid := range group {
		if done[gid] {
			continue
		}
		gc := work.Clip(gid)
		if gc == nil || work.IsTrackLocked(gc.Track) {
			continue
		}
		ls := slices.Clone(gc.Links)
		if post := splitClip(b, gid, frame); post != nil {
			done[gid] = true
			plans[gid] = []*timeline.Clip{post}
			links[gid] = ls
			order = append(order, gid)
		}
	}
	return addPosts(b, plans, links, order)
}

// splitAllClipsAtPoint splits every clip on an unlocked track that spans
// point and returns the ids of the posts.
func splitAllClipsAtPoint(b *Batch, point int64) []timeline.ClipID {
	work := b.Work()
	plans := make(map[timeline.ClipID][]*timeline.Clip)
	links := make(map[timeline.ClipID][]timeline.ClipID)
	var order []timeline.ClipID
	for _, c := range work.Clips() {
		if work.IsTrackLocked(c.Track) || point <= c.In || point >= c.Out {
			continue
		}
		ls := slices.Clone(c.Links)
		if post := splitClip(b, c.ID, point); post != nil {
			plans[c.ID] = []*timeline.Clip{post}
			links[c.ID] = ls
			order = append(order, c.ID)
		}
	}
	return addPosts(b, plans, links, order)
}

// SplitClips splits the given clips, and the clips linked to them, at frame.
func SplitClips(ctx *Context, ids []timeline.ClipID, frame int64) (bool, error) {
	b := ctx.batch("split")
	done := make(map[timeline.ClipID]bool)
	for _, id := range ids {
		splitClipAndRelink(b, id, frame, done)
	}
	return ctx.commit(b), nil
}

// SplitAll splits every clip spanning frame and returns the ids of the posts.
func SplitAll(ctx *Context, frame int64) ([]timeline.ClipID, error) {
	b := ctx.batch("split")
	posts := splitAllClipsAtPoint(b, frame)
	ctx.commit(b)
	return posts, nil
}

// SplitAtPlayhead splits the given clips at the playhead, or every clip under
// the playhead when ids is empty.
func SplitAtPlayhead(ctx *Context, ids []timeline.ClipID) (bool, error) {
	if len(ids) == 0 {
		posts, err := SplitAll(ctx, ctx.Sequence.Playhead)
		return len(posts) > 0, err
	}
	return SplitClips(ctx, ids, ctx.Sequence.Playhead)
}

// SplitAtSelections splits the clips under each selection, and their linked
// clips, at the selection's in and out points.
func SplitAtSelections(ctx *Context, sels []timeline.Selection) (bool, error) {
	b := ctx.batch("split")
	done := make(map[int64]map[timeline.ClipID]bool)
	at := func(frame int64) map[timeline.ClipID]bool {
		if done[frame] == nil {
			done[frame] = make(map[timeline.ClipID]bool)
		}
		return done[frame]
	}
	for _, s := range timeline.CleanUpSelections(slices.Clone(sels)) {
		for _, frame := range []int64{s.In, s.Out} {
			if c := b.Work().ClipAt(s.Track, frame); c != nil && c.In < frame {
				splitClipAndRelink(b, c.ID, frame, at(frame))
			}
		}
	}
	return ctx.commit(b), nil
}
