package edit

import (
	"fmt"

	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

// GhostsFromMedia lays items out one after another starting at frame, one
// ghost per stream. The n-th video stream goes on video track n and the n-th
// audio stream on audio track n. Ghosts of the same item share a group and
// are linked when committed.
func GhostsFromMedia(ctx *Context, items []media.Item, frame int64) ([]timeline.Ghost, error) {
	seq := ctx.Sequence
	var ghosts []timeline.Ghost
	for group, item := range items {
		if item == nil {
			return nil, fmt.Errorf("place media: %w", media.ErrUnknownKind)
		}
		var length, mediaLength int64
		var video, audio []int
		switch m := item.(type) {
		case *media.Footage:
			if m.IsImage() {
				length, mediaLength = ctx.Config.StillFrames(seq.FrameRate), -1
			} else {
				l, err := media.LengthInFrames(m, seq.FrameRate)
				if err != nil {
					return nil, fmt.Errorf("place %s: %w", m.Label, err)
				}
				length, mediaLength = l, l
			}
			for _, vs := range m.Video {
				video = append(video, vs.Index)
			}
			for _, as := range m.Audio {
				audio = append(audio, as.Index)
			}
		case *media.NestedSequence:
			if m.SequenceID == seq.ID {
				ctx.logger().Warn("cannot nest a sequence in itself", "sequence", seq.ID)
				continue
			}
			l, err := media.LengthInFrames(m, seq.FrameRate)
			if err != nil {
				return nil, fmt.Errorf("place %s: %w", m.Label, err)
			}
			length, mediaLength = l, l
			video, audio = []int{0}, []int{0}
		case *media.Folder:
			ctx.logger().Warn("folders cannot be placed on a timeline", "folder", m.Label)
			continue
		default:
			return nil, fmt.Errorf("place media: %w", media.ErrUnknownKind)
		}
		if length <= 0 {
			ctx.logger().Warn("skipping media without length", "media", item.Name())
			continue
		}
		add := func(track, stream int) {
			g := timeline.Ghost{
				Group:       group,
				Media:       item,
				Stream:      stream,
				In:          frame,
				Out:         frame + length,
				Track:       track,
				MediaLength: mediaLength,
			}
			g.Snapshot()
			ghosts = append(ghosts, g)
		}
		for n, stream := range video {
			add(timeline.VideoTrack(n), stream)
		}
		for n, stream := range audio {
			add(timeline.AudioTrack(n), stream)
		}
		frame += length
	}
	return ghosts, nil
}

// GhostsFromClips starts a drag of existing clips.
func GhostsFromClips(seq *timeline.Sequence, ids []timeline.ClipID) []timeline.Ghost {
	var ghosts []timeline.Ghost
	for _, id := range ids {
		c := seq.Clip(id)
		if c == nil {
			continue
		}
		mediaLength := int64(-1)
		if l, err := media.LengthInFrames(c.Media, seq.FrameRate); err == nil {
			mediaLength = l
		}
		ghosts = append(ghosts, timeline.GhostFromClip(c, mediaLength))
	}
	return ghosts
}

// MoveGhosts shifts every ghost by frames and by tracks display rows. Video
// ghosts stay on video tracks and audio ghosts on audio tracks. Both deltas
// are clamped so that nothing moves before frame 0 or past the first track.
func MoveGhosts(ghosts []timeline.Ghost, frames int64, tracks int) {
	if len(ghosts) == 0 {
		return
	}
	minIn, minRow := ghosts[0].In, timeline.TrackNumber(ghosts[0].Track)
	for _, g := range ghosts {
		minIn = min(minIn, g.In)
		minRow = min(minRow, timeline.TrackNumber(g.Track))
	}
	frames = max(frames, -minIn)
	tracks = max(tracks, -minRow)
	for i := range ghosts {
		g := &ghosts[i]
		g.In += frames
		g.Out += frames
		g.Track = timeline.TrackAtOffset(timeline.IsVideoTrack(g.Track), timeline.TrackNumber(g.Track)+tracks)
	}
}

// TrimGhosts moves the in point (trimIn) or the out point of every ghost by
// delta frames. The delta is clamped so that each ghost keeps at least one
// frame and stays inside its source media.
func TrimGhosts(ghosts []timeline.Ghost, trimIn bool, delta int64, seqRate float64) int64 {
	for _, g := range ghosts {
		rate := ghostRate(g, seqRate)
		headroom := media.RefactorFrameNumber(g.ClipIn, rate, seqRate)
		if trimIn {
			delta = max(delta, -headroom, -g.In)
			delta = min(delta, g.Length()-1)
			continue
		}
		delta = max(delta, 1-g.Length())
		if g.MediaLength >= 0 {
			delta = min(delta, g.MediaLength-headroom-g.Length())
		}
	}
	for i := range ghosts {
		g := &ghosts[i]
		if trimIn {
			g.In += delta
			g.ClipIn += media.RefactorFrameNumber(delta, seqRate, ghostRate(*g, seqRate))
			g.ClipIn = max(g.ClipIn, 0)
		} else {
			g.Out += delta
		}
	}
	return delta
}

func ghostRate(g timeline.Ghost, seqRate float64) float64 {
	rate, err := media.FrameRate(g.Media, g.Stream, timeline.IsVideoTrack(g.Track), seqRate)
	if err != nil || rate <= 0 {
		return seqRate
	}
	return rate
}

// CommitImport turns media ghosts into clips. In insert mode clips under the
// first ghost are split and later clips move right to make room; otherwise
// the new clips overwrite what they land on.
func CommitImport(ctx *Context, ghosts []timeline.Ghost, insert bool) ([]timeline.ClipID, error) {
	seq := ctx.Sequence
	var clips []*timeline.Clip
	groups := make(map[int][]*timeline.Clip)
	var start, end int64 = -1, 0
	for _, g := range ghosts {
		if g.Clip != 0 || g.Length() <= 0 {
			continue
		}
		if seq.IsTrackLocked(g.Track) {
			ctx.logger().Warn("not placing media on locked track", "track", timeline.TrackName(g.Track))
			continue
		}
		c := timeline.NewClip(g.Media, g.Stream, g.Track, g.In, g.Out, g.ClipIn)
		clips = append(clips, c)
		groups[g.Group] = append(groups[g.Group], c)
		if start < 0 || g.In < start {
			start = g.In
		}
		end = max(end, g.Out)
	}
	if len(clips) == 0 {
		return nil, nil
	}
	for _, members := range groups {
		for _, c := range members {
			for _, o := range members {
				if o != c {
					c.Links = append(c.Links, o.ID)
				}
			}
		}
	}

	b := ctx.batch("import")
	if insert {
		splitAllClipsAtPoint(b, start)
		addRipple(b, start, end-start)
	} else {
		areas := make([]timeline.Selection, 0, len(clips))
		for _, c := range clips {
			areas = append(areas, timeline.SelectionOf(c))
		}
		ctx.deleteAreas(b, areas, nil)
	}
	b.Add(&AddClips{Clips: clips})
	ctx.commit(b)

	ids := make([]timeline.ClipID, len(clips))
	for i, c := range clips {
		ids[i] = c.ID
	}
	return ids, nil
}

// CommitMove applies dragged clip ghosts. The destination is cleared first,
// ignoring the clips being moved.
func CommitMove(ctx *Context, ghosts []timeline.Ghost) (bool, error) {
	seq := ctx.Sequence
	moving := make(map[timeline.ClipID]timeline.Ghost)
	for _, g := range ghosts {
		if g.Clip == 0 || !g.Moved() || g.Length() <= 0 {
			continue
		}
		c := seq.Clip(g.Clip)
		if c == nil {
			continue
		}
		if seq.IsTrackLocked(c.Track) || seq.IsTrackLocked(g.Track) {
			ctx.logger().Warn("not moving clip on locked track", "clip", c.ID)
			continue
		}
		moving[g.Clip] = g
	}
	if len(moving) == 0 {
		return false, nil
	}
	skip := make(map[timeline.ClipID]bool, len(moving))
	areas := make([]timeline.Selection, 0, len(moving))
	for id, g := range moving {
		skip[id] = true
		areas = append(areas, g.Selection())
	}

	b := ctx.batch("move")
	ctx.deleteAreas(b, areas, skip)
	work := b.Work()
	for _, g := range ghosts {
		if _, ok := moving[g.Clip]; !ok {
			continue
		}
		c := work.Clip(g.Clip)
		if c == nil {
			continue
		}
		for _, side := range []timeline.Side{timeline.Opening, timeline.Closing} {
			ref := timeline.TransitionRef{Clip: c.ID, Side: side}
			t := c.Transition(side)
			if t.Shared() && !movesTogether(moving, g, t.Secondary) {
				b.Add(&DeleteTransition{Ref: ref})
				continue
			}
			if t != nil && t.Length > g.Length() {
				b.Add(&SetTransitionLength{Ref: ref, Length: g.Length()})
			}
		}
		for _, ref := range work.TransitionsReferencing(c.ID) {
			if !movesTogether(moving, g, ref.Clip) {
				b.Add(&DeleteTransition{Ref: ref})
			}
		}
		b.Add(&MoveClip{ID: c.ID, In: g.In, Out: g.Out, ClipIn: g.ClipIn, Track: g.Track})
	}
	return ctx.commit(b), nil
}

// movesTogether reports whether partner is dragged by the same offset as g.
func movesTogether(moving map[timeline.ClipID]timeline.Ghost, g timeline.Ghost, partner timeline.ClipID) bool {
	p, ok := moving[partner]
	if !ok {
		return false
	}
	return p.In-p.OldIn == g.In-g.OldIn && p.Track == g.Track && p.Out-p.OldOut == g.Out-g.OldOut &&
		g.Out-g.OldOut == g.In-g.OldIn
}
