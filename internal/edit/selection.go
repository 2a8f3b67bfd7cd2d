package edit

import "github.com/splicekit/splice/internal/timeline"

// SelectClips returns selections covering the given clips, optionally with
// their linked clips.
func SelectClips(seq *timeline.Sequence, ids []timeline.ClipID, withLinked bool) []timeline.Selection {
	if withLinked {
		ids = WithLinked(seq, ids)
	}
	var sels []timeline.Selection
	for _, id := range ids {
		if c := seq.Clip(id); c != nil {
			sels = append(sels, timeline.SelectionOf(c))
		}
	}
	return timeline.CleanUpSelections(sels)
}

// SelectAll selects every clip.
func SelectAll(seq *timeline.Sequence) []timeline.Selection {
	sels := make([]timeline.Selection, 0, seq.Len())
	for _, c := range seq.Clips() {
		sels = append(sels, timeline.SelectionOf(c))
	}
	return timeline.CleanUpSelections(sels)
}

// SelectedClips returns the ids of clips the selections cover, or merely
// touch when partial is set.
func SelectedClips(seq *timeline.Sequence, sels []timeline.Selection, partial bool) []timeline.ClipID {
	var ids []timeline.ClipID
	for _, c := range seq.Clips() {
		if timeline.IsClipSelected(c, sels, partial) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// SetTrack locks or disables a track.
func SetTrack(ctx *Context, track int, locked, enabled bool) (bool, error) {
	seq := ctx.Sequence
	if seq.IsTrackLocked(track) == locked && seq.IsTrackEnabled(track) == enabled {
		return false, nil
	}
	b := ctx.batch("track state")
	b.Add(&SetTrackState{Track: track, Locked: locked, Enabled: enabled})
	return ctx.commit(b), nil
}
