package timeline

import "github.com/splicekit/splice/internal/media"

// Ghost is an uncommitted placement shown while media is dragged in or
// clips are dragged around. The Old fields hold the placement at the start
// of the drag.
type Ghost struct {
	// Clip is the clip being moved, zero for ghosts built from media.
	Clip ClipID
	// Group ties ghosts built from the same media item; they are linked on commit.
	Group  int
	Media  media.Item
	Stream int

	In     int64
	Out    int64
	ClipIn int64
	Track  int

	OldIn     int64
	OldOut    int64
	OldClipIn int64
	OldTrack  int

	// MediaLength is the source length in sequence frames, -1 when unbounded.
	MediaLength int64
}

func (g *Ghost) Length() int64 { return g.Out - g.In }

// Snapshot records the current placement as the drag origin.
func (g *Ghost) Snapshot() {
	g.OldIn, g.OldOut, g.OldClipIn, g.OldTrack = g.In, g.Out, g.ClipIn, g.Track
}

// Revert restores the placement recorded by Snapshot.
func (g *Ghost) Revert() {
	g.In, g.Out, g.ClipIn, g.Track = g.OldIn, g.OldOut, g.OldClipIn, g.OldTrack
}

func (g *Ghost) Moved() bool {
	return g.In != g.OldIn || g.Out != g.OldOut || g.ClipIn != g.OldClipIn || g.Track != g.OldTrack
}

func (g *Ghost) Selection() Selection {
	return Selection{In: g.In, Out: g.Out, Track: g.Track}
}

// GhostFromClip starts a drag of an existing clip.
func GhostFromClip(c *Clip, mediaLength int64) Ghost {
	g := Ghost{
		Clip:        c.ID,
		Media:       c.Media,
		Stream:      c.Stream,
		In:          c.In,
		Out:         c.Out,
		ClipIn:      c.ClipIn,
		Track:       c.Track,
		MediaLength: mediaLength,
	}
	g.Snapshot()
	return g
}
