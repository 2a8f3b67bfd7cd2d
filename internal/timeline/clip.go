package timeline

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/media"
)

// ClipID identifies a clip for the lifetime of the process. Zero is never
// assigned.
type ClipID int64

var lastClipID atomic.Int64

func NextClipID() ClipID {
	return ClipID(lastClipID.Add(1))
}

// ReserveClipID makes sure ids handed out later are greater than id. Loaders
// call it for every id read back from storage.
func ReserveClipID(id ClipID) {
	for {
		cur := lastClipID.Load()
		if int64(id) <= cur || lastClipID.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// Clip occupies [In,Out) on Track and plays Media from ClipIn, which is
// counted in the source frame rate.
type Clip struct {
	ID      ClipID
	Name    string
	Enabled bool
	Track   int
	In      int64
	Out     int64
	ClipIn  int64
	Media   media.Item
	Stream  int
	Links   []ClipID
	Opening *Transition
	Closing *Transition
	Effects []effects.Effect

	sequence *Sequence
}

func NewClip(item media.Item, stream, track int, in, out, clipIn int64) *Clip {
	c := &Clip{
		ID:      NextClipID(),
		Enabled: true,
		Track:   track,
		In:      in,
		Out:     out,
		ClipIn:  clipIn,
		Media:   item,
		Stream:  stream,
	}
	if item != nil {
		c.Name = item.Name()
	}
	return c
}

func (c *Clip) Length() int64 { return c.Out - c.In }

func (c *Clip) IsVideo() bool { return IsVideoTrack(c.Track) }

// Sequence returns the sequence holding c, or nil for detached clips such as
// clipboard entries.
func (c *Clip) Sequence() *Sequence { return c.sequence }

func (c *Clip) Transition(side Side) *Transition {
	if side == Opening {
		return c.Opening
	}
	return c.Closing
}

func (c *Clip) SetTransition(side Side, t *Transition) {
	if side == Opening {
		c.Opening = t
	} else {
		c.Closing = t
	}
}

func (c *Clip) IsLinkedTo(id ClipID) bool {
	return slices.Contains(c.Links, id)
}

// MediaFrameRate is the rate ClipIn is counted in. It falls back to
// sequenceRate when the media cannot answer.
func (c *Clip) MediaFrameRate(sequenceRate float64) float64 {
	rate, err := media.FrameRate(c.Media, c.Stream, c.IsVideo(), sequenceRate)
	if err != nil || rate <= 0 {
		return sequenceRate
	}
	return rate
}

// SourceOffset converts a timeline frame delta into source frames.
func (c *Clip) SourceOffset(delta int64, sequenceRate float64) int64 {
	return media.RefactorFrameNumber(delta, sequenceRate, c.MediaFrameRate(sequenceRate))
}

// Copy returns a detached deep copy with the same id.
func (c *Clip) Copy() *Clip {
	cp := *c
	cp.sequence = nil
	cp.Links = slices.Clone(c.Links)
	cp.Opening = c.Opening.Copy()
	cp.Closing = c.Closing.Copy()
	cp.Effects = effects.CopyAll(c.Effects)
	return &cp
}

// Duplicate returns a detached deep copy with a fresh id.
func (c *Clip) Duplicate() *Clip {
	cp := c.Copy()
	cp.ID = NextClipID()
	return cp
}

// Validate checks the placement invariants of a single clip.
func (c *Clip) Validate() error {
	if c.In > c.Out {
		return fmt.Errorf("clip %d: in %d after out %d", c.ID, c.In, c.Out)
	}
	if c.ClipIn < 0 {
		return fmt.Errorf("clip %d: negative clip in %d", c.ID, c.ClipIn)
	}
	if c.Opening != nil && c.Opening.Length > c.Length() {
		return fmt.Errorf("clip %d: opening transition %d longer than clip %d", c.ID, c.Opening.Length, c.Length())
	}
	if c.Closing != nil && c.Closing.Length > c.Length() {
		return fmt.Errorf("clip %d: closing transition %d longer than clip %d", c.ID, c.Closing.Length, c.Length())
	}
	return nil
}
