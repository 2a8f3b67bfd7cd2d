package timeline

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/google/uuid"
)

type Marker struct {
	Frame int64  `json:"frame"`
	Name  string `json:"name"`
}

type Workarea struct {
	In      int64 `json:"in"`
	Out     int64 `json:"out"`
	Using   bool  `json:"using"`
	Enabled bool  `json:"enabled"`
}

// Sequence owns its clips. Clips are stored in an arena keyed by id so that
// ids held by links, transitions and undo entries can be checked for
// staleness instead of dangling.
type Sequence struct {
	ID             string
	Name           string
	Width          int
	Height         int
	FrameRate      float64
	AudioFrequency int
	AudioLayout    string
	Playhead       int64
	Workarea       Workarea
	Markers        []Marker

	clips         map[ClipID]*Clip
	order         []ClipID
	lockedTracks  map[int]bool
	disabledTrack map[int]bool
}

func NewSequence(name string, width, height int, frameRate float64, audioFrequency int) *Sequence {
	return &Sequence{
		ID:             uuid.NewString(),
		Name:           name,
		Width:          width,
		Height:         height,
		FrameRate:      frameRate,
		AudioFrequency: audioFrequency,
		AudioLayout:    "stereo",
		clips:          make(map[ClipID]*Clip),
		lockedTracks:   make(map[int]bool),
		disabledTrack:  make(map[int]bool),
	}
}

// AddClip inserts c. It returns false if a clip with the same id exists.
func (s *Sequence) AddClip(c *Clip) bool {
	if c == nil {
		return false
	}
	if _, ok := s.clips[c.ID]; ok {
		return false
	}
	c.sequence = s
	s.clips[c.ID] = c
	s.order = append(s.order, c.ID)
	return true
}

// RemoveClip detaches and returns the clip with id, or nil if it is not present.
func (s *Sequence) RemoveClip(id ClipID) *Clip {
	c, ok := s.clips[id]
	if !ok {
		return nil
	}
	delete(s.clips, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	c.sequence = nil
	return c
}

// Clip returns the live clip with id, or nil for unknown or deleted ids.
func (s *Sequence) Clip(id ClipID) *Clip {
	return s.clips[id]
}

func (s *Sequence) Len() int { return len(s.order) }

// Clips returns clips in insertion order.
func (s *Sequence) Clips() []*Clip {
	out := make([]*Clip, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.clips[id])
	}
	return out
}

// ClipsOnTrack returns the clips of track ordered by In.
func (s *Sequence) ClipsOnTrack(track int) []*Clip {
	var out []*Clip
	for _, id := range s.order {
		if c := s.clips[id]; c.Track == track {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].In < out[j].In })
	return out
}

// ClipAt returns the clip on track playing frame.
func (s *Sequence) ClipAt(track int, frame int64) *Clip {
	for _, id := range s.order {
		c := s.clips[id]
		if c.Track == track && c.In <= frame && frame < c.Out {
			return c
		}
	}
	return nil
}

// ClipsAt returns every clip playing frame, video tracks first.
func (s *Sequence) ClipsAt(frame int64) []*Clip {
	var out []*Clip
	for _, id := range s.order {
		c := s.clips[id]
		if c.In <= frame && frame < c.Out {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Track < out[j].Track })
	return out
}

// EndFrame is the largest Out of any clip.
func (s *Sequence) EndFrame() int64 {
	var end int64
	for _, c := range s.clips {
		if c.Out > end {
			end = c.Out
		}
	}
	return end
}

// TrackLimits returns the lowest video track and the highest audio track in
// use. With no clips of a kind the limit is 0.
func (s *Sequence) TrackLimits() (video, audio int) {
	for _, c := range s.clips {
		if c.Track < video {
			video = c.Track
		}
		if c.Track > audio {
			audio = c.Track
		}
	}
	return video, audio
}

func (s *Sequence) VideoTrackCount() int {
	count := 0
	for _, c := range s.clips {
		if c.Track < 0 && TrackNumber(c.Track)+1 > count {
			count = TrackNumber(c.Track) + 1
		}
	}
	return count
}

func (s *Sequence) AudioTrackCount() int {
	count := 0
	for _, c := range s.clips {
		if c.Track >= 0 && c.Track+1 > count {
			count = c.Track + 1
		}
	}
	return count
}

func (s *Sequence) IsTrackLocked(track int) bool { return s.lockedTracks[track] }

func (s *Sequence) SetTrackLocked(track int, locked bool) {
	if locked {
		s.lockedTracks[track] = true
	} else {
		delete(s.lockedTracks, track)
	}
}

func (s *Sequence) IsTrackEnabled(track int) bool { return !s.disabledTrack[track] }

func (s *Sequence) SetTrackEnabled(track int, enabled bool) {
	if enabled {
		delete(s.disabledTrack, track)
	} else {
		s.disabledTrack[track] = true
	}
}

// LockedTracks returns locked tracks in ascending order.
func (s *Sequence) LockedTracks() []int {
	return slices.Sorted(maps.Keys(s.lockedTracks))
}

// DisabledTracks returns disabled tracks in ascending order.
func (s *Sequence) DisabledTracks() []int {
	return slices.Sorted(maps.Keys(s.disabledTrack))
}

// TransitionsReferencing returns the shared transitions whose secondary clip is id.
func (s *Sequence) TransitionsReferencing(id ClipID) []TransitionRef {
	var refs []TransitionRef
	for _, oid := range s.order {
		c := s.clips[oid]
		if c.Opening != nil && c.Opening.Secondary == id {
			refs = append(refs, TransitionRef{Clip: c.ID, Side: Opening})
		}
		if c.Closing != nil && c.Closing.Secondary == id {
			refs = append(refs, TransitionRef{Clip: c.ID, Side: Closing})
		}
	}
	return refs
}

// Clone returns a deep copy with the same clip ids.
func (s *Sequence) Clone() *Sequence {
	cp := *s
	cp.Markers = slices.Clone(s.Markers)
	cp.clips = make(map[ClipID]*Clip, len(s.clips))
	cp.order = slices.Clone(s.order)
	cp.lockedTracks = maps.Clone(s.lockedTracks)
	cp.disabledTrack = maps.Clone(s.disabledTrack)
	for id, c := range s.clips {
		cc := c.Copy()
		cc.sequence = &cp
		cp.clips[id] = cc
	}
	return &cp
}

// Validate checks every clip invariant, the no-overlap rule and that shared
// transitions point at an abutting clip on the same track.
func (s *Sequence) Validate() error {
	tracks := make(map[int][]*Clip)
	for _, id := range s.order {
		c := s.clips[id]
		if err := c.Validate(); err != nil {
			return err
		}
		tracks[c.Track] = append(tracks[c.Track], c)
	}
	for track, clips := range tracks {
		sort.Slice(clips, func(i, j int) bool { return clips[i].In < clips[j].In })
		for i := 1; i < len(clips); i++ {
			if clips[i].In < clips[i-1].Out {
				return fmt.Errorf("track %s: clip %d [%d,%d) overlaps clip %d [%d,%d)",
					TrackName(track), clips[i].ID, clips[i].In, clips[i].Out,
					clips[i-1].ID, clips[i-1].In, clips[i-1].Out)
			}
		}
	}
	for _, id := range s.order {
		c := s.clips[id]
		if c.Opening.Shared() {
			p := s.clips[c.Opening.Secondary]
			if p == nil || p.Track != c.Track || p.Out != c.In || p.Length() < c.Opening.Length {
				return fmt.Errorf("clip %d: opening transition shared with invalid clip %d", c.ID, c.Opening.Secondary)
			}
		}
		if c.Closing.Shared() {
			n := s.clips[c.Closing.Secondary]
			if n == nil || n.Track != c.Track || n.In != c.Out || n.Length() < c.Closing.Length {
				return fmt.Errorf("clip %d: closing transition shared with invalid clip %d", c.ID, c.Closing.Secondary)
			}
		}
	}
	return nil
}

// Restore replaces track state, used by loaders.
func (s *Sequence) Restore(locked, disabled []int) {
	s.lockedTracks = make(map[int]bool)
	s.disabledTrack = make(map[int]bool)
	for _, t := range locked {
		s.lockedTracks[t] = true
	}
	for _, t := range disabled {
		s.disabledTrack[t] = true
	}
}
