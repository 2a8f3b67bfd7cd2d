package media

import (
	"errors"
	"fmt"
)

var ErrNoStream = errors.New("stream not found")

// IsImage reports whether item is a still image.
func IsImage(item Item) bool {
	f, ok := item.(*Footage)
	return ok && f.IsImage()
}

// HasVideo reports whether the item can be placed on a video track.
func HasVideo(item Item) bool {
	switch m := item.(type) {
	case *Footage:
		return len(m.Video) > 0
	case *NestedSequence:
		return true
	default:
		return false
	}
}

// HasAudio reports whether the item can be placed on an audio track.
func HasAudio(item Item) bool {
	switch m := item.(type) {
	case *Footage:
		return len(m.Audio) > 0
	case *NestedSequence:
		return true
	default:
		return false
	}
}

// FrameRate returns the rate that source offsets of a clip referencing item
// are counted in. Audio streams and stills have no frame cadence of their own
// and use the destination sequence rate.
func FrameRate(item Item, stream int, video bool, sequenceRate float64) (float64, error) {
	switch m := item.(type) {
	case *Footage:
		if !video {
			if _, ok := m.AudioStream(stream); !ok {
				return 0, fmt.Errorf("audio %w: %d", ErrNoStream, stream)
			}
			return sequenceRate, nil
		}
		vs, ok := m.VideoStream(stream)
		if !ok {
			return 0, fmt.Errorf("video %w: %d", ErrNoStream, stream)
		}
		if vs.IsImage || vs.FrameRate <= 0 {
			return sequenceRate, nil
		}
		return vs.FrameRate, nil
	case *NestedSequence:
		if m.FrameRate <= 0 {
			return sequenceRate, nil
		}
		return m.FrameRate, nil
	case *Folder:
		return 0, fmt.Errorf("folder %q cannot be placed on a timeline", m.Label)
	case nil:
		return 0, fmt.Errorf("%w: nil", ErrUnknownKind)
	}
	return 0, ErrUnknownKind
}

// SampleRate returns the sample rate of an audio stream.
func SampleRate(item Item, stream int) (int, error) {
	f, ok := item.(*Footage)
	if !ok {
		return 0, fmt.Errorf("audio %w: %d", ErrNoStream, stream)
	}
	as, ok := f.AudioStream(stream)
	if !ok {
		return 0, fmt.Errorf("audio %w: %d", ErrNoStream, stream)
	}
	return as.SampleRate, nil
}

// LengthInFrames returns the total length of item counted at rate. Stills
// report -1 (unbounded).
func LengthInFrames(item Item, rate float64) (int64, error) {
	switch m := item.(type) {
	case *Footage:
		if m.IsImage() {
			return -1, nil
		}
		return FramesFromDuration(m.Duration, rate), nil
	case *NestedSequence:
		return RefactorFrameNumber(m.Length, m.FrameRate, rate), nil
	case *Folder:
		return 0, fmt.Errorf("folder %q has no length", m.Label)
	case nil:
		return 0, fmt.Errorf("%w: nil", ErrUnknownKind)
	}
	return 0, ErrUnknownKind
}

// Library is an in-memory index of media items by id.
type Library struct {
	items map[int64]Item
	order []int64
}

func NewLibrary() *Library {
	return &Library{items: make(map[int64]Item)}
}

func (l *Library) Add(item Item) {
	if item == nil {
		return
	}
	if _, ok := l.items[item.MediaID()]; !ok {
		l.order = append(l.order, item.MediaID())
	}
	l.items[item.MediaID()] = item
}

func (l *Library) Get(id int64) Item {
	return l.items[id]
}

func (l *Library) Items() []Item {
	out := make([]Item, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.items[id])
	}
	return out
}

func (l *Library) Len() int {
	return len(l.order)
}
