// Package media describes the sources a clip can reference. The set of media
// kinds is closed: every Item is a *Footage, *NestedSequence or *Folder, and
// callers dispatch on it with a type switch.
package media

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrUnknownKind = errors.New("unknown media kind")

type Kind int

const (
	KindNone Kind = iota
	KindFootage
	KindSequence
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFootage:
		return "footage"
	case KindSequence:
		return "sequence"
	case KindFolder:
		return "folder"
	default:
		return "none"
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "footage":
		return KindFootage, nil
	case "sequence":
		return KindSequence, nil
	case "folder":
		return KindFolder, nil
	case "none", "":
		return KindNone, nil
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Item is a media library entry.
type Item interface {
	MediaID() int64
	Name() string
	Kind() Kind
	item()
}

type VideoStream struct {
	Index     int     `json:"index"`
	FrameRate float64 `json:"frame_rate"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	IsImage   bool    `json:"is_image"`
}

type AudioStream struct {
	Index      int    `json:"index"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Layout     string `json:"layout,omitempty"`
}

type Footage struct {
	ID       int64
	Label    string
	Path     string
	Duration time.Duration
	Video    []VideoStream
	Audio    []AudioStream
}

func (f *Footage) MediaID() int64 { return f.ID }
func (f *Footage) Name() string   { return f.Label }
func (f *Footage) Kind() Kind     { return KindFootage }
func (f *Footage) item()          {}

func (f *Footage) VideoStream(index int) (VideoStream, bool) {
	for _, s := range f.Video {
		if s.Index == index {
			return s, true
		}
	}
	return VideoStream{}, false
}

func (f *Footage) AudioStream(index int) (AudioStream, bool) {
	for _, s := range f.Audio {
		if s.Index == index {
			return s, true
		}
	}
	return AudioStream{}, false
}

// IsImage reports whether the footage is a still. Stills have no intrinsic length.
func (f *Footage) IsImage() bool {
	for _, s := range f.Video {
		if s.IsImage {
			return true
		}
	}
	return false
}

// NestedSequence is a sequence used as a source inside another sequence.
// The values are a snapshot taken when the item was loaded.
type NestedSequence struct {
	ID         int64
	Label      string
	SequenceID string
	FrameRate  float64
	Length     int64
	Width      int
	Height     int
}

func (s *NestedSequence) MediaID() int64 { return s.ID }
func (s *NestedSequence) Name() string   { return s.Label }
func (s *NestedSequence) Kind() Kind     { return KindSequence }
func (s *NestedSequence) item()          {}

type Folder struct {
	ID       int64
	Label    string
	Children []Item
}

func (f *Folder) MediaID() int64 { return f.ID }
func (f *Folder) Name() string   { return f.Label }
func (f *Folder) Kind() Kind     { return KindFolder }
func (f *Folder) item()          {}

// RefactorFrameNumber converts a frame count between frame rates, rounding to
// the nearest frame.
func RefactorFrameNumber(frame int64, srcRate, dstRate float64) int64 {
	if srcRate == dstRate || srcRate <= 0 || dstRate <= 0 {
		return frame
	}
	return int64(math.Round(float64(frame) * dstRate / srcRate))
}

// FramesFromDuration returns the number of whole frames d spans at rate.
func FramesFromDuration(d time.Duration, rate float64) int64 {
	return int64(math.Round(d.Seconds() * rate))
}
