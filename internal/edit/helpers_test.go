package edit

import (
	"sort"
	"testing"
	"time"

	"github.com/splicekit/splice/internal/logging"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
	"github.com/splicekit/splice/internal/undo"
	"github.com/splicekit/splice/internal/viewer"
)

var testFootage = &media.Footage{
	ID:       1,
	Label:    "interview.mov",
	Duration: 10 * time.Minute,
	Video:    []media.VideoStream{{Index: 0, FrameRate: 30, Width: 1920, Height: 1080}},
	Audio:    []media.AudioStream{{Index: 1, SampleRate: 48000, Channels: 2}},
}

type fixture struct {
	ctx    *Context
	seq    *timeline.Sequence
	undo   *undo.Stack
	viewer *viewer.Recorder
}

func newFixture(rate float64) *fixture {
	seq := timeline.NewSequence("test", 1920, 1080, rate, 48000)
	f := &fixture{seq: seq, undo: undo.NewStack(0), viewer: &viewer.Recorder{}}
	f.ctx = NewContext(seq)
	f.ctx.Undo = f.undo
	f.ctx.Viewer = f.viewer
	f.ctx.Logger = logging.Discard()
	return f
}

// add places a clip of testFootage. Video tracks use the video stream.
func (f *fixture) add(track int, in, out int64) *timeline.Clip {
	stream := 1
	if timeline.IsVideoTrack(track) {
		stream = 0
	}
	c := timeline.NewClip(testFootage, stream, track, in, out, 0)
	f.seq.AddClip(c)
	return c
}

type placement struct {
	In, Out, ClipIn int64
}

func (f *fixture) track(track int) []placement {
	var out []placement
	for _, c := range f.seq.ClipsOnTrack(track) {
		out = append(out, placement{c.In, c.Out, c.ClipIn})
	}
	return out
}

type snapshot map[timeline.ClipID]placement

func (f *fixture) snapshot() snapshot {
	s := make(snapshot)
	for _, c := range f.seq.Clips() {
		s[c.ID] = placement{c.In, c.Out, c.ClipIn}
	}
	return s
}

// transitions records every transition by its owning clip and side.
func (f *fixture) transitions() map[timeline.TransitionRef]timeline.Transition {
	out := make(map[timeline.TransitionRef]timeline.Transition)
	for _, c := range f.seq.Clips() {
		for _, side := range []timeline.Side{timeline.Opening, timeline.Closing} {
			if t := c.Transition(side); t != nil {
				out[timeline.TransitionRef{Clip: c.ID, Side: side}] = *t
			}
		}
	}
	return out
}

func (f *fixture) validate(t *testing.T) {
	t.Helper()
	if err := f.seq.Validate(); err != nil {
		t.Fatalf("sequence invalid: %v", err)
	}
}

func sortedIDs(ids []timeline.ClipID) []timeline.ClipID {
	out := append([]timeline.ClipID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
