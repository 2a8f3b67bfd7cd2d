package timeline

import (
	"testing"
	"time"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/media"
)

func testFootage() *media.Footage {
	return &media.Footage{
		ID:       1,
		Label:    "shot.mov",
		Duration: 60 * time.Second,
		Video:    []media.VideoStream{{Index: 0, FrameRate: 30}},
		Audio:    []media.AudioStream{{Index: 1, SampleRate: 48000, Channels: 2}},
	}
}

func TestTrackSignConvention(t *testing.T) {
	for k := 0; k < 8; k++ {
		track := VideoTrack(k)
		if track != -(k + 1) {
			t.Fatalf("VideoTrack(%d) = %d, want %d", k, track, -(k + 1))
		}
		if !IsVideoTrack(track) {
			t.Fatalf("IsVideoTrack(%d) = false", track)
		}
		if got := TrackNumber(track); got != k {
			t.Fatalf("TrackNumber(%d) = %d, want %d", track, got, k)
		}
		if got := TrackAtOffset(true, k); got != track {
			t.Fatalf("TrackAtOffset(true, %d) = %d, want %d", k, got, track)
		}
		if IsVideoTrack(AudioTrack(k)) {
			t.Fatalf("AudioTrack(%d) reported as video", k)
		}
	}
	if TrackName(-1) != "V1" || TrackName(0) != "A1" || TrackName(-3) != "V3" {
		t.Errorf("TrackName() labels = %s %s %s", TrackName(-1), TrackName(0), TrackName(-3))
	}
}

func TestClipIDs(t *testing.T) {
	a := NextClipID()
	b := NextClipID()
	if b <= a {
		t.Fatalf("NextClipID() not increasing: %d then %d", a, b)
	}
	ReserveClipID(b + 100)
	if c := NextClipID(); c <= b+100 {
		t.Fatalf("NextClipID() after ReserveClipID(%d) = %d", b+100, c)
	}
	ReserveClipID(1)
	if d := NextClipID(); d <= b+100 {
		t.Fatalf("ReserveClipID lowered the counter: got %d", d)
	}
}

func TestSequence_Arena(t *testing.T) {
	seq := NewSequence("main", 1920, 1080, 30, 48000)
	c := NewClip(testFootage(), 0, -1, 0, 100, 0)

	if !seq.AddClip(c) {
		t.Fatal("AddClip() = false")
	}
	if seq.AddClip(c) {
		t.Fatal("AddClip() accepted a duplicate id")
	}
	if c.Sequence() != seq {
		t.Fatal("clip back-reference not set")
	}
	if seq.Clip(c.ID) != c {
		t.Fatal("Clip() lookup failed")
	}

	removed := seq.RemoveClip(c.ID)
	if removed != c || removed.Sequence() != nil {
		t.Fatal("RemoveClip() did not detach the clip")
	}
	if seq.Clip(c.ID) != nil {
		t.Fatal("stale id still resolves")
	}
	if seq.RemoveClip(c.ID) != nil {
		t.Fatal("RemoveClip() of stale id returned a clip")
	}
}

func TestSequence_Queries(t *testing.T) {
	seq := NewSequence("main", 1920, 1080, 30, 48000)
	f := testFootage()
	seq.AddClip(NewClip(f, 0, -1, 100, 200, 0))
	seq.AddClip(NewClip(f, 0, -3, 0, 50, 0))
	seq.AddClip(NewClip(f, 1, 0, 100, 250, 0))
	seq.AddClip(NewClip(f, 1, 2, 10, 20, 0))
	seq.AddClip(NewClip(f, 0, -1, 0, 100, 0))

	if got := seq.EndFrame(); got != 250 {
		t.Errorf("EndFrame() = %d, want 250", got)
	}
	if got := seq.VideoTrackCount(); got != 3 {
		t.Errorf("VideoTrackCount() = %d, want 3", got)
	}
	if got := seq.AudioTrackCount(); got != 3 {
		t.Errorf("AudioTrackCount() = %d, want 3", got)
	}
	v, a := seq.TrackLimits()
	if v != -3 || a != 2 {
		t.Errorf("TrackLimits() = %d, %d, want -3, 2", v, a)
	}

	onTrack := seq.ClipsOnTrack(-1)
	if len(onTrack) != 2 || onTrack[0].In != 0 || onTrack[1].In != 100 {
		t.Errorf("ClipsOnTrack(-1) not ordered by in: %v", onTrack)
	}
	if c := seq.ClipAt(-1, 100); c == nil || c.In != 100 {
		t.Errorf("ClipAt(-1, 100) = %v, want clip starting at 100", c)
	}
	if c := seq.ClipAt(-1, 200); c != nil {
		t.Errorf("ClipAt(-1, 200) = %v, want nil (out is exclusive)", c)
	}
	if at := seq.ClipsAt(120); len(at) != 2 || at[0].Track != -1 {
		t.Errorf("ClipsAt(120) = %v", at)
	}
	if err := seq.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	empty := NewSequence("empty", 640, 480, 25, 44100)
	if empty.EndFrame() != 0 || empty.VideoTrackCount() != 0 || empty.AudioTrackCount() != 0 {
		t.Error("empty sequence should report zero end and track counts")
	}
}

func TestSequence_ValidateOverlap(t *testing.T) {
	seq := NewSequence("main", 1920, 1080, 30, 48000)
	seq.AddClip(NewClip(nil, 0, 0, 0, 100, 0))
	seq.AddClip(NewClip(nil, 0, 0, 99, 150, 0))
	if err := seq.Validate(); err == nil {
		t.Fatal("Validate() expected overlap error")
	}
}

func TestSequence_ValidateSharedTransition(t *testing.T) {
	seq := NewSequence("main", 1920, 1080, 30, 48000)
	a := NewClip(nil, 0, -1, 0, 100, 0)
	b := NewClip(nil, 0, -1, 100, 200, 0)
	b.Opening = &Transition{EffectID: "cross-dissolve", Length: 10, Secondary: a.ID}
	seq.AddClip(a)
	seq.AddClip(b)

	if err := seq.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	refs := seq.TransitionsReferencing(a.ID)
	if len(refs) != 1 || refs[0] != (TransitionRef{Clip: b.ID, Side: Opening}) {
		t.Fatalf("TransitionsReferencing() = %v", refs)
	}

	a.Out = 90
	if err := seq.Validate(); err == nil {
		t.Fatal("Validate() expected error for non-abutting shared transition")
	}
}

func TestSequence_Clone(t *testing.T) {
	seq := NewSequence("main", 1920, 1080, 30, 48000)
	c := NewClip(testFootage(), 0, -1, 0, 100, 0)
	c.Effects = []effects.Effect{{ID: "opacity", Params: map[string]string{"opacity": "50"}}}
	c.Links = []ClipID{42}
	seq.AddClip(c)
	seq.Markers = []Marker{{Frame: 10, Name: "a"}}
	seq.SetTrackLocked(0, true)

	cp := seq.Clone()
	cc := cp.Clip(c.ID)
	if cc == nil || cc == c {
		t.Fatal("Clone() did not deep copy clips")
	}
	if cc.Sequence() != cp {
		t.Fatal("cloned clip points at the wrong sequence")
	}
	cc.Out = 50
	cc.Links[0] = 7
	cc.Effects[0].Params["opacity"] = "1"
	cp.Markers[0].Frame = 99
	cp.SetTrackLocked(0, false)

	if c.Out != 100 || c.Links[0] != 42 || c.Effects[0].Params["opacity"] != "50" {
		t.Error("mutating the clone changed the original clip")
	}
	if seq.Markers[0].Frame != 10 || !seq.IsTrackLocked(0) {
		t.Error("mutating the clone changed the original sequence")
	}
}

func TestSequence_TrackState(t *testing.T) {
	seq := NewSequence("main", 1920, 1080, 30, 48000)
	seq.SetTrackLocked(-2, true)
	seq.SetTrackLocked(1, true)
	seq.SetTrackEnabled(0, false)

	if !seq.IsTrackLocked(-2) || seq.IsTrackLocked(-1) {
		t.Error("IsTrackLocked() mismatch")
	}
	if seq.IsTrackEnabled(0) || !seq.IsTrackEnabled(1) {
		t.Error("IsTrackEnabled() mismatch")
	}
	if got := seq.LockedTracks(); len(got) != 2 || got[0] != -2 || got[1] != 1 {
		t.Errorf("LockedTracks() = %v, want [-2 1]", got)
	}

	seq.Restore([]int{3}, nil)
	if seq.IsTrackLocked(-2) || !seq.IsTrackLocked(3) || !seq.IsTrackEnabled(0) {
		t.Error("Restore() did not replace track state")
	}
}

func TestClip_Validate(t *testing.T) {
	tests := []struct {
		name    string
		clip    Clip
		wantErr bool
	}{
		{"valid", Clip{In: 0, Out: 10}, false},
		{"inverted", Clip{In: 10, Out: 0}, true},
		{"negative clip in", Clip{In: 0, Out: 10, ClipIn: -1}, true},
		{"opening too long", Clip{In: 0, Out: 10, Opening: &Transition{Length: 11}}, true},
		{"closing fits", Clip{In: 0, Out: 10, Closing: &Transition{Length: 10}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.clip.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClip_SourceOffset(t *testing.T) {
	f := &media.Footage{ID: 9, Duration: time.Minute, Video: []media.VideoStream{{Index: 0, FrameRate: 60}}}
	c := NewClip(f, 0, -1, 0, 100, 0)
	if got := c.SourceOffset(30, 30); got != 60 {
		t.Errorf("SourceOffset(30) = %d, want 60", got)
	}
	audio := NewClip(testFootage(), 1, 0, 0, 100, 0)
	if got := audio.SourceOffset(30, 25); got != 30 {
		t.Errorf("audio SourceOffset(30) = %d, want 30", got)
	}
}

func TestTrackHeights(t *testing.T) {
	h := NewTrackHeights(40, 30)

	if got := h.CalculateTrackHeight(VideoTrack(2)); got != 40 {
		t.Fatalf("CalculateTrackHeight(V3) = %d, want 40", got)
	}
	if len(h.Video) != 3 {
		t.Fatalf("video heights padded to %d, want 3", len(h.Video))
	}
	h.CalculateTrackHeight(AudioTrack(0))

	h.SetTrackHeight(VideoTrack(1), 35)
	h.ChangeTrackHeight(-10)
	if h.Video[0] != 30 || h.Video[1] != 30 || h.Audio[0] != 30 {
		t.Errorf("shrink not clamped to minimum: video=%v audio=%v", h.Video, h.Audio)
	}

	h.Video[2] = 10
	h.ChangeTrackHeight(5)
	if h.Video[2] != 15 {
		t.Errorf("growing clamped: got %d, want 15", h.Video[2])
	}
	if h.Video[0] != 35 {
		t.Errorf("grow = %d, want 35", h.Video[0])
	}

	h.SetTrackHeight(AudioTrack(1), 5)
	if h.Audio[1] != 30 {
		t.Errorf("SetTrackHeight below minimum = %d, want 30", h.Audio[1])
	}
}

func TestGhost(t *testing.T) {
	c := NewClip(testFootage(), 0, -1, 10, 60, 5)
	g := GhostFromClip(c, 1800)

	if g.Moved() {
		t.Fatal("fresh ghost reports movement")
	}
	g.In += 20
	g.Out += 20
	g.Track = -2
	if !g.Moved() {
		t.Fatal("moved ghost reports no movement")
	}
	if got := g.Selection(); got != (Selection{In: 30, Out: 80, Track: -2}) {
		t.Errorf("Selection() = %v", got)
	}
	g.Revert()
	if g.In != 10 || g.Out != 60 || g.Track != -1 || g.ClipIn != 5 {
		t.Errorf("Revert() = %+v", g)
	}
}
