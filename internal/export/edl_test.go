package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

func footage(id int64, path string, rate float64) *media.Footage {
	return &media.Footage{
		ID:    id,
		Label: filepath.Base(path),
		Path:  path,
		Video: []media.VideoStream{{Index: 0, FrameRate: rate, Width: 1920, Height: 1080}},
		Audio: []media.AudioStream{{Index: 1, SampleRate: 48000, Channels: 2}},
	}
}

func testSequence(t *testing.T) *timeline.Sequence {
	t.Helper()
	seq := timeline.NewSequence("Cut One", 1920, 1080, 30, 48000)
	a := footage(1, "/media/a.mp4", 30)
	b := footage(2, "/media/b.mp4", 60)

	v1 := timeline.VideoTrack(0)
	clips := []*timeline.Clip{
		timeline.NewClip(b, 0, v1, 90, 120, 120),
		timeline.NewClip(a, 0, v1, 0, 60, 30),
		timeline.NewClip(a, 1, timeline.AudioTrack(0), 0, 60, 30),
		timeline.NewClip(a, 0, timeline.VideoTrack(1), 0, 200, 0),
	}
	off := timeline.NewClip(a, 0, v1, 200, 230, 0)
	off.Enabled = false
	clips = append(clips, off)
	nested := timeline.NewClip(&media.NestedSequence{ID: 3, Label: "Nest", FrameRate: 30, Length: 100}, 0, v1, 300, 330, 0)
	clips = append(clips, nested)

	for _, c := range clips {
		if !seq.AddClip(c) {
			t.Fatalf("AddClip(%d) failed", c.ID)
		}
	}
	return seq
}

func TestEvents(t *testing.T) {
	events, skipped := Events(testSequence(t))

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	first := events[0]
	if first.MediaPath != "/media/a.mp4" || first.SourceIn != 30 || first.SourceOut != 90 || first.RecordIn != 0 || first.RecordOut != 60 {
		t.Errorf("first event mismatch: %+v", first)
	}
	second := events[1]
	// 120 frames at 60fps is 60 frames at the 30fps sequence rate.
	if second.MediaPath != "/media/b.mp4" || second.SourceIn != 60 || second.SourceOut != 90 || second.RecordIn != 90 || second.RecordOut != 120 {
		t.Errorf("second event mismatch: %+v", second)
	}
	if len(skipped) != 1 || skipped[0] != "Nest" {
		t.Errorf("skipped = %v, want [Nest]", skipped)
	}
}

func TestGenerateEDL_SingleClip(t *testing.T) {
	events := []Event{{
		ClipName:  "Intro",
		MediaPath: "/media/intro.mp4",
		SourceIn:  0,
		SourceOut: 60,
		RecordIn:  0,
		RecordOut: 60,
	}}

	edl := GenerateEDL(events, "Project One", 30.0)

	if !strings.Contains(edl, "TITLE: Project One") {
		t.Fatalf("missing title in EDL: %q", edl)
	}
	if !strings.Contains(edl, "FCM: NON-DROP FRAME") {
		t.Fatalf("missing non-drop-frame FCM: %q", edl)
	}
	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:02:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("missing event line: %q", edl)
	}
	if !strings.Contains(edl, "* FROM CLIP NAME:  Intro") {
		t.Fatalf("missing clip name comment: %q", edl)
	}
	if !strings.Contains(edl, "* MEDIA PATH:  /media/intro.mp4") {
		t.Fatalf("missing media path comment: %q", edl)
	}
	if strings.Contains(edl, "TRANSITION") {
		t.Fatalf("unexpected transition comment: %q", edl)
	}
}

func TestGenerateEDL_RecordGap(t *testing.T) {
	events, _ := Events(testSequence(t))
	edl := GenerateEDL(events, "Gap", 30.0)

	if !strings.Contains(edl, "001  A        V     C        00:00:01:00 00:00:03:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("first event line mismatch: %q", edl)
	}
	if !strings.Contains(edl, "002  B        V     C        00:00:02:00 00:00:03:00 00:00:03:00 00:00:04:00") {
		t.Fatalf("second event line mismatch: %q", edl)
	}
}

func TestGenerateEDL_DropFrame(t *testing.T) {
	events := []Event{{ClipName: "Clip", MediaPath: "/x.mp4", SourceOut: 1800, RecordOut: 1800}}
	edl := GenerateEDL(events, "Drop", 29.97)

	if !strings.Contains(edl, "FCM: DROP FRAME") {
		t.Fatalf("expected drop frame FCM, got: %q", edl)
	}
	if !strings.Contains(edl, "00:00:00;00 00:01:00;02") {
		t.Fatalf("expected drop frame timecodes, got: %q", edl)
	}
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		name  string
		frame int64
		fps   int64
		drop  bool
		want  string
	}{
		{name: "zero", frame: 0, fps: 30, want: "00:00:00:00"},
		{name: "one second", frame: 30, fps: 30, want: "00:00:01:00"},
		{name: "half second", frame: 15, fps: 30, want: "00:00:00:15"},
		{name: "one minute", frame: 1800, fps: 30, want: "00:01:00:00"},
		{name: "one hour", frame: 108000, fps: 30, want: "01:00:00:00"},
		{name: "negative clamps", frame: -5, fps: 25, want: "00:00:00:00"},
		{name: "df last frame of minute", frame: 1799, fps: 30, drop: true, want: "00:00:59;29"},
		{name: "df minute skips two", frame: 1800, fps: 30, drop: true, want: "00:01:00;02"},
		{name: "df tenth minute keeps zero", frame: 17982, fps: 30, drop: true, want: "00:10:00;00"},
		{name: "df 59.94 skips four", frame: 3600, fps: 60, drop: true, want: "00:01:00;04"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Timecode(tc.frame, tc.fps, tc.drop)
			if got != tc.want {
				t.Fatalf("Timecode(%d, %d, %v) = %q, want %q", tc.frame, tc.fps, tc.drop, got, tc.want)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, resp, err := WriteFile(testSequence(t), dir, "")
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if path != filepath.Join(dir, "Cut One.edl") {
		t.Errorf("path = %q", path)
	}
	if resp.EventCount != 2 || len(resp.Skipped) != 1 {
		t.Errorf("response mismatch: %+v", resp)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "TITLE: Cut One\n") {
		t.Errorf("unexpected header: %q", data)
	}
}

func TestWriteFile_NoEvents(t *testing.T) {
	seq := timeline.NewSequence("Empty", 1920, 1080, 30, 48000)
	if _, _, err := WriteFile(seq, t.TempDir(), "x"); !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
}
