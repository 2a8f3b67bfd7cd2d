package edit

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

var (
	shortFootage = &media.Footage{
		ID:       2,
		Label:    "broll.mp4",
		Duration: 10 * time.Second,
		Video:    []media.VideoStream{{Index: 0, FrameRate: 30}},
		Audio:    []media.AudioStream{{Index: 1, SampleRate: 48000, Channels: 2}},
	}
	stillImage = &media.Footage{
		ID:    3,
		Label: "title.png",
		Video: []media.VideoStream{{Index: 0, IsImage: true, Width: 1920, Height: 1080}},
	}
)

func TestGhostsFromMedia(t *testing.T) {
	f := newFixture(30)
	items := []media.Item{shortFootage, &media.Folder{ID: 9, Label: "bin"}, stillImage}

	ghosts, err := GhostsFromMedia(f.ctx, items, 10)
	if err != nil {
		t.Fatalf("GhostsFromMedia() error = %v", err)
	}
	if len(ghosts) != 3 {
		t.Fatalf("len(ghosts) = %d, want 3", len(ghosts))
	}
	want := []struct {
		track       int
		in, out     int64
		mediaLength int64
	}{
		{-1, 10, 310, 300},
		{0, 10, 310, 300},
		{-1, 310, 610, -1},
	}
	for i, w := range want {
		g := ghosts[i]
		if g.Track != w.track || g.In != w.in || g.Out != w.out || g.MediaLength != w.mediaLength {
			t.Errorf("ghost %d = track %d [%d,%d) len %d, want %+v", i, g.Track, g.In, g.Out, g.MediaLength, w)
		}
		if g.Moved() {
			t.Errorf("ghost %d starts moved", i)
		}
	}
	if ghosts[0].Group != ghosts[1].Group || ghosts[0].Group == ghosts[2].Group {
		t.Error("ghost groups do not follow media items")
	}

	if _, err := GhostsFromMedia(f.ctx, []media.Item{nil}, 0); !errors.Is(err, media.ErrUnknownKind) {
		t.Errorf("nil media error = %v, want ErrUnknownKind", err)
	}
}

func TestMoveGhosts(t *testing.T) {
	f := newFixture(30)
	ghosts, _ := GhostsFromMedia(f.ctx, []media.Item{shortFootage}, 100)

	MoveGhosts(ghosts, -500, 1)
	if ghosts[0].In != 0 || ghosts[0].Track != -2 || ghosts[1].Track != 1 {
		t.Errorf("after move = %+v", ghosts)
	}
	MoveGhosts(ghosts, 0, -5)
	if ghosts[0].Track != -1 || ghosts[1].Track != 0 {
		t.Errorf("track clamp = %d, %d, want -1, 0", ghosts[0].Track, ghosts[1].Track)
	}
}

func TestTrimGhosts(t *testing.T) {
	f := newFixture(30)
	ghosts, _ := GhostsFromMedia(f.ctx, []media.Item{shortFootage}, 0)

	if got := TrimGhosts(ghosts, true, -10, 30); got != 0 {
		t.Errorf("trim in before media start = %d, want 0", got)
	}
	if got := TrimGhosts(ghosts, true, 20, 30); got != 20 {
		t.Errorf("trim in = %d, want 20", got)
	}
	for _, g := range ghosts {
		if g.In != 20 || g.ClipIn != 20 {
			t.Errorf("ghost after trim in = [%d,%d) clip_in %d", g.In, g.Out, g.ClipIn)
		}
	}
	if got := TrimGhosts(ghosts, false, 10, 30); got != 0 {
		t.Errorf("trim out past media end = %d, want 0", got)
	}
	if got := TrimGhosts(ghosts, false, -500, 30); got != -279 {
		t.Errorf("trim out = %d, want -279", got)
	}
	if ghosts[0].Length() != 1 {
		t.Errorf("length = %d, want 1", ghosts[0].Length())
	}
}

func TestCommitImport_Overwrite(t *testing.T) {
	f := newFixture(30)
	existing := f.add(-1, 100, 200)
	ghosts, _ := GhostsFromMedia(f.ctx, []media.Item{shortFootage}, 150)

	ids, err := CommitImport(f.ctx, ghosts, false)
	if err != nil || len(ids) != 2 {
		t.Fatalf("CommitImport() = %v, %v", ids, err)
	}
	if got := f.seq.Clip(existing.ID); got.Out != 150 {
		t.Errorf("existing clip = [%d,%d), want [100,150)", got.In, got.Out)
	}
	v, a := f.seq.Clip(ids[0]), f.seq.Clip(ids[1])
	if !reflect.DeepEqual(v.Links, []timeline.ClipID{a.ID}) || !reflect.DeepEqual(a.Links, []timeline.ClipID{v.ID}) {
		t.Errorf("imported clips not linked: %v / %v", v.Links, a.Links)
	}
	if v.Name != "broll.mp4" {
		t.Errorf("Name = %q", v.Name)
	}
	f.validate(t)
}

func TestCommitImport_Insert(t *testing.T) {
	f := newFixture(30)
	f.add(-1, 0, 200)
	ghosts, _ := GhostsFromMedia(f.ctx, []media.Item{shortFootage}, 100)

	if _, err := CommitImport(f.ctx, ghosts, true); err != nil {
		t.Fatalf("CommitImport() error = %v", err)
	}
	want := []placement{{0, 100, 0}, {100, 400, 0}, {400, 500, 100}}
	if got := f.track(-1); !reflect.DeepEqual(got, want) {
		t.Fatalf("V1 = %v, want %v", got, want)
	}
	f.validate(t)
	if f.undo.Len() != 1 {
		t.Errorf("undo Len() = %d, want 1", f.undo.Len())
	}
}

func TestCommitMove(t *testing.T) {
	f := newFixture(30)
	a := f.add(-1, 0, 100)
	b := f.add(-1, 200, 300)
	before := f.snapshot()

	ghosts := GhostsFromClips(f.seq, []timeline.ClipID{a.ID})
	MoveGhosts(ghosts, 150, 0)
	if ok, err := CommitMove(f.ctx, ghosts); err != nil || !ok {
		t.Fatalf("CommitMove() = %v, %v", ok, err)
	}

	want := []placement{{150, 250, 0}, {250, 300, 50}}
	if got := f.track(-1); !reflect.DeepEqual(got, want) {
		t.Fatalf("V1 = %v, want %v", got, want)
	}
	if f.seq.Clip(b.ID).In != 250 {
		t.Error("destination clip not trimmed")
	}
	f.validate(t)

	f.undo.Undo()
	if got := f.snapshot(); !reflect.DeepEqual(got, before) {
		t.Fatalf("undo = %v, want %v", got, before)
	}
}

func TestCommitMove_BreaksSharedTransition(t *testing.T) {
	f := newFixture(30)
	a := f.add(-1, 0, 100)
	b := f.add(-1, 100, 200)
	a.Closing = &timeline.Transition{EffectID: "cross-dissolve", Length: 10, Secondary: b.ID}

	ghosts := GhostsFromClips(f.seq, []timeline.ClipID{b.ID})
	MoveGhosts(ghosts, 100, 0)
	CommitMove(f.ctx, ghosts)

	if f.seq.Clip(a.ID).Closing != nil {
		t.Error("shared transition survived moving its partner away")
	}
	f.validate(t)
}

func TestCommitMove_OntoTransitionSpan(t *testing.T) {
	f := newFixture(30)
	x := f.add(0, 0, 100)
	x.Closing = &timeline.Transition{EffectID: "linear-fade", Length: 20}
	z := f.add(0, 300, 320)

	ghosts := GhostsFromClips(f.seq, []timeline.ClipID{z.ID})
	MoveGhosts(ghosts, -220, 0)
	if ok, err := CommitMove(f.ctx, ghosts); err != nil || !ok {
		t.Fatalf("CommitMove() = %v, %v", ok, err)
	}

	want := []placement{{0, 80, 0}, {80, 100, 0}}
	if got := f.track(0); !reflect.DeepEqual(got, want) {
		t.Fatalf("A1 = %v, want %v", got, want)
	}
	if f.seq.Clip(x.ID).Closing != nil {
		t.Error("closing transition kept on the trimmed clip")
	}
	f.validate(t)
}

func TestCommitImport_OverwriteOntoTransitionSpan(t *testing.T) {
	f := newFixture(30)
	x := f.add(-1, 0, 380)
	x.Closing = &timeline.Transition{EffectID: "cross-dissolve", Length: 300}
	ghosts, _ := GhostsFromMedia(f.ctx, []media.Item{shortFootage}, 80)

	ids, err := CommitImport(f.ctx, ghosts, false)
	if err != nil || len(ids) != 2 {
		t.Fatalf("CommitImport() = %v, %v", ids, err)
	}
	if got := f.seq.Clip(x.ID); got.In != 0 || got.Out != 80 || got.Closing != nil {
		t.Errorf("existing clip = [%d,%d) closing %+v, want [0,80) without transition", got.In, got.Out, got.Closing)
	}
	f.validate(t)
}
