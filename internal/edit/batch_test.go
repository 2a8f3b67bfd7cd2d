package edit

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

func TestBatch_PlansOnCopy(t *testing.T) {
	f := newFixture(30)
	c := f.add(0, 0, 100)

	b := NewBatch(f.seq, "trim")
	b.Add(&MoveClip{ID: c.ID, In: 0, Out: 50, Track: 0})
	if f.seq.Clip(c.ID).Out != 100 {
		t.Fatal("planning touched the live sequence")
	}
	if b.Work().Clip(c.ID).Out != 50 {
		t.Fatal("planning view does not reflect queued op")
	}

	f.undo.Push(b)
	if f.seq.Clip(c.ID).Out != 50 {
		t.Fatalf("Out = %d after push, want 50", f.seq.Clip(c.ID).Out)
	}
	if got := b.Ops(); !reflect.DeepEqual(got, []string{"move clip"}) {
		t.Errorf("Ops() = %v", got)
	}
}

func TestNewContext_DirectExecution(t *testing.T) {
	seq := timeline.NewSequence("bare", 640, 480, 25, 48000)
	c := timeline.NewClip(testFootage, 1, 0, 0, 100, 0)
	seq.AddClip(c)
	ctx := NewContext(seq)

	if ok, _ := SplitClips(ctx, []timeline.ClipID{c.ID}, 50); !ok {
		t.Fatal("SplitClips() without sinks = false")
	}
	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", seq.Len())
	}
}

// TestEditSequence_Invariants runs a long random edit session and checks that
// no edit ever leaves overlapping clips or dangling shared transitions and
// that undoing everything restores the starting arrangement.
func TestEditSequence_Invariants(t *testing.T) {
	for _, seed := range []uint64{7, 19, 42} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			runRandomEdits(t, seed)
		})
	}
}

func runRandomEdits(t *testing.T, seed uint64) {
	f := newFixture(30)
	rng := rand.New(rand.NewPCG(seed, 11))
	tracks := []int{-2, -1, 0, 1}
	for _, track := range tracks {
		var at int64
		var prev *timeline.Clip
		for i := 0; i < 6; i++ {
			at += rng.Int64N(3) * rng.Int64N(40)
			length := 10 + rng.Int64N(90)
			c := f.add(track, at, at+length)
			addRandomTransitions(rng, c, prev)
			prev = c
			at += length
		}
	}
	f.validate(t)
	start, startTransitions := f.snapshot(), f.transitions()

	randomSel := func() timeline.Selection {
		in := rng.Int64N(800)
		return timeline.Selection{In: in, Out: in + 1 + rng.Int64N(120), Track: tracks[rng.IntN(len(tracks))]}
	}
	randomClip := func() (timeline.ClipID, bool) {
		clips := f.seq.Clips()
		if len(clips) == 0 {
			return 0, false
		}
		return clips[rng.IntN(len(clips))].ID, true
	}

	for step := 0; step < 300; step++ {
		var op string
		switch rng.IntN(10) {
		case 0:
			op = "delete"
			DeleteSelection(f.ctx, []timeline.Selection{randomSel(), randomSel()}, false)
		case 1:
			op = "ripple delete"
			DeleteSelection(f.ctx, []timeline.Selection{randomSel()}, true)
		case 2:
			op = "ripple"
			RippleEdit(f.ctx, rng.Int64N(900), rng.Int64N(200)-100)
		case 3:
			op = "split"
			SplitAll(f.ctx, rng.Int64N(900))
		case 4:
			op = "paste insert"
			Copy(f.ctx, []timeline.Selection{randomSel()})
			f.ctx.Seek(rng.Int64N(900))
			Paste(f.ctx, true)
		case 5:
			op = "paste overwrite"
			Copy(f.ctx, []timeline.Selection{randomSel(), randomSel()})
			f.ctx.Seek(rng.Int64N(900))
			Paste(f.ctx, false)
		case 6:
			op = "delete range"
			in := rng.Int64N(900)
			DeleteRange(f.ctx, in, in+1+rng.Int64N(60), rng.IntN(2) == 0)
		case 7:
			op = "delete transition span"
			if id, ok := randomClip(); ok {
				c := f.seq.Clip(id)
				if span, ok := timeline.TransitionSpan(c, timeline.Side(rng.IntN(2))); ok {
					DeleteSelection(f.ctx, []timeline.Selection{span}, rng.IntN(2) == 0)
				}
			}
		case 8:
			op = "move"
			if id, ok := randomClip(); ok {
				ghosts := GhostsFromClips(f.seq, []timeline.ClipID{id})
				MoveGhosts(ghosts, rng.Int64N(300)-150, rng.IntN(2))
				CommitMove(f.ctx, ghosts)
			}
		case 9:
			op = "import"
			ghosts, err := GhostsFromMedia(f.ctx, []media.Item{shortFootage}, rng.Int64N(900))
			if err != nil {
				t.Fatalf("step %d: GhostsFromMedia() error = %v", step, err)
			}
			if _, err := CommitImport(f.ctx, ghosts, rng.IntN(2) == 0); err != nil {
				t.Fatalf("step %d: CommitImport() error = %v", step, err)
			}
		}
		if err := f.seq.Validate(); err != nil {
			t.Fatalf("step %d (%s): %v", step, op, err)
		}
	}

	for f.undo.CanUndo() {
		f.undo.Undo()
	}
	if got := f.snapshot(); !reflect.DeepEqual(got, start) {
		t.Fatalf("undoing every edit did not restore the sequence:\n got %v\nwant %v", got, start)
	}
	if got := f.transitions(); !reflect.DeepEqual(got, startTransitions) {
		t.Fatalf("undoing every edit did not restore transitions:\n got %v\nwant %v", got, startTransitions)
	}
}

// addRandomTransitions gives c unshared transitions, or a transition shared
// with prev when the two clips abut.
func addRandomTransitions(rng *rand.Rand, c, prev *timeline.Clip) {
	fx := "cross-dissolve"
	if !timeline.IsVideoTrack(c.Track) {
		fx = "linear-fade"
	}
	short := func(clip *timeline.Clip) int64 { return 1 + rng.Int64N(clip.Length()/3) }
	if prev != nil && prev.Out == c.In && prev.Closing == nil && rng.IntN(2) == 0 {
		length := min(short(prev), short(c))
		if rng.IntN(2) == 0 {
			prev.Closing = &timeline.Transition{EffectID: fx, Length: length, Secondary: c.ID}
		} else {
			c.Opening = &timeline.Transition{EffectID: fx, Length: length, Secondary: prev.ID}
		}
	} else if rng.IntN(3) == 0 {
		c.Opening = &timeline.Transition{EffectID: fx, Length: short(c)}
	}
	if rng.IntN(3) == 0 {
		c.Closing = &timeline.Transition{EffectID: fx, Length: short(c)}
	}
}
