package edit

import (
	"fmt"
	"slices"

	"github.com/splicekit/splice/internal/effects"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

type ClipboardKind int

const (
	ClipboardEmpty ClipboardKind = iota
	ClipboardClips
	ClipboardEffects
)

func (k ClipboardKind) String() string {
	switch k {
	case ClipboardClips:
		return "clips"
	case ClipboardEffects:
		return "effects"
	}
	return "empty"
}

// Clipboard holds either copied clips or copied effects, never both.
// Copied clips are detached, normalised so the earliest starts at frame 0
// and keep the ids they had when copied; links refer to those ids.
type Clipboard struct {
	Kind      ClipboardKind
	Clips     []*timeline.Clip
	FrameRate float64

	Effects []effects.Effect
	// Video is the kind of clip the effects were copied from.
	Video bool
}

func (cb *Clipboard) Clear() {
	*cb = Clipboard{}
}

// Span is the length of the copied clips laid out from frame 0.
func (cb *Clipboard) Span() int64 {
	var end int64
	for _, c := range cb.Clips {
		if c.Out > end {
			end = c.Out
		}
	}
	return end
}

// Copy places copies of the parts of clips inside sels on the clipboard.
func Copy(ctx *Context, sels []timeline.Selection) (bool, error) {
	seq := ctx.Sequence
	sels = timeline.CleanUpSelections(slices.Clone(sels))

	var copies []*timeline.Clip
	for _, c := range seq.Clips() {
		in, out, hit := int64(0), int64(0), false
		for _, s := range sels {
			if !s.Intersects(c) {
				continue
			}
			if !hit || s.In < in {
				in = s.In
			}
			if !hit || s.Out > out {
				out = s.Out
			}
			hit = true
		}
		if !hit {
			continue
		}
		cp := c.Copy()
		if in > cp.In {
			cp.ClipIn += c.SourceOffset(in-cp.In, seq.FrameRate)
			cp.In = in
			cp.Opening = nil
		}
		if out < cp.Out {
			cp.Out = out
			cp.Closing = nil
		}
		cp.Opening = detachTransition(cp.Opening, cp.Length())
		cp.Closing = detachTransition(cp.Closing, cp.Length())
		copies = append(copies, cp)
	}
	if len(copies) == 0 {
		return false, nil
	}

	first := copies[0].In
	ids := make(map[timeline.ClipID]bool, len(copies))
	for _, c := range copies {
		if c.In < first {
			first = c.In
		}
		ids[c.ID] = true
	}
	for _, c := range copies {
		c.In -= first
		c.Out -= first
		c.Links = slices.DeleteFunc(c.Links, func(id timeline.ClipID) bool { return !ids[id] })
	}

	cb := ctx.clipboard()
	*cb = Clipboard{Kind: ClipboardClips, Clips: copies, FrameRate: seq.FrameRate}
	ctx.logger().Debug("copied clips", "clips", len(copies), "span", cb.Span())
	return true, nil
}

func detachTransition(t *timeline.Transition, room int64) *timeline.Transition {
	if t == nil {
		return nil
	}
	t.Secondary = 0
	if t.Length > room {
		t.Length = room
	}
	if t.Length <= 0 {
		return nil
	}
	return t
}

// Cut copies the selection and deletes it.
func Cut(ctx *Context, sels []timeline.Selection, ripple bool) (bool, error) {
	ok, err := Copy(ctx, sels)
	if !ok || err != nil {
		return false, err
	}
	return DeleteSelection(ctx, sels, ripple)
}

func (ctx *Context) clipboard() *Clipboard {
	if ctx.Clipboard == nil {
		ctx.Clipboard = &Clipboard{}
	}
	return ctx.Clipboard
}

// pastedClips builds fresh clips from the clipboard, converted to the
// sequence frame rate and offset to start at frame.
func pastedClips(cb *Clipboard, seq *timeline.Sequence, frame int64) []*timeline.Clip {
	src, dst := cb.FrameRate, seq.FrameRate
	ids := make(map[timeline.ClipID]timeline.ClipID, len(cb.Clips))
	out := make([]*timeline.Clip, 0, len(cb.Clips))
	for _, c := range cb.Clips {
		p := c.Duplicate()
		ids[c.ID] = p.ID
		p.In = media.RefactorFrameNumber(c.In, src, dst) + frame
		p.Out = media.RefactorFrameNumber(c.Out, src, dst) + frame
		// Audio and still offsets are counted in the sequence rate.
		if !c.IsVideo() || media.IsImage(c.Media) {
			p.ClipIn = media.RefactorFrameNumber(c.ClipIn, src, dst)
		}
		for _, t := range []*timeline.Transition{p.Opening, p.Closing} {
			if t != nil {
				t.Length = min(media.RefactorFrameNumber(t.Length, src, dst), p.Length())
			}
		}
		if p.Opening != nil && p.Opening.Length <= 0 {
			p.Opening = nil
		}
		if p.Closing != nil && p.Closing.Length <= 0 {
			p.Closing = nil
		}
		out = append(out, p)
	}
	for _, p := range out {
		links := p.Links[:0]
		for _, l := range p.Links {
			if nl, ok := ids[l]; ok {
				links = append(links, nl)
			}
		}
		p.Links = links
	}
	return out
}

// Paste places the clipboard clips at the playhead. In insert mode clips
// under the playhead are split and everything after it moves right to make
// room; otherwise the pasted clips overwrite whatever they land on.
func Paste(ctx *Context, insert bool) (bool, error) {
	cb := ctx.clipboard()
	if cb.Kind != ClipboardClips || len(cb.Clips) == 0 {
		return false, ErrNothingToPaste
	}
	seq := ctx.Sequence
	at := seq.Playhead
	b := ctx.batch("paste")

	var clips []*timeline.Clip
	for _, p := range pastedClips(cb, seq, at) {
		if seq.IsTrackLocked(p.Track) {
			ctx.logger().Warn("not pasting onto locked track", "track", timeline.TrackName(p.Track))
			continue
		}
		clips = append(clips, p)
	}
	if len(clips) == 0 {
		return false, nil
	}
	var end int64
	for _, p := range clips {
		end = max(end, p.Out)
	}

	if insert {
		splitAllClipsAtPoint(b, at)
		addRipple(b, at, end-at)
	} else {
		areas := make([]timeline.Selection, 0, len(clips))
		for _, p := range clips {
			areas = append(areas, timeline.SelectionOf(p))
		}
		ctx.deleteAreas(b, areas, nil)
	}
	b.Add(&AddClips{Clips: clips})

	if !ctx.commit(b) {
		return false, nil
	}
	if ctx.Config.PasteSeeks {
		ctx.seek(end)
	}
	return true, nil
}

// CopyEffects places copies of a clip's effects on the clipboard.
func CopyEffects(ctx *Context, id timeline.ClipID) (bool, error) {
	c := ctx.Sequence.Clip(id)
	if c == nil {
		return false, fmt.Errorf("copy effects: %w: %d", ErrNoClip, id)
	}
	if len(c.Effects) == 0 {
		return false, nil
	}
	cb := ctx.clipboard()
	*cb = Clipboard{Kind: ClipboardEffects, Effects: effects.CopyAll(c.Effects), Video: c.IsVideo()}
	return true, nil
}

type ConflictAction int

const (
	// AddAlongside keeps the existing effect and adds the pasted one.
	AddAlongside ConflictAction = iota
	Replace
	Skip
)

// Resolution answers an effect name collision. With ApplyToAll the answer is
// reused for every later collision in the same paste.
type Resolution struct {
	Action     ConflictAction
	ApplyToAll bool
}

// ConflictResolver decides what to do when clip already carries an effect
// with the same id as incoming.
type ConflictResolver func(clip *timeline.Clip, existing, incoming effects.Effect) Resolution

// PasteEffects adds the clipboard effects to every clip in ids of the same
// kind the effects were copied from. A nil resolver adds alongside.
func PasteEffects(ctx *Context, ids []timeline.ClipID, resolve ConflictResolver) (bool, error) {
	cb := ctx.clipboard()
	if cb.Kind != ClipboardEffects || len(cb.Effects) == 0 {
		return false, ErrNothingToPaste
	}
	b := ctx.batch("paste effects")
	var remembered *Resolution
	for _, id := range ids {
		c := ctx.Sequence.Clip(id)
		if c == nil {
			continue
		}
		if c.IsVideo() != cb.Video {
			ctx.logger().Warn("effects do not match clip type", "clip", c.ID)
			continue
		}
		stack := effects.CopyAll(c.Effects)
		changed := false
		for _, in := range cb.Effects {
			i := slices.IndexFunc(stack, func(e effects.Effect) bool { return e.ID == in.ID })
			if i < 0 {
				stack = append(stack, in.Copy())
				changed = true
				continue
			}
			r := Resolution{Action: AddAlongside}
			switch {
			case remembered != nil:
				r = *remembered
			case resolve != nil:
				r = resolve(c, stack[i], in)
				if r.ApplyToAll {
					remembered = &r
				}
			}
			switch r.Action {
			case AddAlongside:
				stack = append(stack, in.Copy())
				changed = true
			case Replace:
				stack[i] = in.Copy()
				changed = true
			}
		}
		if changed {
			b.Add(&SetEffects{ID: c.ID, Effects: stack})
		}
	}
	return ctx.commit(b), nil
}
