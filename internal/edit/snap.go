package edit

import "github.com/splicekit/splice/internal/timeline"

type SnapKind int

const (
	SnapNone SnapKind = iota
	SnapPlayhead
	SnapMarker
	SnapWorkareaIn
	SnapWorkareaOut
	SnapClipIn
	SnapClipOut
	SnapTransition
)

func (k SnapKind) String() string {
	switch k {
	case SnapPlayhead:
		return "playhead"
	case SnapMarker:
		return "marker"
	case SnapWorkareaIn:
		return "workarea_in"
	case SnapWorkareaOut:
		return "workarea_out"
	case SnapClipIn:
		return "clip_in"
	case SnapClipOut:
		return "clip_out"
	case SnapTransition:
		return "transition"
	}
	return "none"
}

// SnapPoint is the frame a position snapped to and what lives there.
type SnapPoint struct {
	Frame int64           `json:"frame"`
	Kind  SnapKind        `json:"-"`
	Clip  timeline.ClipID `json:"clip,omitempty"`
}

type SnapOptions struct {
	// Tolerance is the snap window in frames.
	Tolerance int64
	// Playing disables snapping to the playhead.
	Playing bool
	// Skip lists clips whose boundaries are ignored, normally the ones being dragged.
	Skip map[timeline.ClipID]bool
}

// Snap tests frame against the playhead, the markers, the work area and clip
// boundaries, in that order, and returns the first candidate within the
// tolerance. Order matters, distance does not.
func Snap(seq *timeline.Sequence, frame int64, opts SnapOptions) (SnapPoint, bool) {
	within := func(p int64) bool {
		d := p - frame
		if d < 0 {
			d = -d
		}
		return d <= opts.Tolerance
	}

	if !opts.Playing && within(seq.Playhead) {
		return SnapPoint{Frame: seq.Playhead, Kind: SnapPlayhead}, true
	}
	for _, m := range seq.Markers {
		if within(m.Frame) {
			return SnapPoint{Frame: m.Frame, Kind: SnapMarker}, true
		}
	}
	if wa := seq.Workarea; wa.Using {
		if within(wa.In) {
			return SnapPoint{Frame: wa.In, Kind: SnapWorkareaIn}, true
		}
		if within(wa.Out) {
			return SnapPoint{Frame: wa.Out, Kind: SnapWorkareaOut}, true
		}
	}
	for _, c := range seq.Clips() {
		if opts.Skip[c.ID] {
			continue
		}
		if within(c.In) {
			return SnapPoint{Frame: c.In, Kind: SnapClipIn, Clip: c.ID}, true
		}
		if within(c.Out) {
			return SnapPoint{Frame: c.Out, Kind: SnapClipOut, Clip: c.ID}, true
		}
		if c.Opening != nil {
			if p := c.In + c.Opening.Length; within(p) {
				return SnapPoint{Frame: p, Kind: SnapTransition, Clip: c.ID}, true
			}
		}
		if c.Closing != nil {
			if p := c.Out - c.Closing.Length; within(p) {
				return SnapPoint{Frame: p, Kind: SnapTransition, Clip: c.ID}, true
			}
		}
	}
	return SnapPoint{Frame: frame}, false
}

// SnapFrame snaps frame using the editor settings, with zoom in pixels per
// frame. When snapping is off the frame is returned unchanged.
func SnapFrame(ctx *Context, frame int64, zoom float64, playing bool, skip map[timeline.ClipID]bool) (SnapPoint, bool) {
	if !ctx.Config.Snapping {
		return SnapPoint{Frame: frame}, false
	}
	return Snap(ctx.Sequence, frame, SnapOptions{
		Tolerance: ctx.Config.SnapTolerance(zoom),
		Playing:   playing,
		Skip:      skip,
	})
}
