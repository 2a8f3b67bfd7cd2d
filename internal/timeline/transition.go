package timeline

// Side names the clip boundary a transition is anchored to.
type Side int

const (
	Opening Side = iota
	Closing
)

func (s Side) String() string {
	if s == Closing {
		return "closing"
	}
	return "opening"
}

// Transition is owned by exactly one clip. When Secondary is set the
// transition straddles the boundary with the adjacent clip: an opening
// transition extends Length frames back into the previous clip, a closing
// transition extends Length frames forward into the next one.
type Transition struct {
	EffectID  string `json:"effect_id"`
	Length    int64  `json:"length"`
	Secondary ClipID `json:"secondary,omitempty"`
}

func (t *Transition) Shared() bool { return t != nil && t.Secondary != 0 }

// TrueLength is the number of timeline frames the transition covers.
func (t *Transition) TrueLength() int64 {
	if t.Shared() {
		return t.Length * 2
	}
	return t.Length
}

func (t *Transition) Copy() *Transition {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// TransitionRef addresses a transition through its owning clip.
type TransitionRef struct {
	Clip ClipID
	Side Side
}

// TransitionSpan returns the timeline range covered by c's transition on side.
func TransitionSpan(c *Clip, side Side) (Selection, bool) {
	t := c.Transition(side)
	if t == nil {
		return Selection{}, false
	}
	s := Selection{Track: c.Track}
	if side == Opening {
		s.In = c.In
		if t.Shared() {
			s.In -= t.Length
		}
		s.Out = c.In + t.Length
	} else {
		s.In = c.Out - t.Length
		s.Out = c.Out
		if t.Shared() {
			s.Out += t.Length
		}
	}
	return s, true
}

// SelectionContainsTransition reports whether s targets exactly the span of
// c's transition on side rather than the clip body.
func SelectionContainsTransition(s Selection, c *Clip, side Side) bool {
	span, ok := TransitionSpan(c, side)
	if !ok {
		return false
	}
	return span == s
}
