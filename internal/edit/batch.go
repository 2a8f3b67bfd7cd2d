package edit

import "github.com/splicekit/splice/internal/timeline"

// Batch is an ordered list of ops executed and reverted as one undo step.
//
// While a batch is being planned each added op is applied to a private clone
// of the sequence, so later planning steps see the effect of earlier ones.
// The live sequence is only touched by Do and Undo.
type Batch struct {
	seq  *timeline.Sequence
	work *timeline.Sequence
	name string
	ops  []Op
}

func NewBatch(seq *timeline.Sequence, name string) *Batch {
	return &Batch{seq: seq, name: name}
}

func (b *Batch) Name() string { return b.name }

// Work returns the planning view of the sequence with every added op applied.
func (b *Batch) Work() *timeline.Sequence {
	if b.work == nil {
		b.work = b.seq.Clone()
	}
	return b.work
}

// Add applies op to the planning view and queues it.
func (b *Batch) Add(op Op) {
	op.Apply(b.Work())
	b.ops = append(b.ops, op)
}

func (b *Batch) Len() int { return len(b.ops) }

func (b *Batch) Empty() bool { return len(b.ops) == 0 }

// Ops returns the queued op names in order.
func (b *Batch) Ops() []string {
	names := make([]string, len(b.ops))
	for i, op := range b.ops {
		names[i] = op.Name()
	}
	return names
}

func (b *Batch) Do() {
	for _, op := range b.ops {
		op.Apply(b.seq)
	}
	b.work = nil
}

func (b *Batch) Undo() {
	for i := len(b.ops) - 1; i >= 0; i-- {
		b.ops[i].Revert(b.seq)
	}
}
