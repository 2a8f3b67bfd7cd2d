// Package viewer defines the notifications the edit engine sends to whatever
// displays a sequence.
package viewer

import "sync"

// Sink is told when the displayed frame must move or be redrawn. Calls must
// not block on decoding.
type Sink interface {
	Seek(frame int64)
	Refresh()
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Seek(int64) {}
func (Nop) Refresh()   {}

// Multi fans notifications out to several sinks.
type Multi struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Add(s Sink) {
	m.mu.Lock()
	m.sinks = append(m.sinks, s)
	m.mu.Unlock()
}

func (m *Multi) Seek(frame int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sinks {
		s.Seek(frame)
	}
}

func (m *Multi) Refresh() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sinks {
		s.Refresh()
	}
}

// Recorder remembers the notifications it received.
type Recorder struct {
	mu        sync.Mutex
	Seeks     []int64
	Refreshes int
}

func (r *Recorder) Seek(frame int64) {
	r.mu.Lock()
	r.Seeks = append(r.Seeks, frame)
	r.mu.Unlock()
}

func (r *Recorder) Refresh() {
	r.mu.Lock()
	r.Refreshes++
	r.mu.Unlock()
}

// LastSeek returns the most recent seek target.
func (r *Recorder) LastSeek() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Seeks) == 0 {
		return 0, false
	}
	return r.Seeks[len(r.Seeks)-1], true
}

func (r *Recorder) RefreshCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Refreshes
}
