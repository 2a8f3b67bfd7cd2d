package cache

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/splicekit/splice/internal/logging"
	"github.com/splicekit/splice/internal/timeline"
)

// Pool runs one Worker per open sequence over a shared Store.
type Pool struct {
	mu       sync.Mutex
	workers  map[string]*Worker
	store    *Store
	decoder  Decoder
	prefetch int
	logger   *slog.Logger
}

func NewPool(store *Store, decoder Decoder, prefetch int, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pool{
		workers:  make(map[string]*Worker),
		store:    store,
		decoder:  decoder,
		prefetch: prefetch,
		logger:   logger,
	}
}

func (p *Pool) Store() *Store { return p.store }

// Attach starts a worker for seq. An existing worker for the same sequence
// is returned unchanged.
func (p *Pool) Attach(ctx context.Context, seq *timeline.Sequence) *Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.workers[seq.ID]; ok {
		return w
	}
	w := NewWorker(seq, p.store, p.decoder, p.prefetch, logging.WithSequenceID(p.logger, seq.ID))
	p.workers[seq.ID] = w
	go w.Start(ctx)
	return w
}

// Detach stops the worker of sequence id.
func (p *Pool) Detach(id string) {
	p.mu.Lock()
	w, ok := p.workers[id]
	delete(p.workers, id)
	p.mu.Unlock()
	if ok {
		w.Close()
	}
}

func (p *Pool) Get(id string) (*Worker, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.workers[id]
	return w, ok
}

// IDs returns the sequences with a running worker.
func (p *Pool) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.workers))
	for id := range p.workers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every worker.
func (p *Pool) Close() {
	p.mu.Lock()
	workers := p.workers
	p.workers = make(map[string]*Worker)
	p.mu.Unlock()
	for _, w := range workers {
		w.Close()
	}
}
