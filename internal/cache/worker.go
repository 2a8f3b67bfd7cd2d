package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/splicekit/splice/internal/logging"
	"github.com/splicekit/splice/internal/media"
	"github.com/splicekit/splice/internal/timeline"
)

// Job is a frame the worker should decode.
type Job struct {
	Key  Key
	Rate float64
}

// Plan returns the source frames on screen for n frames starting at frame,
// taking the topmost enabled video clip at each frame. Duplicate source
// frames, as produced by stills, are listed once.
func Plan(seq *timeline.Sequence, frame int64, n int) []Job {
	var jobs []Job
	seen := make(map[Key]bool)
	for f := max(frame, 0); f < frame+int64(n); f++ {
		c := visibleClip(seq, f)
		if c == nil {
			continue
		}
		footage, ok := c.Media.(*media.Footage)
		if !ok || footage.Path == "" {
			continue
		}
		key := Key{Path: footage.Path, Stream: c.Stream}
		if !footage.IsImage() {
			key.Frame = c.ClipIn + c.SourceOffset(f-c.In, seq.FrameRate)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		jobs = append(jobs, Job{Key: key, Rate: c.MediaFrameRate(seq.FrameRate)})
	}
	return jobs
}

func visibleClip(seq *timeline.Sequence, frame int64) *timeline.Clip {
	for _, c := range seq.ClipsAt(frame) {
		if c.IsVideo() && c.Enabled && seq.IsTrackEnabled(c.Track) {
			return c
		}
	}
	return nil
}

// Worker keeps the frames after the playhead of one sequence decoded. It is a
// viewer sink: Seek and Refresh only replace the pending queue and return,
// and a new request cancels the decode in flight.
//
// Seek and Refresh read the sequence and must be called by whoever
// serialises edits on it. The decode loop never touches the sequence.
type Worker struct {
	seq      *timeline.Sequence
	store    *Store
	decoder  Decoder
	prefetch int
	logger   *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Job
	playhead int64
	cancel   context.CancelFunc
	closed   bool

	running atomic.Bool
	decoded atomic.Int64
}

func NewWorker(seq *timeline.Sequence, store *Store, decoder Decoder, prefetch int, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.Discard()
	}
	if prefetch <= 0 {
		prefetch = 1
	}
	w := &Worker{seq: seq, store: store, decoder: decoder, prefetch: prefetch, logger: logger}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *Worker) Seek(frame int64) {
	w.mu.Lock()
	w.playhead = frame
	w.replan()
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *Worker) Refresh() {
	w.mu.Lock()
	w.replan()
	w.mu.Unlock()
	w.cond.Signal()
}

// replan cancels the decode in flight and queues the uncached frames after
// the playhead. Callers hold w.mu.
func (w *Worker) replan() {
	if w.closed {
		return
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.queue = w.queue[:0]
	for _, j := range Plan(w.seq, w.playhead, w.prefetch) {
		if !w.store.Has(j.Key) {
			w.queue = append(w.queue, j)
		}
	}
}

// Start runs the decode loop until ctx is done or Close is called.
func (w *Worker) Start(ctx context.Context) {
	if w.running.Swap(true) {
		return
	}
	defer w.running.Store(false)

	stop := context.AfterFunc(ctx, w.Close)
	defer stop()

	w.logger.Info("frame cache worker started", "prefetch", w.prefetch)
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if w.closed {
			w.mu.Unlock()
			w.logger.Info("frame cache worker stopped", "decoded", w.decoded.Load())
			return
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		jobCtx, cancel := context.WithCancel(ctx)
		w.cancel = cancel
		w.mu.Unlock()

		w.decode(jobCtx, job)

		w.mu.Lock()
		cancel()
		w.cancel = nil
		w.mu.Unlock()
	}
}

func (w *Worker) decode(ctx context.Context, job Job) {
	if w.store.Has(job.Key) {
		return
	}
	data, err := w.decoder.DecodeFrame(ctx, job.Key, job.Rate)
	switch {
	case err == nil:
		w.store.Put(job.Key, data)
		w.decoded.Add(1)
	case ctx.Err() != nil:
		w.logger.Debug("prefetch superseded", "path", job.Key.Path, "frame", job.Key.Frame)
	default:
		w.logger.Warn("failed to decode frame", "path", job.Key.Path, "frame", job.Key.Frame, "error", err)
	}
}

// Close stops the worker. Pending frames are dropped.
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	w.queue = nil
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()
	w.cond.Broadcast()
}

// Pending returns the number of queued frames.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *Worker) Decoded() int64 { return w.decoded.Load() }

func (w *Worker) IsRunning() bool { return w.running.Load() }

// Frame returns the cached image shown at frame, if it has been decoded.
// Like Seek it reads the sequence.
func (w *Worker) Frame(frame int64) ([]byte, bool) {
	jobs := Plan(w.seq, frame, 1)
	if len(jobs) == 0 {
		return nil, false
	}
	return w.store.Get(jobs[0].Key)
}
