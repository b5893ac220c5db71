package engine

import (
	"errors"
	"sync"
	"time"
)

// ErrPreparerStopTimeout is returned when the worker did not drain within
// the bounded wait; the goroutine is detached rather than blocking the
// interactive context.
var ErrPreparerStopTimeout = errors.New("preparer: worker did not stop within bound")

// preparerStopWait bounds how long Stop blocks for the worker to exit.
const preparerStopWait = time.Second

// RowBatch is one completed materialization delivery. Start/End are
// display sequence logical indices, [Start, End).
type RowBatch struct {
	Generation uint64
	Start      int
	End        int
	Rows       []Row
}

type prepareRequest struct {
	generation uint64
	start, end int
}

// prepareSnapshot is everything the worker needs for one generation.
// Swapped wholesale under the mutex; never mutated after publication.
// The formatter is held by value so the interactive side can keep
// mutating its own instance without racing the worker.
type prepareSnapshot struct {
	generation uint64
	store      *FrameStore
	seq        *DisplaySequence
	formatter  TimestampFormatter
	decoder    SignalDecoder
}

// Preparer materializes row ranges on a single background goroutine and
// delivers them to one consumer. Identical in-flight ranges are
// de-duplicated; requests never block the caller. Results carry the
// generation they were produced under so the consumer can drop stale
// deliveries without an explicit cancel message.
type Preparer struct {
	requests   chan prepareRequest
	deliveries chan RowBatch
	quit       chan struct{}
	done       chan struct{}

	mu       sync.Mutex
	snapshot prepareSnapshot
	inflight map[[2]int]uint64
}

// NewPreparer starts the worker goroutine. Callers must Stop it when the
// session closes.
func NewPreparer() *Preparer {
	p := &Preparer{
		requests:   make(chan prepareRequest, 64),
		deliveries: make(chan RowBatch, 16),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		inflight:   make(map[[2]int]uint64),
	}
	go p.run()
	return p
}

// SetData publishes the snapshot for a new generation. Requests queued
// under older generations are dropped by the worker when dequeued.
func (p *Preparer) SetData(generation uint64, store *FrameStore, seq *DisplaySequence,
	formatter *TimestampFormatter, decoder SignalDecoder) {

	var tf TimestampFormatter
	if formatter != nil {
		tf = *formatter
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = prepareSnapshot{
		generation: generation,
		store:      store,
		seq:        seq,
		formatter:  tf,
		decoder:    decoder,
	}
	p.inflight = make(map[[2]int]uint64)
}

// Deliveries is the single consumer channel for completed batches.
func (p *Preparer) Deliveries() <-chan RowBatch {
	return p.deliveries
}

// Request enqueues materialization of [start, end) against the current
// generation. Returns false when the range is already in flight or the
// queue is full; the caller simply re-requests on the next scroll event.
func (p *Preparer) Request(start, end int) bool {
	p.mu.Lock()
	snap := p.snapshot
	if snap.seq == nil {
		p.mu.Unlock()
		return false
	}

	if end > snap.seq.Len() {
		end = snap.seq.Len()
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		p.mu.Unlock()
		return false
	}

	key := [2]int{start, end}
	if gen, ok := p.inflight[key]; ok && gen == snap.generation {
		p.mu.Unlock()
		return false
	}
	p.inflight[key] = snap.generation
	p.mu.Unlock()

	select {
	case p.requests <- prepareRequest{generation: snap.generation, start: start, end: end}:
		return true
	default:
		// queue full: forget the reservation so a retry can land
		p.mu.Lock()
		delete(p.inflight, key)
		p.mu.Unlock()
		return false
	}
}

// Stop terminates the worker, waiting at most preparerStopWait. On
// timeout the worker is abandoned and the error reported.
func (p *Preparer) Stop() error {
	close(p.quit)
	select {
	case <-p.done:
		return nil
	case <-time.After(preparerStopWait):
		return ErrPreparerStopTimeout
	}
}

func (p *Preparer) run() {
	defer close(p.done)

	for {
		select {
		case <-p.quit:
			return
		case req := <-p.requests:
			p.process(req)
		}
	}
}

func (p *Preparer) process(req prepareRequest) {
	p.mu.Lock()
	snap := p.snapshot
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.inflight, [2]int{req.start, req.end})
		p.mu.Unlock()
	}()

	// superseded before we got to it
	if snap.generation != req.generation || snap.seq == nil {
		return
	}

	// deliver in chunks so a huge full-batch range does not hold the
	// consumer back from interactive-sized windows
	for chunkStart := req.start; chunkStart < req.end; chunkStart += BatchChunk {
		chunkEnd := chunkStart + BatchChunk
		if chunkEnd > req.end {
			chunkEnd = req.end
		}

		rows := make([]Row, 0, chunkEnd-chunkStart)
		for i := chunkStart; i < chunkEnd; i++ {
			frame := snap.store.At(snap.seq.FrameIndex(i))
			rows = append(rows, MaterializeRow(i, frame, &snap.formatter, snap.decoder))
		}

		batch := RowBatch{
			Generation: req.generation,
			Start:      chunkStart,
			End:        chunkEnd,
			Rows:       rows,
		}

		select {
		case p.deliveries <- batch:
		case <-p.quit:
			return
		}
	}
}
