package engine

import (
	"strings"
	"sync"
)

// SessionOption configures a TableSession.
type SessionOption func(*TableSession)

// WithDecoder attaches a signal decoder used during materialization.
func WithDecoder(dec SignalDecoder) SessionOption {
	return func(s *TableSession) { s.decoder = dec }
}

// WithTimestampFormat sets the initial timestamp display mode.
func WithTimestampFormat(mode TimestampFormat) SessionOption {
	return func(s *TableSession) { s.formatter.SetFormat(mode) }
}

// WithCacheSize overrides the row cache bound.
func WithCacheSize(n int) SessionOption {
	return func(s *TableSession) { s.cacheSize = n }
}

// TableSession is the explicit session state for one loaded dataset: the
// frame store, the active filter, the derived display sequence, the load
// strategy, the sliding window and the row cache all live here. There is
// a single active session at a time; every SetMessages/SetFilter bumps the
// generation counter, which is the only cancellation mechanism background
// deliveries need.
type TableSession struct {
	// mu guards the generation counter and cache handle swap only; it is
	// never held across materialization work.
	mu         sync.Mutex
	generation uint64

	store     *FrameStore
	filter    *FilterConfig
	seq       *DisplaySequence
	strategy  LoadStrategy
	window    *WindowManager
	cache     RowCache
	cacheSize int
	formatter *TimestampFormatter
	decoder   SignalDecoder
	preparer  *Preparer

	// range exposed by the slide in flight, [2]int{start,end}
	pendingSlide [2]int
}

// NewTableSession creates an empty session. Load data with SetMessages.
func NewTableSession(opts ...SessionOption) *TableSession {
	s := &TableSession{
		filter:    NewFilterConfig(),
		window:    NewWindowManager(),
		formatter: NewTimestampFormatter(FormatRaw),
		preparer:  NewPreparer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = NewLRUCache(s.cacheSize)
	return s
}

// SetMessages replaces the dataset. All window and cache state from the
// previous dataset is discarded unconditionally.
func (s *TableSession) SetMessages(store *FrameStore) {
	s.store = store
	if store != nil {
		s.formatter.SetStartTime(store.Stats().TimeStart)
	}
	s.rebuild()
}

// SetFilter applies a snapshot of the filter config and recomputes the
// display sequence.
func (s *TableSession) SetFilter(cfg *FilterConfig) {
	if cfg == nil {
		cfg = NewFilterConfig()
	}
	s.filter = cfg.Clone()
	s.rebuild()
}

// SetTimestampFormat switches the timestamp column rendering. Rows are
// derived data, so this is just another generation bump.
func (s *TableSession) SetTimestampFormat(mode TimestampFormat) {
	s.formatter.SetFormat(mode)
	s.rebuild()
}

// rebuild recomputes everything derived from (store, filter): display
// sequence, strategy, window, cache, and the preparer snapshot.
func (s *TableSession) rebuild() {
	if s.store == nil {
		s.store = NewFrameStore(nil, LoadStats{})
	}

	seq := BuildDisplaySequence(s.store, s.filter)
	cache := NewLRUCache(s.cacheSize)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.seq = seq
	s.cache = cache
	s.mu.Unlock()

	s.window.Reset()
	s.pendingSlide = [2]int{0, 0}
	s.strategy = SelectStrategy(seq.Len())

	s.preparer.SetData(gen, s.store, seq, s.formatter, s.decoder)

	if seq.Len() == 0 {
		return
	}

	if s.strategy == SlidingWindow {
		start, length := s.window.Initialize(seq.Len())
		s.preparer.Request(start, start+length)
	} else {
		s.preparer.Request(0, seq.Len())
	}
}

// Generation returns the current dataset generation.
func (s *TableSession) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Strategy returns the active load strategy.
func (s *TableSession) Strategy() LoadStrategy { return s.strategy }

// Filter returns a snapshot of the active filter config.
func (s *TableSession) Filter() *FilterConfig { return s.filter.Clone() }

// Formatter exposes the timestamp formatter (read-only use).
func (s *TableSession) Formatter() *TimestampFormatter { return s.formatter }

// Stats returns the load statistics of the current store.
func (s *TableSession) Stats() LoadStats {
	if s.store == nil {
		return LoadStats{}
	}
	return s.store.Stats()
}

// DisplayCount is the total number of frames passing the filter.
func (s *TableSession) DisplayCount() int {
	if s.seq == nil {
		return 0
	}
	return s.seq.Len()
}

// RowCount is the number of rows the table should hold right now: the
// full display count for the batch strategy, the materialized window for
// the sliding strategy.
func (s *TableSession) RowCount() int {
	if s.seq == nil {
		return 0
	}
	if s.strategy == SlidingWindow {
		return s.window.MaterializedCount()
	}
	return s.seq.Len()
}

// WindowStart is the display index of the first materialized row.
func (s *TableSession) WindowStart() int {
	if s.strategy == SlidingWindow {
		return s.window.WindowStart()
	}
	return 0
}

// RowAt returns the materialized row at a table position. A cache miss
// returns an invalid (pending) row and requests the containing chunk in
// the background; the caller renders a placeholder and the delivery
// refreshes it. Scrolling is never blocked on materialization.
func (s *TableSession) RowAt(pos int) Row {
	if s.seq == nil || pos < 0 || pos >= s.RowCount() {
		return Row{}
	}

	logical := s.WindowStart() + pos

	s.mu.Lock()
	cache := s.cache
	s.mu.Unlock()

	if row, ok := cache.Get(logical); ok {
		return row
	}

	// backfill the aligned chunk around the gap
	chunkStart := logical - logical%BatchChunk
	s.preparer.Request(chunkStart, chunkStart+BatchChunk)
	return Row{}
}

// FrameAt returns the frame behind a table position, or nil.
func (s *TableSession) FrameAt(pos int) *Frame {
	if s.seq == nil || pos < 0 || pos >= s.RowCount() {
		return nil
	}
	return s.store.At(s.seq.FrameIndex(s.WindowStart() + pos))
}

// OnScroll feeds a scrollbar fraction into the window manager and issues
// the materialization and preload requests a slide needs.
func (s *TableSession) OnScroll(fraction float64) SlideResult {
	if s.strategy != SlidingWindow {
		return SlideResult{AnchorPos: -1}
	}

	res := s.window.OnScroll(fraction)
	if !res.Slid {
		s.maybePreload(fraction)
		return res
	}

	count := s.window.MaterializedCount()
	var exposed [2]int
	if res.Direction == SlideForward {
		exposed = [2]int{res.NewStart + count - res.Shift, res.NewStart + count}
	} else {
		exposed = [2]int{res.NewStart, res.NewStart + res.Shift}
	}
	s.pendingSlide = exposed

	if s.rangeCached(exposed[0], exposed[1]) {
		// preload already materialized everything the slide exposed
		s.window.FinishSlide()
	} else {
		s.preparer.Request(exposed[0], exposed[1])
	}

	return res
}

// maybePreload requests the next range beyond the window edge once the
// user has consumed 70% of the window in that direction, so the eventual
// slide lands on warm cache.
func (s *TableSession) maybePreload(fraction float64) {
	winStart := s.window.WindowStart()
	winEnd := winStart + s.window.WindowLen()

	if fraction >= preloadThreshold && winEnd < s.seq.Len() {
		end := winEnd + AppendBatch
		if end > s.seq.Len() {
			end = s.seq.Len()
		}
		s.preparer.Request(winEnd, end)
	}

	if fraction <= 1-preloadThreshold && winStart > 0 {
		start := winStart - AppendBatch
		if start < 0 {
			start = 0
		}
		s.preparer.Request(start, winStart)
	}
}

// ScrollTo recenters the view on a logical display index (search results,
// jump-to-frame) and returns the relative table position to select.
func (s *TableSession) ScrollTo(logical int) int {
	if s.seq == nil || s.seq.Len() == 0 {
		return 0
	}
	if logical < 0 {
		logical = 0
	}
	if logical >= s.seq.Len() {
		logical = s.seq.Len() - 1
	}

	if s.strategy != SlidingWindow {
		return logical
	}

	start, moved := s.window.JumpTo(logical)
	if moved {
		s.pendingSlide = [2]int{0, 0}
		// target neighborhood first, then the rest of the window
		near := logical - logical%BatchChunk
		s.preparer.Request(near, near+2*BatchChunk)
		s.preparer.Request(start, start+s.window.MaterializedCount())
	}
	return logical - start
}

// DisplayedFrameIndices returns a copy of the frame store indices the
// table currently shows (the export-filtered contract).
func (s *TableSession) DisplayedFrameIndices() []int {
	if s.seq == nil {
		return nil
	}
	out := make([]int, s.seq.Len())
	copy(out, s.seq.Indices())
	return out
}

// Deliveries exposes the preparer's result channel; the presentation
// layer turns receives into messages for its event loop.
func (s *TableSession) Deliveries() <-chan RowBatch {
	return s.preparer.Deliveries()
}

// ApplyBatch folds a delivered batch into the row cache. Batches tagged
// with a stale generation are dropped unconditionally; that is the whole
// cancellation protocol. Returns whether the batch was applied.
func (s *TableSession) ApplyBatch(b RowBatch) bool {
	s.mu.Lock()
	if b.Generation != s.generation {
		s.mu.Unlock()
		return false
	}
	cache := s.cache
	s.mu.Unlock()

	for i, row := range b.Rows {
		cache.Put(b.Start+i, row)
	}

	if s.window.Sliding() && s.rangeCached(s.pendingSlide[0], s.pendingSlide[1]) {
		s.window.FinishSlide()
	}

	return true
}

// rangeCached reports whether every row in [start, end) is materialized.
func (s *TableSession) rangeCached(start, end int) bool {
	if end <= start {
		return true
	}
	s.mu.Lock()
	cache := s.cache
	s.mu.Unlock()
	for i := start; i < end; i++ {
		if _, ok := cache.Get(i); !ok {
			return false
		}
	}
	return true
}

// FindNext scans the display sequence for the next frame whose rendered
// identity (hex ID, payload hex, direction) contains the query,
// case-insensitively, starting after fromLogical and wrapping once.
// Returns the logical display index of the match.
func (s *TableSession) FindNext(query string, fromLogical int, forward bool) (int, bool) {
	if s.seq == nil || s.seq.Len() == 0 || query == "" {
		return 0, false
	}

	needle := strings.ToUpper(strings.TrimSpace(query))
	n := s.seq.Len()

	step := 1
	if !forward {
		step = -1
	}

	idx := fromLogical
	for i := 0; i < n; i++ {
		idx += step
		if idx >= n {
			idx = 0
		}
		if idx < 0 {
			idx = n - 1
		}

		f := s.store.At(s.seq.FrameIndex(idx))
		if strings.Contains(strings.ToUpper(FormatID(f.ID)), needle) ||
			strings.Contains(FormatData(f.Data), needle) ||
			strings.Contains(strings.ToUpper(f.Dir.String()), needle) {
			return idx, true
		}
	}

	return 0, false
}

// Close stops the background preparer with a bounded wait.
func (s *TableSession) Close() error {
	return s.preparer.Stop()
}
