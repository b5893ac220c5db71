package engine

// WindowState is the lifecycle of the sliding window.
type WindowState int

const (
	WindowUninitialized WindowState = iota
	WindowActive
	WindowSliding
)

// SlideDirection reports which way a slide moved the window.
type SlideDirection int

const (
	SlideNone SlideDirection = iota
	SlideForward
	SlideBackward
)

// SlideResult describes the outcome of a scroll event.
type SlideResult struct {
	Slid      bool
	Direction SlideDirection
	Shift     int // logical rows the window moved, 0 for a clamped no-op
	AnchorPos int // relative row position of the previously viewed row
	NewStart  int // window start after the slide
}

// WindowManager owns the bounded contiguous sub-range of the display
// sequence that is materialized for rendering. The window does not shift
// on every scroll tick; it slides only when the scrollbar approaches an
// edge, which keeps re-materialization off the per-pixel scroll path.
type WindowManager struct {
	state        WindowState
	windowStart  int
	windowLen    int
	displayCount int
	sliding      bool // one slide in flight at a time
}

func NewWindowManager() *WindowManager {
	return &WindowManager{state: WindowUninitialized}
}

// Initialize resets the window to the head of a display sequence of the
// given size. A slide in flight is cancelled.
func (w *WindowManager) Initialize(displayCount int) (start, length int) {
	w.displayCount = displayCount
	w.windowStart = 0
	w.windowLen = WindowSize
	if displayCount < w.windowLen {
		w.windowLen = displayCount
	}
	w.state = WindowActive
	w.sliding = false
	return 0, w.windowLen
}

// Reset returns the manager to the uninitialized state. Called whenever
// the display sequence changes identity.
func (w *WindowManager) Reset() {
	w.state = WindowUninitialized
	w.windowStart = 0
	w.windowLen = 0
	w.displayCount = 0
	w.sliding = false
}

func (w *WindowManager) State() WindowState { return w.state }

func (w *WindowManager) WindowStart() int { return w.windowStart }

func (w *WindowManager) WindowLen() int { return w.windowLen }

// MaterializedCount is the number of rows the window currently covers.
// Invariant: windowStart + MaterializedCount <= displayCount.
func (w *WindowManager) MaterializedCount() int {
	remaining := w.displayCount - w.windowStart
	if remaining < w.windowLen {
		return remaining
	}
	return w.windowLen
}

// Sliding reports whether a slide is in flight.
func (w *WindowManager) Sliding() bool { return w.sliding }

// FinishSlide marks the in-flight slide as materialized, re-enabling
// edge-triggered slides.
func (w *WindowManager) FinishSlide() {
	w.sliding = false
	if w.state == WindowSliding {
		w.state = WindowActive
	}
}

// OnScroll evaluates a scrollbar fraction and slides the window when it
// is near an edge. Scroll events arriving while a slide is in flight are
// ignored, not queued; bound violations clamp silently to no-ops.
func (w *WindowManager) OnScroll(fraction float64) SlideResult {
	if w.state == WindowUninitialized || w.sliding {
		return SlideResult{AnchorPos: -1, NewStart: w.windowStart}
	}

	// the logical row the user is looking at, derived from the fraction
	anchor := w.windowStart + LogicalIndex(fraction, w.MaterializedCount())

	switch {
	case fraction <= lowScrollThreshold && w.windowStart > 0:
		return w.slideBackward(anchor)
	case fraction >= highScrollThreshold && w.windowStart+w.windowLen < w.displayCount:
		return w.slideForward(anchor)
	}

	return SlideResult{AnchorPos: -1, NewStart: w.windowStart}
}

// slideForward drops k rows from the head and exposes k new rows at the
// tail, clamped to the end of the display sequence.
func (w *WindowManager) slideForward(anchorLogical int) SlideResult {
	k := AppendBatch
	if rest := w.displayCount - (w.windowStart + w.windowLen); rest < k {
		k = rest
	}
	if k <= 0 {
		// already at the end
		return SlideResult{AnchorPos: -1, NewStart: w.windowStart}
	}

	w.windowStart += k
	w.state = WindowSliding
	w.sliding = true

	return SlideResult{
		Slid:      true,
		Direction: SlideForward,
		Shift:     k,
		AnchorPos: w.anchorPosition(anchorLogical, SlideForward),
		NewStart:  w.windowStart,
	}
}

// slideBackward is the symmetric move toward the head, clamped at zero.
func (w *WindowManager) slideBackward(anchorLogical int) SlideResult {
	k := AppendBatch
	if w.windowStart < k {
		k = w.windowStart
	}
	if k <= 0 {
		return SlideResult{AnchorPos: -1, NewStart: w.windowStart}
	}

	w.windowStart -= k
	w.state = WindowSliding
	w.sliding = true

	return SlideResult{
		Slid:      true,
		Direction: SlideBackward,
		Shift:     k,
		AnchorPos: w.anchorPosition(anchorLogical, SlideBackward),
		NewStart:  w.windowStart,
	}
}

// anchorPosition recomputes the relative row position of the logical row
// the user was viewing before the slide, so the visually focused row does
// not jump. If the slide evicted that row, the position clamps to the 25%
// (backward) or 75% (forward) point instead of erroring.
func (w *WindowManager) anchorPosition(anchorLogical int, dir SlideDirection) int {
	count := w.MaterializedCount()
	if count == 0 {
		return 0
	}

	rel := anchorLogical - w.windowStart
	if rel >= 0 && rel < count {
		return rel
	}

	if dir == SlideBackward {
		return count / 4
	}
	return (count * 3) / 4
}

// JumpTo recenters the window around a logical index (used by search and
// scroll-to). Returns the new window start and whether the window moved.
// A jump cancels any slide in flight.
func (w *WindowManager) JumpTo(logicalIndex int) (int, bool) {
	if w.state == WindowUninitialized {
		return 0, false
	}

	if logicalIndex < 0 {
		logicalIndex = 0
	}
	if logicalIndex >= w.displayCount {
		logicalIndex = w.displayCount - 1
	}

	// already comfortably inside the window: no move needed
	if logicalIndex >= w.windowStart && logicalIndex < w.windowStart+w.MaterializedCount() {
		w.sliding = false
		w.state = WindowActive
		return w.windowStart, false
	}

	start := logicalIndex - w.windowLen/2
	maxStart := w.displayCount - w.windowLen
	if maxStart < 0 {
		maxStart = 0
	}
	if start > maxStart {
		start = maxStart
	}
	if start < 0 {
		start = 0
	}

	w.windowStart = start
	w.sliding = false
	w.state = WindowActive
	return start, true
}
