package engine

// LoadStrategy selects how the table materializes rows.
type LoadStrategy int

const (
	// FullBatch materializes every displayed row, incrementally in small
	// chunks so the interactive loop stays responsive during load.
	FullBatch LoadStrategy = iota
	// SlidingWindow keeps only a bounded contiguous sub-range materialized
	// and slides it as the user scrolls near its edges.
	SlidingWindow
)

func (s LoadStrategy) String() string {
	if s == SlidingWindow {
		return "sliding-window"
	}
	return "full-batch"
}

const (
	// SlidingThreshold is the display count at which the sliding window
	// strategy takes over from full batch loading.
	SlidingThreshold = 10000

	// WindowSize is the fixed capacity of the materialized window.
	WindowSize = 15000

	// AppendBatch is how many rows a single slide moves the window.
	AppendBatch = 2000

	// BatchChunk is the delivery granularity for incremental full-batch
	// materialization.
	BatchChunk = 100

	lowScrollThreshold  = 0.05
	highScrollThreshold = 0.95
	preloadThreshold    = 0.70
)

// SelectStrategy picks the strategy for a display sequence of the given
// size. Exactly SlidingThreshold selects the sliding window.
func SelectStrategy(displayCount int) LoadStrategy {
	if displayCount >= SlidingThreshold {
		return SlidingWindow
	}
	return FullBatch
}
