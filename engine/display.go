package engine

// DisplaySequence is the ordered list of frame store indices passing the
// active filter, with an O(1) reverse map from store index to display
// position. It is rebuilt wholesale on every generation change.
type DisplaySequence struct {
	indices []int
	byFrame map[int]int
}

// BuildDisplaySequence evaluates the filter snapshot against every frame
// in store order. A nil or inactive config selects everything.
func BuildDisplaySequence(store *FrameStore, cfg *FilterConfig) *DisplaySequence {
	n := store.Len()
	seq := &DisplaySequence{
		indices: make([]int, 0, n),
		byFrame: make(map[int]int, n),
	}

	filtered := cfg != nil && cfg.IsActive()
	for i := 0; i < n; i++ {
		if filtered && !cfg.Matches(store.At(i)) {
			continue
		}
		seq.byFrame[i] = len(seq.indices)
		seq.indices = append(seq.indices, i)
	}

	return seq
}

// Len returns the number of displayed frames.
func (d *DisplaySequence) Len() int {
	return len(d.indices)
}

// FrameIndex maps a display position to its frame store index.
func (d *DisplaySequence) FrameIndex(pos int) int {
	return d.indices[pos]
}

// PositionOf maps a frame store index to its display position.
func (d *DisplaySequence) PositionOf(frameIndex int) (int, bool) {
	pos, ok := d.byFrame[frameIndex]
	return pos, ok
}

// Indices returns the backing slice of frame store indices. Callers must
// not mutate it.
func (d *DisplaySequence) Indices() []int {
	return d.indices
}
