package engine

import "testing"

func TestScrollFractionBounds(t *testing.T) {
	if got := ScrollFraction(0, 100); got != 0 {
		t.Errorf("expected 0 at top, got %f", got)
	}
	if got := ScrollFraction(99, 100); got != 1 {
		t.Errorf("expected 1 at bottom, got %f", got)
	}
	if got := ScrollFraction(-5, 100); got != 0 {
		t.Errorf("expected clamp to 0, got %f", got)
	}
	if got := ScrollFraction(200, 100); got != 1 {
		t.Errorf("expected clamp to 1, got %f", got)
	}
	if got := ScrollFraction(5, 1); got != 0 {
		t.Errorf("single-row table should pin to 0, got %f", got)
	}
	if got := ScrollFraction(0, 0); got != 0 {
		t.Errorf("empty table should pin to 0, got %f", got)
	}
}

func TestLogicalIndexBounds(t *testing.T) {
	if got := LogicalIndex(0, 100); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := LogicalIndex(1, 100); got != 99 {
		t.Errorf("expected 99, got %d", got)
	}
	if got := LogicalIndex(-0.3, 100); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
	if got := LogicalIndex(1.7, 100); got != 99 {
		t.Errorf("expected clamp to 99, got %d", got)
	}
	if got := LogicalIndex(0.5, 0); got != 0 {
		t.Errorf("empty table should yield 0, got %d", got)
	}
}

// round-tripping an index through the fraction must land within one row
// for any realistic table size
func TestPositionRoundTrip(t *testing.T) {
	counts := []int{2, 10, 9999, 10000, 15000, 1000000}

	for _, count := range counts {
		indices := []int{0, 1, count / 3, count / 2, count - 2, count - 1}
		for _, idx := range indices {
			if idx < 0 || idx >= count {
				continue
			}
			back := LogicalIndex(ScrollFraction(idx, count), count)
			diff := back - idx
			if diff < -1 || diff > 1 {
				t.Errorf("count=%d idx=%d round-tripped to %d", count, idx, back)
			}
		}
	}
}
