package engine

import "math"

// ScrollFraction maps a logical display index to a scrollbar position in
// [0,1], independent of window size. The inverse is LogicalIndex; the two
// round-trip within ±1 of integer rounding.
func ScrollFraction(logicalIndex, displayCount int) float64 {
	if displayCount <= 1 {
		return 0
	}
	if logicalIndex <= 0 {
		return 0
	}
	if logicalIndex >= displayCount-1 {
		return 1
	}
	return float64(logicalIndex) / float64(displayCount-1)
}

// LogicalIndex maps a scrollbar fraction back to a logical display index,
// clamped to valid range.
func LogicalIndex(fraction float64, displayCount int) int {
	if displayCount <= 0 {
		return 0
	}
	if fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return displayCount - 1
	}
	idx := int(math.Round(fraction * float64(displayCount-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > displayCount-1 {
		idx = displayCount - 1
	}
	return idx
}
