package engine

import (
	"fmt"
	"io"
	"strings"
)

// FrameSource parses a capture file into an ordered frame sequence.
// Implementations must preserve arrival order and surface a skipped-record
// count through LoadStats rather than silently dropping malformed lines.
type FrameSource interface {
	// Parse reads the file at path and returns a fully built store.
	Parse(path string) (*FrameStore, error)
}

// SignalDecoder decodes a frame payload into named, scaled signal values.
// A nil result means no message definition matched the arbitration ID;
// that is an expected outcome, not an error.
type SignalDecoder interface {
	Decode(f *Frame) *DecodedMessage
}

// SignalValue is one decoded signal in engineering units.
type SignalValue struct {
	Name  string
	Value float64
	Unit  string
	Raw   uint64 // unscaled value as extracted from the payload
}

func (v SignalValue) String() string {
	if v.Unit != "" {
		return v.Name + ": " + trimFloat(v.Value) + " " + v.Unit
	}
	return v.Name + ": " + trimFloat(v.Value)
}

// DecodedMessage is the result of decoding one frame.
type DecodedMessage struct {
	Name    string
	Signals []SignalValue
}

// Summary joins up to max signals into one display string, appending a
// truncation marker when more exist.
func (d *DecodedMessage) Summary(max int) string {
	if d == nil || len(d.Signals) == 0 {
		return ""
	}

	shown := d.Signals
	truncated := false
	if max > 0 && len(shown) > max {
		shown = shown[:max]
		truncated = true
	}

	var b strings.Builder
	for i, sv := range shown {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sv.String())
	}
	if truncated {
		fmt.Fprintf(&b, ", ... (+%d)", len(d.Signals)-max)
	}
	return b.String()
}

// Exporter writes the currently displayed (filtered) frames. The indices
// slice is exactly the display sequence the table shows, never the whole
// store.
type Exporter interface {
	Export(w io.Writer, store *FrameStore, indices []int) error
}

// RowCache caches materialized rows keyed by display sequence logical
// index. Implementations must be bounded.
type RowCache interface {
	Get(index int) (Row, bool)
	Put(index int, row Row)
	Len() int
	Clear()
}
