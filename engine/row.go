package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// maxSummarySignals is how many decoded signals the condensed row summary
// shows before truncating with a marker.
const maxSummarySignals = 2

// Row is one renderable table line. Rows are derived and ephemeral: they
// can always be rebuilt from the frame plus the decoder, which is what
// makes cache eviction safe.
type Row struct {
	Seq       int // 1-based display sequence number; 0 means not yet materialized
	Timestamp string
	Channel   string
	ID        string
	Dir       Direction
	Length    int
	Data      string
	Signals   string
}

// Valid reports whether the row has been materialized.
func (r Row) Valid() bool {
	return r.Seq > 0
}

// FormatID renders an arbitration ID in canonical hex form, zero-padded
// to at least three digits.
func FormatID(id uint32) string {
	return fmt.Sprintf("0x%03X", id)
}

// FormatData renders a payload as space-separated uppercase hex pairs.
func FormatData(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(data) * 3)
	for i, v := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		const hexDigits = "0123456789ABCDEF"
		b.WriteByte(hexDigits[v>>4])
		b.WriteByte(hexDigits[v&0x0F])
	}
	return b.String()
}

// MaterializeRow transforms a frame into a renderable row. It is a pure
// function of its inputs and touches no UI state, so the background
// preparer can call it freely.
func MaterializeRow(displayIndex int, f *Frame, tf *TimestampFormatter, dec SignalDecoder) Row {
	return Row{
		Seq:       displayIndex + 1,
		Timestamp: tf.FormatValue(f.Timestamp),
		Channel:   strconv.Itoa(int(f.Channel)),
		ID:        FormatID(f.ID),
		Dir:       f.Dir,
		Length:    f.Length(),
		Data:      FormatData(f.Data),
		Signals:   signalSummary(f, dec),
	}
}

// signalSummary produces the condensed signal column. A missing definition
// or a decoder failure yields an empty summary for this row only.
func signalSummary(f *Frame, dec SignalDecoder) (summary string) {
	if dec == nil {
		return ""
	}

	// a misbehaving decoder must not take the whole batch down
	defer func() {
		if recover() != nil {
			summary = ""
		}
	}()

	return dec.Decode(f).Summary(maxSummarySignals)
}
