package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatID(t *testing.T) {
	assert.Equal(t, "0x000", FormatID(0))
	assert.Equal(t, "0x07F", FormatID(0x7F))
	assert.Equal(t, "0x123", FormatID(0x123))
	assert.Equal(t, "0x18FF0102", FormatID(0x18FF0102))
}

func TestFormatData(t *testing.T) {
	assert.Equal(t, "", FormatData(nil))
	assert.Equal(t, "DE AD BE EF", FormatData([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
	assert.Equal(t, "00", FormatData([]byte{0}))
}

func TestMaterializeRow(t *testing.T) {
	f := &Frame{
		Timestamp: 1.5,
		ID:        0x2A0,
		Dir:       DirTx,
		Channel:   2,
		Data:      []byte{0x01, 0x02},
	}
	tf := NewTimestampFormatter(FormatRaw)

	row := MaterializeRow(41, f, tf, stubDecoder{})

	assert.True(t, row.Valid())
	assert.Equal(t, 42, row.Seq) // display sequence numbers are 1-based
	assert.Equal(t, "1.500000", row.Timestamp)
	assert.Equal(t, "2", row.Channel)
	assert.Equal(t, "0x2A0", row.ID)
	assert.Equal(t, DirTx, row.Dir)
	assert.Equal(t, 2, row.Length)
	assert.Equal(t, "01 02", row.Data)
	assert.Equal(t, "Counter: 2 count", row.Signals)
}

func TestMaterializeRowNoDecoder(t *testing.T) {
	f := &Frame{ID: 0x100, Data: []byte{1}}
	row := MaterializeRow(0, f, NewTimestampFormatter(FormatRaw), nil)

	assert.True(t, row.Valid())
	assert.Empty(t, row.Signals)
}

func TestMaterializeRowDecoderPanicIsolated(t *testing.T) {
	f := &Frame{ID: 0x100, Data: []byte{1}}

	// a misbehaving decoder only blanks the signal column
	row := MaterializeRow(0, f, NewTimestampFormatter(FormatRaw), panicDecoder{})
	assert.True(t, row.Valid())
	assert.Empty(t, row.Signals)
}

func TestRowZeroValueIsPending(t *testing.T) {
	var row Row
	assert.False(t, row.Valid())
}

func TestDecodedMessageSummaryTruncation(t *testing.T) {
	d := &DecodedMessage{
		Name: "Engine",
		Signals: []SignalValue{
			{Name: "RPM", Value: 2200, Unit: "rpm"},
			{Name: "Temp", Value: 85.5, Unit: "C"},
			{Name: "Load", Value: 40},
			{Name: "Throttle", Value: 12},
		},
	}

	assert.Equal(t, "RPM: 2200 rpm, Temp: 85.50 C, ... (+2)", d.Summary(2))
	assert.Equal(t, "RPM: 2200 rpm, Temp: 85.50 C, Load: 40, Throttle: 12", d.Summary(0))

	var nilMsg *DecodedMessage
	assert.Empty(t, nilMsg.Summary(2))
}
