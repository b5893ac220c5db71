package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// CSVExporter writes the displayed frames as CSV. When a decoder is set,
// a message-name and signal-summary column pair is appended.
type CSVExporter struct {
	Decoder   SignalDecoder
	Formatter *TimestampFormatter
}

func (e *CSVExporter) Export(w io.Writer, store *FrameStore, indices []int) error {
	cw := csv.NewWriter(w)

	header := []string{"seq", "timestamp", "channel", "id", "direction", "length", "data"}
	if e.Decoder != nil {
		header = append(header, "message", "signals")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv export: writing header: %w", err)
	}

	tf := e.Formatter
	if tf == nil {
		tf = NewTimestampFormatter(FormatRaw)
	}

	for seq, idx := range indices {
		f := store.At(idx)
		record := []string{
			strconv.Itoa(seq + 1),
			tf.FormatValue(f.Timestamp),
			strconv.Itoa(int(f.Channel)),
			FormatID(f.ID),
			f.Dir.String(),
			strconv.Itoa(f.Length()),
			FormatData(f.Data),
		}

		if e.Decoder != nil {
			name, signals := "", ""
			if decoded := e.Decoder.Decode(f); decoded != nil {
				name = decoded.Name
				signals = decoded.Summary(len(decoded.Signals))
			}
			record = append(record, name, signals)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv export: writing row %d: %w", seq+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	return nil
}

// jsonFrame is the export shape of one frame.
type jsonFrame struct {
	Seq       int             `json:"seq"`
	Timestamp float64         `json:"timestamp"`
	Channel   uint16          `json:"channel"`
	ID        string          `json:"id"`
	Direction string          `json:"direction"`
	Length    int             `json:"length"`
	Data      string          `json:"data"`
	Message   string          `json:"message,omitempty"`
	Signals   []jsonSignal    `json:"signals,omitempty"`
}

type jsonSignal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Raw   uint64  `json:"raw"`
}

// JSONExporter writes the displayed frames as a JSON array, with full
// decoded signal detail when a decoder is set.
type JSONExporter struct {
	Decoder SignalDecoder
	Indent  bool
}

func (e *JSONExporter) Export(w io.Writer, store *FrameStore, indices []int) error {
	out := make([]jsonFrame, 0, len(indices))

	for seq, idx := range indices {
		f := store.At(idx)
		jf := jsonFrame{
			Seq:       seq + 1,
			Timestamp: f.Timestamp,
			Channel:   f.Channel,
			ID:        FormatID(f.ID),
			Direction: f.Dir.String(),
			Length:    f.Length(),
			Data:      FormatData(f.Data),
		}

		if e.Decoder != nil {
			if decoded := e.Decoder.Decode(f); decoded != nil {
				jf.Message = decoded.Name
				for _, sv := range decoded.Signals {
					jf.Signals = append(jf.Signals, jsonSignal{
						Name:  sv.Name,
						Value: sv.Value,
						Unit:  sv.Unit,
						Raw:   sv.Raw,
					})
				}
			}
		}

		out = append(out, jf)
	}

	enc := json.NewEncoder(w)
	if e.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("json export: %w", err)
	}
	return nil
}
