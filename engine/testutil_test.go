package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// makeFrames builds n synthetic frames: 1ms apart, IDs cycling through 16
// arbitration IDs from 0x100, alternating Rx/Tx, 8-byte rolling payloads.
func makeFrames(n int) []Frame {
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		dir := DirRx
		if i%2 == 1 {
			dir = DirTx
		}
		data := make([]byte, 8)
		for j := range data {
			data[j] = byte((i + j) % 256)
		}
		frames = append(frames, Frame{
			Timestamp: float64(i) * 0.001,
			ID:        0x100 + uint32(i%16),
			Dir:       dir,
			Channel:   1,
			Data:      data,
		})
	}
	return frames
}

func makeStore(n int) *FrameStore {
	return NewFrameStore(makeFrames(n), LoadStats{})
}

// writeTempCapture writes raw capture content to a temp file with the
// given extension and returns its path.
func writeTempCapture(t *testing.T, ext, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture"+ext)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write capture fixture: %v", err)
	}
	return path
}

// drainSession applies deliveries until the predicate holds or the
// timeout expires.
func drainSession(t *testing.T, s *TableSession, timeout time.Duration, ready func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !ready() {
		select {
		case batch := <-s.Deliveries():
			s.ApplyBatch(batch)
		case <-deadline:
			t.Fatalf("timed out waiting for deliveries")
		}
	}
}

// stubDecoder decodes every frame to a fixed single-signal message, which
// is enough to verify decoder plumbing without a real database.
type stubDecoder struct{}

func (stubDecoder) Decode(f *Frame) *DecodedMessage {
	return &DecodedMessage{
		Name: fmt.Sprintf("MSG_%03X", f.ID),
		Signals: []SignalValue{
			{Name: "Counter", Value: float64(f.Length()), Unit: "count", Raw: uint64(f.Length())},
		},
	}
}

// panicDecoder always panics; used to verify materialization isolation.
type panicDecoder struct{}

func (panicDecoder) Decode(f *Frame) *DecodedMessage {
	panic("decoder blew up")
}
