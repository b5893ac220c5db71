package engine

import (
	"fmt"
	"strings"
	"time"
)

// Direction indicates whether a frame was received or transmitted.
type Direction uint8

const (
	DirRx Direction = iota
	DirTx
)

func (d Direction) String() string {
	if d == DirTx {
		return "Tx"
	}
	return "Rx"
}

// ParseDirection converts the textual form found in log files.
func ParseDirection(s string) (Direction, error) {
	switch strings.TrimSpace(s) {
	case "Rx", "rx", "RX":
		return DirRx, nil
	case "Tx", "tx", "TX":
		return DirTx, nil
	}
	return DirRx, fmt.Errorf("unknown direction %q", s)
}

// Frame is one decoded CAN bus record. Frames are created once at parse
// time and never mutated; the FrameStore owns them for the session.
type Frame struct {
	Timestamp float64 // seconds, non-decreasing within a session
	ID        uint32
	Dir       Direction
	Channel   uint16
	Data      []byte // 0..8 classic CAN, 0..64 CAN-FD
}

// Length is the payload length in bytes.
func (f *Frame) Length() int {
	return len(f.Data)
}

func (f *Frame) String() string {
	return fmt.Sprintf("t=%.6f %s %s ch=%d len=%d [%s]",
		f.Timestamp, FormatID(f.ID), f.Dir, f.Channel, f.Length(), FormatData(f.Data))
}

// LoadStats describes one parsed capture file.
type LoadStats struct {
	FilePath     string
	FileHash     string // xxhash of the raw file content
	TotalFrames  int
	SkippedLines int // malformed records dropped by the parser
	TimeStart    float64
	TimeEnd      float64
	UniqueIDs    int
	RxCount      int
	TxCount      int
	ParseTime    time.Duration
}

// Duration is the captured time span in seconds.
func (s LoadStats) Duration() float64 {
	return s.TimeEnd - s.TimeStart
}

// FrameStore is an immutable, insertion-ordered sequence of frames.
// Index i maps to the same frame for the lifetime of the store.
type FrameStore struct {
	frames []Frame
	stats  LoadStats
}

// NewFrameStore builds a store from parsed frames. Aggregate statistics
// not already filled in by the parser are computed here.
func NewFrameStore(frames []Frame, stats LoadStats) *FrameStore {
	stats.TotalFrames = len(frames)

	if len(frames) > 0 {
		stats.TimeStart = frames[0].Timestamp
		stats.TimeEnd = frames[0].Timestamp
	}

	ids := make(map[uint32]struct{})
	stats.RxCount = 0
	stats.TxCount = 0
	for i := range frames {
		f := &frames[i]
		ids[f.ID] = struct{}{}
		if f.Timestamp < stats.TimeStart {
			stats.TimeStart = f.Timestamp
		}
		if f.Timestamp > stats.TimeEnd {
			stats.TimeEnd = f.Timestamp
		}
		if f.Dir == DirRx {
			stats.RxCount++
		} else {
			stats.TxCount++
		}
	}
	stats.UniqueIDs = len(ids)

	return &FrameStore{frames: frames, stats: stats}
}

// Len returns the number of frames in the store.
func (s *FrameStore) Len() int {
	return len(s.frames)
}

// At returns the frame at store index i. The returned pointer must be
// treated as read-only.
func (s *FrameStore) At(i int) *Frame {
	return &s.frames[i]
}

// Stats returns the load statistics captured at parse time.
func (s *FrameStore) Stats() LoadStats {
	return s.stats
}
