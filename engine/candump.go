package engine

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// candumpPattern matches the SocketCAN log format written by candump -l:
//
//	(1650000000.123456) can0 123#DEADBEEF
//	(1650000000.123457) can1 18FF0102#0102030405060708
var candumpPattern = regexp.MustCompile(
	`^\((?P<timestamp>[\d.]+)\)\s+` +
		`(?P<iface>\w+?)(?P<channel>\d*)\s+` +
		`(?P<id>[0-9A-Fa-f]{3,8})#(?P<flags>R?)(?P<data>[0-9A-Fa-f]*)`)

// CandumpSource parses SocketCAN candump log files. Timestamps are
// rebased to the first frame so they read as session-relative seconds,
// matching the ASC convention.
type CandumpSource struct{}

func NewCandumpSource() *CandumpSource {
	return &CandumpSource{}
}

func (p *CandumpSource) Parse(path string) (*FrameStore, error) {
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIOFailure, path, err)
	}
	defer file.Close()

	hash := xxhash.New()
	var frames []Frame
	skipped := 0
	base := -1.0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		hash.WriteString(line)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		frame, ok := parseCandumpLine(trimmed)
		if !ok {
			skipped++
			continue
		}

		if base < 0 {
			base = frame.Timestamp
		}
		frame.Timestamp -= base

		frames = append(frames, frame)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIOFailure, path, err)
	}

	if len(frames) == 0 && skipped > 0 {
		return nil, fmt.Errorf("%w: %s contains no parseable CAN records", ErrFormatInvalid, path)
	}

	stats := LoadStats{
		FilePath:     path,
		FileHash:     fmt.Sprintf("%x", hash.Sum64()),
		SkippedLines: skipped,
		ParseTime:    time.Since(start),
	}

	return NewFrameStore(frames, stats), nil
}

func parseCandumpLine(line string) (Frame, bool) {
	m := candumpPattern.FindStringSubmatch(line)
	if m == nil {
		return Frame{}, false
	}

	groups := make(map[string]string, len(m))
	for i, name := range candumpPattern.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}

	ts, err := strconv.ParseFloat(groups["timestamp"], 64)
	if err != nil {
		return Frame{}, false
	}

	id, err := strconv.ParseUint(groups["id"], 16, 32)
	if err != nil {
		return Frame{}, false
	}

	var channel uint64 = 1
	if groups["channel"] != "" {
		channel, err = strconv.ParseUint(groups["channel"], 10, 16)
		if err != nil {
			return Frame{}, false
		}
		channel++ // can0 is channel 1 in display terms
	}

	var data []byte
	if groups["flags"] != "R" && groups["data"] != "" {
		raw := groups["data"]
		if len(raw)%2 != 0 {
			return Frame{}, false
		}
		data, err = hex.DecodeString(raw)
		if err != nil || len(data) > 64 {
			return Frame{}, false
		}
	}

	// candump logs carry no direction; captures are received traffic
	return Frame{
		Timestamp: ts,
		ID:        uint32(id),
		Dir:       DirRx,
		Channel:   uint16(channel),
		Data:      data,
	}, true
}
