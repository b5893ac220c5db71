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

// ascMessagePattern matches a Vector ASC data frame line:
//
//	0.010000 1  123  Rx   d 8  00 01 02 03 04 05 06 07
var ascMessagePattern = regexp.MustCompile(
	`^\s*(?P<timestamp>[\d.]+)\s+` +
		`(?P<channel>\d+)\s+` +
		`(?P<id>[0-9A-Fa-f]+x?)\s+` +
		`(?P<dir>Rx|Tx)\s+` +
		`d\s+` +
		`(?P<dlc>\d+)` +
		`(?:\s+(?P<data>[0-9A-Fa-f\s]+))?`)

// ASCSource parses Vector CANalyzer/CANoe ASCII log files.
type ASCSource struct{}

// NewASCSource returns a parser for .asc files.
func NewASCSource() *ASCSource {
	return &ASCSource{}
}

// Parse reads the whole file, preserving arrival order. Malformed message
// lines are skipped individually and counted in LoadStats.SkippedLines;
// the load itself fails only on I/O or an unreadable file.
func (p *ASCSource) Parse(path string) (*FrameStore, error) {
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
	sawMessage := false

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		hash.WriteString(line)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// header and section lines
		if strings.HasPrefix(trimmed, "date") ||
			strings.HasPrefix(trimmed, "base") ||
			strings.HasPrefix(trimmed, "timestamps") ||
			strings.HasPrefix(trimmed, "internal events") ||
			strings.HasPrefix(trimmed, "Begin") ||
			strings.HasPrefix(trimmed, "End") ||
			strings.HasPrefix(trimmed, "//") {
			continue
		}

		frame, ok := parseASCLine(trimmed)
		if !ok {
			skipped++
			continue
		}
		sawMessage = true
		frames = append(frames, frame)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIOFailure, path, err)
	}

	if !sawMessage && skipped > 0 {
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

func parseASCLine(line string) (Frame, bool) {
	m := ascMessagePattern.FindStringSubmatch(line)
	if m == nil {
		return Frame{}, false
	}

	groups := make(map[string]string, len(m))
	for i, name := range ascMessagePattern.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}

	ts, err := strconv.ParseFloat(groups["timestamp"], 64)
	if err != nil {
		return Frame{}, false
	}

	channel, err := strconv.ParseUint(groups["channel"], 10, 16)
	if err != nil {
		return Frame{}, false
	}

	// extended IDs carry an 'x' suffix in ASC files
	idText := strings.TrimSuffix(groups["id"], "x")
	id, err := strconv.ParseUint(idText, 16, 32)
	if err != nil {
		return Frame{}, false
	}

	dir, err := ParseDirection(groups["dir"])
	if err != nil {
		return Frame{}, false
	}

	dlc, err := strconv.Atoi(groups["dlc"])
	if err != nil || dlc < 0 || dlc > 64 {
		return Frame{}, false
	}

	var data []byte
	if raw := strings.TrimSpace(groups["data"]); raw != "" {
		data, err = hex.DecodeString(strings.ReplaceAll(raw, " ", ""))
		if err != nil {
			return Frame{}, false
		}
	}
	if len(data) > dlc {
		data = data[:dlc]
	}

	return Frame{
		Timestamp: ts,
		ID:        uint32(id),
		Dir:       dir,
		Channel:   uint16(channel),
		Data:      data,
	}, true
}
