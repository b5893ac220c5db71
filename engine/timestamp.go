package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampFormat selects how raw second values are rendered.
type TimestampFormat int

const (
	FormatRaw TimestampFormat = iota
	FormatSeconds
	FormatMilliseconds
	FormatMicroseconds
	FormatTimeOfDay
	FormatRelative
)

func (f TimestampFormat) String() string {
	switch f {
	case FormatSeconds:
		return "seconds"
	case FormatMilliseconds:
		return "ms"
	case FormatMicroseconds:
		return "us"
	case FormatTimeOfDay:
		return "time"
	case FormatRelative:
		return "relative"
	default:
		return "raw"
	}
}

// Next cycles through the display formats.
func (f TimestampFormat) Next() TimestampFormat {
	if f == FormatRelative {
		return FormatRaw
	}
	return f + 1
}

// TimestampFormatter renders frame timestamps in a pluggable format.
// The zero value formats in RAW mode.
type TimestampFormatter struct {
	mode  TimestampFormat
	start float64   // session start, for relative mode
	base  time.Time // absolute wall clock of t=0, for time-of-day mode
}

func NewTimestampFormatter(mode TimestampFormat) *TimestampFormatter {
	return &TimestampFormatter{mode: mode}
}

func (tf *TimestampFormatter) SetFormat(mode TimestampFormat) { tf.mode = mode }

func (tf *TimestampFormatter) Format() TimestampFormat { return tf.mode }

// SetStartTime sets the reference for relative mode.
func (tf *TimestampFormatter) SetStartTime(start float64) { tf.start = start }

// SetBaseTime sets the wall clock corresponding to t=0 for time-of-day mode.
func (tf *TimestampFormatter) SetBaseTime(base time.Time) { tf.base = base }

// FormatValue renders a raw second value in the active mode.
func (tf *TimestampFormatter) FormatValue(ts float64) string {
	switch tf.mode {
	case FormatSeconds:
		return fmt.Sprintf("%ds", int64(ts))
	case FormatMilliseconds:
		return fmt.Sprintf("%.3fms", ts*1000)
	case FormatMicroseconds:
		return fmt.Sprintf("%.0fus", ts*1e6)
	case FormatTimeOfDay:
		if tf.base.IsZero() {
			return formatDurationClock(ts)
		}
		t := tf.base.Add(time.Duration(ts * float64(time.Second)))
		return t.Format("15:04:05.000")
	case FormatRelative:
		return fmt.Sprintf("%.6fs", ts-tf.start)
	default:
		return strconv.FormatFloat(ts, 'f', 6, 64)
	}
}

// Parse converts a formatted timestamp string back to seconds. RAW output
// round-trips exactly; unit suffixes are honored for the other modes.
func (tf *TimestampFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	switch {
	case strings.HasSuffix(s, "ms"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "ms"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return v / 1000, nil
	case strings.HasSuffix(s, "us"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "us"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return v / 1e6, nil
	case strings.HasSuffix(s, "s") && !strings.Contains(s, ":"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return v, nil
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	// clock form HH:MM:SS.mmm
	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		h, err1 := strconv.ParseFloat(parts[0], 64)
		m, err2 := strconv.ParseFloat(parts[1], 64)
		sec, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 == nil && err2 == nil && err3 == nil {
			return h*3600 + m*60 + sec, nil
		}
	}

	return 0, fmt.Errorf("cannot parse timestamp %q", s)
}

func formatDurationClock(seconds float64) string {
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := seconds - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// trimFloat formats a signal value without trailing noise: integers stay
// integral, everything else keeps two decimals.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
