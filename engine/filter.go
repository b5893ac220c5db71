package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// IDFilterMode controls whether the ID set includes or excludes.
type IDFilterMode int

const (
	IncludeIDs IDFilterMode = iota
	ExcludeIDs
)

func (m IDFilterMode) String() string {
	if m == ExcludeIDs {
		return "exclude"
	}
	return "include"
}

// FilterConfig holds the independently enableable sub-criteria applied to
// frames. The engine treats a config as an immutable snapshot per
// recomputation; callers mutate their own copy and call SetFilter again.
type FilterConfig struct {
	FilterByID bool
	IDs        map[uint32]struct{}
	IDMode     IDFilterMode

	FilterByDirection bool
	ShowRx            bool
	ShowTx            bool

	FilterByTime bool
	TimeStart    float64
	TimeEnd      float64

	FilterByLength bool
	LengthMin      int
	LengthMax      int
}

// NewFilterConfig returns a config with every criterion disabled.
func NewFilterConfig() *FilterConfig {
	return &FilterConfig{
		IDs:       make(map[uint32]struct{}),
		ShowRx:    true,
		ShowTx:    true,
		TimeEnd:   999999.0,
		LengthMax: 8,
	}
}

// Clone returns an independent snapshot of the config.
func (c *FilterConfig) Clone() *FilterConfig {
	cp := *c
	cp.IDs = make(map[uint32]struct{}, len(c.IDs))
	for id := range c.IDs {
		cp.IDs[id] = struct{}{}
	}
	return &cp
}

// Matches reports whether the frame passes every enabled sub-criterion.
// A disabled criterion always passes.
func (c *FilterConfig) Matches(f *Frame) bool {
	if c.FilterByID {
		_, inSet := c.IDs[f.ID]
		if c.IDMode == IncludeIDs && !inSet {
			return false
		}
		if c.IDMode == ExcludeIDs && inSet {
			return false
		}
	}

	if c.FilterByDirection {
		if f.Dir == DirRx && !c.ShowRx {
			return false
		}
		if f.Dir == DirTx && !c.ShowTx {
			return false
		}
	}

	if c.FilterByTime {
		if f.Timestamp < c.TimeStart || f.Timestamp > c.TimeEnd {
			return false
		}
	}

	if c.FilterByLength {
		if f.Length() < c.LengthMin || f.Length() > c.LengthMax {
			return false
		}
	}

	return true
}

// IsActive reports whether any sub-criterion is enabled.
func (c *FilterConfig) IsActive() bool {
	return c.FilterByID || c.FilterByDirection || c.FilterByTime || c.FilterByLength
}

// Describe renders the enabled criteria in a stable order:
// ID, direction, time, length.
func (c *FilterConfig) Describe() string {
	if !c.IsActive() {
		return "no filter"
	}

	var parts []string

	if c.FilterByID {
		parts = append(parts, fmt.Sprintf("ID %s: %d", c.IDMode, len(c.IDs)))
	}

	if c.FilterByDirection {
		var dirs []string
		if c.ShowRx {
			dirs = append(dirs, "Rx")
		}
		if c.ShowTx {
			dirs = append(dirs, "Tx")
		}
		parts = append(parts, "dir: "+strings.Join(dirs, "/"))
	}

	if c.FilterByTime {
		parts = append(parts, fmt.Sprintf("time: %.3fs-%.3fs", c.TimeStart, c.TimeEnd))
	}

	if c.FilterByLength {
		parts = append(parts, fmt.Sprintf("len: %d-%d", c.LengthMin, c.LengthMax))
	}

	return strings.Join(parts, " | ")
}

// ParseIDList parses a comma or whitespace separated list of CAN IDs in
// hex (with or without 0x prefix) or decimal. Malformed entries are
// skipped individually; the rest of the input still applies. The returned
// count is the number of entries skipped.
func ParseIDList(text string) (map[uint32]struct{}, int) {
	ids := make(map[uint32]struct{})
	skipped := 0

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})

	for _, field := range fields {
		id, err := parseCANID(field)
		if err != nil {
			skipped++
			continue
		}
		ids[id] = struct{}{}
	}

	return ids, skipped
}

func parseCANID(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	} else if strings.ContainsAny(s, "abcdefABCDEF") {
		// bare hex like "1A3"
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid CAN ID %q: %w", s, err)
	}
	return uint32(v), nil
}
