package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Load error taxonomy. A failed load never partially replaces an existing
// store; callers keep whatever they had.
var (
	ErrNotFound      = errors.New("capture file not found")
	ErrFormatInvalid = errors.New("unsupported or corrupt capture format")
	ErrIOFailure     = errors.New("capture read failure")
)

// SourceFor selects a frame source by file extension.
func SourceFor(path string) (FrameSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc":
		return NewASCSource(), nil
	case ".log", ".candump":
		return NewCandumpSource(), nil
	case ".blf":
		return nil, fmt.Errorf("%w: BLF binary logs are not supported, convert to ASC", ErrFormatInvalid)
	default:
		return nil, fmt.Errorf("%w: unrecognized extension %q", ErrFormatInvalid, filepath.Ext(path))
	}
}

// LoadFile picks a source for the path and parses it.
func LoadFile(path string) (*FrameStore, error) {
	source, err := SourceFor(path)
	if err != nil {
		return nil, err
	}
	return source.Parse(path)
}
