package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceForExtensions(t *testing.T) {
	src, err := SourceFor("capture.asc")
	require.NoError(t, err)
	assert.IsType(t, &ASCSource{}, src)

	src, err = SourceFor("CAPTURE.ASC")
	require.NoError(t, err)
	assert.IsType(t, &ASCSource{}, src)

	src, err = SourceFor("dump.log")
	require.NoError(t, err)
	assert.IsType(t, &CandumpSource{}, src)

	src, err = SourceFor("dump.candump")
	require.NoError(t, err)
	assert.IsType(t, &CandumpSource{}, src)
}

func TestSourceForUnsupported(t *testing.T) {
	_, err := SourceFor("capture.blf")
	assert.True(t, errors.Is(err, ErrFormatInvalid))

	_, err = SourceFor("capture.pcap")
	assert.True(t, errors.Is(err, ErrFormatInvalid))

	_, err = SourceFor("capture")
	assert.True(t, errors.Is(err, ErrFormatInvalid))
}

func TestLoadFile(t *testing.T) {
	path := writeTempCapture(t, ".asc", ascFixture)

	store, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, store.Len())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/capture.asc")
	assert.True(t, errors.Is(err, ErrNotFound))
}
