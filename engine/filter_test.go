package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterDefaultsMatchEverything(t *testing.T) {
	cfg := NewFilterConfig()
	assert.False(t, cfg.IsActive())

	for _, f := range makeFrames(32) {
		assert.True(t, cfg.Matches(&f))
	}
	assert.Equal(t, "no filter", cfg.Describe())
}

func TestFilterByIDInclude(t *testing.T) {
	cfg := NewFilterConfig()
	cfg.FilterByID = true
	cfg.IDs[0x100] = struct{}{}
	cfg.IDs[0x105] = struct{}{}

	matched := 0
	frames := makeFrames(160)
	for i := range frames {
		if cfg.Matches(&frames[i]) {
			matched++
		}
	}
	// 16-ID cycle over 160 frames: 10 frames per ID, two IDs included
	assert.Equal(t, 20, matched)
}

func TestFilterByIDExclude(t *testing.T) {
	cfg := NewFilterConfig()
	cfg.FilterByID = true
	cfg.IDMode = ExcludeIDs
	cfg.IDs[0x100] = struct{}{}

	frames := makeFrames(160)
	for i := range frames {
		if frames[i].ID == 0x100 {
			assert.False(t, cfg.Matches(&frames[i]))
		} else {
			assert.True(t, cfg.Matches(&frames[i]))
		}
	}
}

func TestFilterCriteriaCompose(t *testing.T) {
	// enabled criteria AND together: Tx only, within a time range
	cfg := NewFilterConfig()
	cfg.FilterByDirection = true
	cfg.ShowRx = false
	cfg.FilterByTime = true
	cfg.TimeStart = 0.010
	cfg.TimeEnd = 0.020

	frames := makeFrames(100)
	for i := range frames {
		f := &frames[i]
		want := f.Dir == DirTx && f.Timestamp >= 0.010 && f.Timestamp <= 0.020
		assert.Equal(t, want, cfg.Matches(f), "frame %d", i)
	}
}

func TestFilterByLength(t *testing.T) {
	cfg := NewFilterConfig()
	cfg.FilterByLength = true
	cfg.LengthMin = 2
	cfg.LengthMax = 4

	short := Frame{Data: []byte{1}}
	mid := Frame{Data: []byte{1, 2, 3}}
	long := Frame{Data: []byte{1, 2, 3, 4, 5}}

	assert.False(t, cfg.Matches(&short))
	assert.True(t, cfg.Matches(&mid))
	assert.False(t, cfg.Matches(&long))
}

func TestFilterCloneIsIndependent(t *testing.T) {
	cfg := NewFilterConfig()
	cfg.FilterByID = true
	cfg.IDs[0x100] = struct{}{}

	clone := cfg.Clone()
	clone.IDs[0x200] = struct{}{}
	clone.FilterByID = false

	assert.Len(t, cfg.IDs, 1)
	assert.True(t, cfg.FilterByID)
}

func TestFilterDescribeOrder(t *testing.T) {
	cfg := NewFilterConfig()
	cfg.FilterByID = true
	cfg.IDs[0x100] = struct{}{}
	cfg.FilterByDirection = true
	cfg.ShowTx = false
	cfg.FilterByTime = true
	cfg.TimeStart = 1
	cfg.TimeEnd = 2
	cfg.FilterByLength = true
	cfg.LengthMin = 0
	cfg.LengthMax = 8

	// stable order: ID, direction, time, length
	assert.Equal(t,
		"ID include: 1 | dir: Rx | time: 1.000s-2.000s | len: 0-8",
		cfg.Describe())
}

func TestParseIDListPartialSuccess(t *testing.T) {
	ids, skipped := ParseIDList("0x100, zzz, 2A0, 511; bogus")

	assert.Equal(t, 2, skipped)
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, uint32(0x100))
	assert.Contains(t, ids, uint32(0x2A0))
	assert.Contains(t, ids, uint32(511)) // no hex letters, parsed as decimal
}

func TestParseIDListBareHex(t *testing.T) {
	ids, skipped := ParseIDList("1A3")
	assert.Zero(t, skipped)
	assert.Contains(t, ids, uint32(0x1A3))
}

func TestParseIDListEmpty(t *testing.T) {
	ids, skipped := ParseIDList("")
	assert.Empty(t, ids)
	assert.Zero(t, skipped)
}
