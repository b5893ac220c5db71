package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, frames int, opts ...SessionOption) *TableSession {
	t.Helper()
	s := NewTableSession(opts...)
	t.Cleanup(func() { s.Close() })
	s.SetMessages(makeStore(frames))
	return s
}

func TestSessionSmallDatasetUsesFullBatch(t *testing.T) {
	s := newTestSession(t, 250)

	assert.Equal(t, FullBatch, s.Strategy())
	assert.Equal(t, 250, s.DisplayCount())
	assert.Equal(t, 250, s.RowCount())
	assert.Equal(t, 0, s.WindowStart())

	drainSession(t, s, 2*time.Second, func() bool {
		return s.RowAt(249).Valid()
	})

	first := s.RowAt(0)
	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, "0x100", first.ID)
}

func TestSessionLargeDatasetUsesSlidingWindow(t *testing.T) {
	s := newTestSession(t, 20000)

	assert.Equal(t, SlidingWindow, s.Strategy())
	assert.Equal(t, 20000, s.DisplayCount())
	// only the window is materialized, never the full sequence
	assert.Equal(t, WindowSize, s.RowCount())
	assert.Equal(t, 0, s.WindowStart())
}

func TestSessionThresholdBoundary(t *testing.T) {
	small := newTestSession(t, SlidingThreshold-1)
	assert.Equal(t, FullBatch, small.Strategy())

	large := newTestSession(t, SlidingThreshold)
	assert.Equal(t, SlidingWindow, large.Strategy())
}

func TestSessionRowAtMissReturnsPending(t *testing.T) {
	s := newTestSession(t, 20000)

	// far end of the window will not be materialized instantly
	row := s.RowAt(WindowSize - 1)
	if row.Valid() {
		// materialization already caught up; nothing left to assert
		return
	}

	drainSession(t, s, 5*time.Second, func() bool {
		return s.RowAt(WindowSize-1).Valid()
	})
	assert.True(t, s.RowAt(WindowSize-1).Valid())
}

func TestSessionScrollSlidesForward(t *testing.T) {
	s := newTestSession(t, 20000)

	drainSession(t, s, 10*time.Second, func() bool {
		return s.RowAt(0).Valid() && s.RowAt(WindowSize-1).Valid()
	})

	res := s.OnScroll(0.96)
	require.True(t, res.Slid)
	assert.Equal(t, SlideForward, res.Direction)
	assert.Equal(t, AppendBatch, res.NewStart)
	assert.Equal(t, AppendBatch, s.WindowStart())

	// drain until the exposed tail is materialized and the slide completes
	drainSession(t, s, 10*time.Second, func() bool {
		return !s.window.Sliding()
	})

	// the whole new window is addressable
	last := s.RowCount() - 1
	drainSession(t, s, 10*time.Second, func() bool {
		return s.RowAt(last).Valid()
	})
	assert.Equal(t, AppendBatch+last+1, s.RowAt(last).Seq)
}

func TestSessionScrollIgnoredDuringSlide(t *testing.T) {
	s := newTestSession(t, 20000)

	drainSession(t, s, 10*time.Second, func() bool {
		return s.RowAt(0).Valid() && s.RowAt(WindowSize-1).Valid()
	})

	res := s.OnScroll(0.96)
	require.True(t, res.Slid)

	// second scroll while the slide is in flight is dropped
	res = s.OnScroll(0.96)
	assert.False(t, res.Slid)
	assert.Equal(t, AppendBatch, s.WindowStart())
}

func TestSessionScrollNoopAtTop(t *testing.T) {
	s := newTestSession(t, 20000)

	res := s.OnScroll(0.0)
	assert.False(t, res.Slid)
	assert.Equal(t, 0, s.WindowStart())
}

func TestSessionBatchStrategyIgnoresScroll(t *testing.T) {
	s := newTestSession(t, 100)

	res := s.OnScroll(1.0)
	assert.False(t, res.Slid)
	assert.Equal(t, 100, s.RowCount())
}

func TestSessionStaleBatchDropped(t *testing.T) {
	s := newTestSession(t, 250)

	var stale RowBatch
	select {
	case stale = <-s.Deliveries():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	// any filter change bumps the generation
	cfg := NewFilterConfig()
	cfg.FilterByDirection = true
	cfg.ShowTx = false
	s.SetFilter(cfg)

	assert.False(t, s.ApplyBatch(stale), "stale generation must be dropped")
	assert.NotEqual(t, stale.Generation, s.Generation())
}

func TestSessionFilterRecomputesDisplay(t *testing.T) {
	s := newTestSession(t, 160)
	genBefore := s.Generation()

	cfg := NewFilterConfig()
	cfg.FilterByID = true
	cfg.IDs[0x100] = struct{}{}
	s.SetFilter(cfg)

	assert.Equal(t, 10, s.DisplayCount()) // 16-ID cycle over 160 frames
	assert.Equal(t, genBefore+1, s.Generation())

	drainSession(t, s, 2*time.Second, func() bool {
		return s.RowAt(0).Valid() && s.RowAt(9).Valid()
	})

	// sequence numbers are dense over the filtered view
	for i := 0; i < 10; i++ {
		row := s.RowAt(i)
		assert.Equal(t, i+1, row.Seq)
		assert.Equal(t, "0x100", row.ID)
	}

	// clearing the filter restores the full view
	s.SetFilter(nil)
	assert.Equal(t, 160, s.DisplayCount())
}

func TestSessionTimestampFormatBumpsGeneration(t *testing.T) {
	s := newTestSession(t, 50)
	genBefore := s.Generation()

	s.SetTimestampFormat(FormatMilliseconds)
	assert.Equal(t, genBefore+1, s.Generation())

	drainSession(t, s, 2*time.Second, func() bool {
		return s.RowAt(10).Valid()
	})
	assert.Contains(t, s.RowAt(10).Timestamp, "ms")
}

func TestSessionFormatChangeWhileWorkerBusy(t *testing.T) {
	s := newTestSession(t, 20000)

	// flip the format repeatedly while the worker is materializing the
	// window; each generation's worker reads its own frozen formatter
	// copy, so the flips never race the background reads
	mode := FormatRaw
	for i := 0; i < 12; i++ {
		mode = mode.Next()
		s.SetTimestampFormat(mode)

		for j := 0; j < 4; j++ {
			select {
			case batch := <-s.Deliveries():
				s.ApplyBatch(batch)
			case <-time.After(20 * time.Millisecond):
			}
		}
	}

	drainSession(t, s, 10*time.Second, func() bool {
		return s.RowAt(0).Valid()
	})

	// surviving rows render in the final generation's format
	want := s.Formatter().FormatValue(s.FrameAt(0).Timestamp)
	assert.Equal(t, want, s.RowAt(0).Timestamp)
}

func TestSessionPreloadWarmsSlide(t *testing.T) {
	s := newTestSession(t, 20000)

	drainSession(t, s, 10*time.Second, func() bool {
		return s.RowAt(0).Valid() && s.RowAt(WindowSize-1).Valid()
	})

	// 0.80 is past the preload threshold but short of the slide edge
	res := s.OnScroll(0.80)
	require.False(t, res.Slid)
	assert.Equal(t, 0, s.WindowStart())

	// the range beyond the window edge is materialized without a slide
	drainSession(t, s, 10*time.Second, func() bool {
		return s.rangeCached(WindowSize, WindowSize+AppendBatch)
	})
	assert.Equal(t, 0, s.WindowStart())

	// the eventual slide lands entirely on warm cache and finishes at once
	res = s.OnScroll(0.96)
	require.True(t, res.Slid)
	assert.Equal(t, AppendBatch, s.WindowStart())
	assert.False(t, s.window.Sliding())
}

func TestSessionScrollToRecenter(t *testing.T) {
	s := newTestSession(t, 20000)

	pos := s.ScrollTo(19999)
	assert.Equal(t, 20000-WindowSize, s.WindowStart())
	assert.Equal(t, WindowSize-1, pos)

	drainSession(t, s, 5*time.Second, func() bool {
		return s.RowAt(pos).Valid()
	})
	assert.Equal(t, 20000, s.RowAt(pos).Seq)
}

func TestSessionScrollToClampsBounds(t *testing.T) {
	s := newTestSession(t, 20000)

	pos := s.ScrollTo(-5)
	assert.Equal(t, 0, pos)

	pos = s.ScrollTo(999999)
	assert.Equal(t, 20000-WindowSize, s.WindowStart())
	assert.Equal(t, WindowSize-1, pos)
}

func TestSessionScrollToBatchStrategyIsIdentity(t *testing.T) {
	s := newTestSession(t, 100)

	assert.Equal(t, 42, s.ScrollTo(42))
	assert.Equal(t, 0, s.WindowStart())
}

func TestSessionFindNext(t *testing.T) {
	s := newTestSession(t, 160)

	// from frame 0 (ID 0x100), the next 0x105 frame is display index 5
	idx, found := s.FindNext("0x105", 0, true)
	require.True(t, found)
	assert.Equal(t, 5, idx)

	// continues past the current match to the next cycle
	idx, found = s.FindNext("0x105", idx, true)
	require.True(t, found)
	assert.Equal(t, 21, idx)

	// backward search wraps to the last occurrence
	idx, found = s.FindNext("0x105", 0, false)
	require.True(t, found)
	assert.Equal(t, 149, idx)
}

func TestSessionFindNextNoMatch(t *testing.T) {
	s := newTestSession(t, 50)

	_, found := s.FindNext("0xDEAD", 0, true)
	assert.False(t, found)

	_, found = s.FindNext("", 0, true)
	assert.False(t, found)
}

func TestSessionFindNextMatchesDirection(t *testing.T) {
	s := newTestSession(t, 50)

	// frame 0 is Rx, frame 1 is Tx
	idx, found := s.FindNext("tx", 0, true)
	require.True(t, found)
	assert.Equal(t, 1, idx)
}

func TestSessionDisplayedFrameIndicesAreACopy(t *testing.T) {
	s := newTestSession(t, 50)

	indices := s.DisplayedFrameIndices()
	require.Len(t, indices, 50)
	indices[0] = 999

	fresh := s.DisplayedFrameIndices()
	assert.Equal(t, 0, fresh[0])
}

func TestSessionEmptyDataset(t *testing.T) {
	s := NewTableSession()
	t.Cleanup(func() { s.Close() })
	s.SetMessages(NewFrameStore(nil, LoadStats{}))

	assert.Zero(t, s.DisplayCount())
	assert.Zero(t, s.RowCount())
	assert.False(t, s.RowAt(0).Valid())
	assert.Nil(t, s.FrameAt(0))

	res := s.OnScroll(1.0)
	assert.False(t, res.Slid)
}

func TestSessionFrameAt(t *testing.T) {
	s := newTestSession(t, 50)

	f := s.FrameAt(3)
	require.NotNil(t, f)
	assert.Equal(t, uint32(0x103), f.ID)

	assert.Nil(t, s.FrameAt(-1))
	assert.Nil(t, s.FrameAt(50))
}

func TestSessionDecoderFlowsIntoRows(t *testing.T) {
	s := NewTableSession(WithDecoder(stubDecoder{}))
	t.Cleanup(func() { s.Close() })
	s.SetMessages(makeStore(10))

	drainSession(t, s, 2*time.Second, func() bool {
		return s.RowAt(0).Valid()
	})
	assert.Equal(t, "Counter: 8 count", s.RowAt(0).Signals)
}

func TestSessionCloseStopsPreparer(t *testing.T) {
	s := NewTableSession()
	s.SetMessages(makeStore(10))
	assert.NoError(t, s.Close())
}
