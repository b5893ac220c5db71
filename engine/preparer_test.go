package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preparerFixture(t *testing.T, frames int) (*Preparer, *FrameStore, *DisplaySequence) {
	t.Helper()
	store := makeStore(frames)
	seq := BuildDisplaySequence(store, nil)

	p := NewPreparer()
	p.SetData(1, store, seq, NewTimestampFormatter(FormatRaw), nil)
	return p, store, seq
}

func TestPreparerRequestWithoutData(t *testing.T) {
	p := NewPreparer()
	defer p.Stop()

	assert.False(t, p.Request(0, 100))
}

func TestPreparerDeliversInChunks(t *testing.T) {
	p, _, _ := preparerFixture(t, 250)
	defer p.Stop()

	require.True(t, p.Request(0, 250))

	wantStarts := []int{0, 100, 200}
	wantEnds := []int{100, 200, 250}

	for i := 0; i < 3; i++ {
		select {
		case batch := <-p.Deliveries():
			assert.Equal(t, uint64(1), batch.Generation)
			assert.Equal(t, wantStarts[i], batch.Start)
			assert.Equal(t, wantEnds[i], batch.End)
			require.Len(t, batch.Rows, batch.End-batch.Start)
			assert.Equal(t, batch.Start+1, batch.Rows[0].Seq)
			assert.True(t, batch.Rows[0].Valid())
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestPreparerClampsRange(t *testing.T) {
	p, _, _ := preparerFixture(t, 50)
	defer p.Stop()

	require.True(t, p.Request(-10, 10000))

	select {
	case batch := <-p.Deliveries():
		assert.Equal(t, 0, batch.Start)
		assert.Equal(t, 50, batch.End)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestPreparerEmptyRangeRejected(t *testing.T) {
	p, _, _ := preparerFixture(t, 50)
	defer p.Stop()

	assert.False(t, p.Request(10, 10))
	assert.False(t, p.Request(20, 10))
	assert.False(t, p.Request(60, 100)) // entirely past the end
}

func TestPreparerDeduplicatesInflightRange(t *testing.T) {
	// a range large enough that the worker is still busy with it: the
	// delivery channel backs up long before the range completes
	p, _, _ := preparerFixture(t, 20000)
	defer p.Stop()

	require.True(t, p.Request(0, 20000))
	assert.False(t, p.Request(0, 20000), "identical in-flight range must dedup")

	// a different range is a different key
	assert.True(t, p.Request(0, 100))
}

func TestPreparerSnapshotFreezesFormatter(t *testing.T) {
	store := makeStore(50)
	seq := BuildDisplaySequence(store, nil)

	p := NewPreparer()
	defer p.Stop()

	tf := NewTimestampFormatter(FormatRaw)
	p.SetData(1, store, seq, tf, nil)

	// mutating the caller's formatter after publication must not leak
	// into rows produced under the published generation
	tf.SetFormat(FormatMilliseconds)

	require.True(t, p.Request(0, 50))

	select {
	case batch := <-p.Deliveries():
		assert.Equal(t, "0.000000", batch.Rows[0].Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestPreparerStopIsBounded(t *testing.T) {
	p, _, _ := preparerFixture(t, 20000)
	require.True(t, p.Request(0, 20000))

	// the worker is mid-range, blocked on the delivery channel; Stop must
	// still return promptly
	start := time.Now()
	err := p.Stop()
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), preparerStopWait)
}

func TestPreparerRowsMatchFrames(t *testing.T) {
	p, store, seq := preparerFixture(t, 120)
	defer p.Stop()

	require.True(t, p.Request(100, 120))

	select {
	case batch := <-p.Deliveries():
		require.Equal(t, 20, len(batch.Rows))
		for i, row := range batch.Rows {
			f := store.At(seq.FrameIndex(batch.Start + i))
			assert.Equal(t, FormatID(f.ID), row.ID)
			assert.Equal(t, FormatData(f.Data), row.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}
