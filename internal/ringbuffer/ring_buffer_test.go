package ringbuffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario_BufferDropUnderOverload is the literal scenario from spec §8.1:
// capacity 3, writes [A,B,C,D,E] with no reads, then 5 reads.
func TestScenario_BufferDropUnderOverload(t *testing.T) {
	b := New[string](3)
	for _, v := range []string{"A", "B", "C", "D", "E"} {
		b.Write(v)
	}

	var got []string
	for i := 0; i < 3; i++ {
		v, ok := b.Read()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []string{"C", "D", "E"}, got)

	b.Close()
	_, ok := b.Read()
	assert.False(t, ok)
	_, ok = b.Read()
	assert.False(t, ok)

	stats := b.Stats()
	assert.Equal(t, uint64(2), stats.TotalDropped)
	assert.Equal(t, 3, stats.PeakSize)
}

// TestScenario_CleanDrainAfterClose is the literal scenario from spec §8.2:
// capacity 5, writes [X,Y], close, then reads.
func TestScenario_CleanDrainAfterClose(t *testing.T) {
	b := New[string](5)
	b.Write("X")
	b.Write("Y")
	b.Close()

	v, ok := b.Read()
	require.True(t, ok)
	assert.Equal(t, "X", v)

	v, ok = b.Read()
	require.True(t, ok)
	assert.Equal(t, "Y", v)

	_, ok = b.Read()
	assert.False(t, ok)

	stats := b.Stats()
	assert.Equal(t, uint64(0), stats.TotalDropped)
}

// TestProperty_NoInterveningReads checks spec §8's invariant: for n writes
// with no reads and capacity k, final count = min(n,k), totalDropped =
// max(0, n-k), totalWritten = n.
func TestProperty_NoInterveningReads(t *testing.T) {
	cases := []struct{ n, k int }{
		{0, 5}, {1, 5}, {5, 5}, {6, 5}, {100, 7},
	}
	for _, c := range cases {
		b := New[int](c.k)
		for i := 0; i < c.n; i++ {
			b.Write(i)
		}
		stats := b.Stats()
		wantCount := c.n
		if wantCount > c.k {
			wantCount = c.k
		}
		wantDropped := c.n - c.k
		if wantDropped < 0 {
			wantDropped = 0
		}
		assert.Equal(t, wantCount, stats.Size, "n=%d k=%d", c.n, c.k)
		assert.Equal(t, uint64(wantDropped), stats.TotalDropped, "n=%d k=%d", c.n, c.k)
		assert.Equal(t, uint64(c.n), stats.TotalWritten, "n=%d k=%d", c.n, c.k)
	}
}

// TestProperty_OrderingUnderConcurrency verifies single-producer/single-consumer
// reads return a subsequence of writes in the same relative order.
func TestProperty_OrderingUnderConcurrency(t *testing.T) {
	b := New[int](16)
	const n = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			b.Write(i)
		}
		b.Close()
	}()

	var got []int
	for {
		v, ok := b.Read()
		if !ok {
			break
		}
		got = append(got, v)
	}
	wg.Wait()

	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i], "reads must preserve relative order")
	}
	assert.Equal(t, n-1, got[len(got)-1], "the last write must survive since nothing overwrites after producer stops")
}

// TestPeakSize_TracksMaxOccupancy checks peakSize = max over time of count.
func TestPeakSize_TracksMaxOccupancy(t *testing.T) {
	b := New[int](4)
	b.Write(1)
	b.Write(2)
	b.Write(3)
	assert.Equal(t, 3, b.Stats().PeakSize)

	b.Read()
	b.Read()
	assert.Equal(t, 3, b.Stats().PeakSize, "peak must not decrease on read")

	b.Write(4)
	b.Write(5)
	b.Write(6)
	assert.Equal(t, 4, b.Stats().PeakSize)
}

// TestClose_Idempotent checks that Close can be called more than once safely.
func TestClose_Idempotent(t *testing.T) {
	b := New[int](1)
	b.Close()
	b.Close()
	assert.True(t, b.IsClosed())
}

// TestWrite_AfterCloseIsIgnored checks that writes after close are silently dropped.
func TestWrite_AfterCloseIsIgnored(t *testing.T) {
	b := New[int](2)
	b.Write(1)
	b.Close()
	b.Write(2)

	v, ok := b.Read()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = b.Read()
	assert.False(t, ok)
}
