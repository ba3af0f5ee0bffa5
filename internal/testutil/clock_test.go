package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mspec/internal/report"
)

var (
	_ report.Clock          = (*DeterministicClock)(nil)
	_ report.RunIDGenerator = (*FixedRunIDGenerator)(nil)
	_ report.RunIDGenerator = (*SequenceRunIDGenerator)(nil)
)

func TestDeterministicClock_NextIncrementsFromZero(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Current())
}

func TestDeterministicClock_ResetReplaysSequence(t *testing.T) {
	clock := NewDeterministicClock()
	first := []int64{clock.Next(), clock.Next(), clock.Next()}

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	second := []int64{clock.Next(), clock.Next(), clock.Next()}

	assert.Equal(t, first, second)
}

func TestDeterministicClock_StampsFollowRecordedOutcomes(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Empty(t, clock.Stamps())

	rec := []report.Outcome{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	for i := range rec {
		rec[i].Seq = clock.Next()
	}
	assert.Equal(t, []int64{1, 2, 3}, clock.Stamps())

	stamps := clock.Stamps()
	stamps[0] = 99
	assert.Equal(t, int64(1), clock.Stamps()[0], "Stamps returns a copy")

	clock.Reset()
	assert.Empty(t, clock.Stamps())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock()
	const goroutines, calls = 50, 100

	results := make([][]int64, goroutines)
	var wg sync.WaitGroup
	for i := range results {
		results[i] = make([]int64, calls)
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := range calls {
				results[idx][j] = clock.Next()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, rs := range results {
		for _, v := range rs {
			require.False(t, seen[v], "duplicate value %d", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, goroutines*calls)
	assert.Equal(t, int64(goroutines*calls), clock.Current())
}
