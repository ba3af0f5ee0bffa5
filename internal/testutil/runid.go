package testutil

import (
	"fmt"
	"sync"
	"time"
)

// FixedRunIDGenerator returns the same run ID every time.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id. If id is empty,
// Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements report.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequenceRunIDGenerator returns prefix-0001, prefix-0002, ... so that
// several runs recorded in one test sort in creation order.
type SequenceRunIDGenerator struct {
	prefix string
	clock  *DeterministicClock
}

// NewSequenceRunIDGenerator creates a generator numbering from 1.
func NewSequenceRunIDGenerator(prefix string) *SequenceRunIDGenerator {
	return &SequenceRunIDGenerator{prefix: prefix, clock: NewDeterministicClock()}
}

// Generate returns the next run ID in the sequence.
func (g *SequenceRunIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%04d", g.prefix, g.clock.Next())
}

// FixedTime is the start time used by deterministic runs.
var FixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// FixedNow returns FixedTime. It matches the signature of time.Now.
func FixedNow() time.Time {
	return FixedTime
}

// SteppingNow returns a time.Now replacement that starts at FixedTime and
// advances by step on every call.
func SteppingNow(step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := FixedTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}
