// Package testutil provides deterministic stand-ins for the run clock and
// run-ID generator so report and store tests produce stable output.
package testutil

import "sync"

// DeterministicClock is a report.Clock for tests. Like report.SeqClock it
// stamps outcomes 1, 2, 3 and so on; it also keeps every stamp it issued and
// can be rewound, so a specification recorded twice gets identical seqs.
type DeterministicClock struct {
	mu     sync.Mutex
	stamps []int64
}

// NewDeterministicClock returns a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next stamps one more outcome.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := int64(len(c.stamps)) + 1
	c.stamps = append(c.stamps, seq)
	return seq
}

// Current returns the last stamp issued, or 0.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.stamps))
}

// Stamps returns the stamps issued since the last Reset, in issue order.
func (c *DeterministicClock) Stamps() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.stamps...)
}

// Reset rewinds the clock; the next stamp is 1 again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stamps = nil
}
