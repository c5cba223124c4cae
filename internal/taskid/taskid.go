// Package taskid issues the shared sequential Task IDs (SAL0001, SAL0002, ...)
// that correlate a lead with every record derived from it: the opportunity it
// converts into, its forecasts, activities and action items.
//
// A single persisted counter is the sole source of truth. The increment is a
// single atomic statement against the store; issuing an ID never does a
// read-then-write. The counter deliberately replaces per-entity UUIDs here
// because Task IDs must be short, ordered, human-readable and identical
// across the whole record family.
package taskid

import (
	"context"
	"fmt"
)

// CounterName is the fixed key of the shared Task ID counter.
const CounterName = "task_id"

// Counter is the storage contract the sequencer needs: a single atomic
// increment-and-read with upsert semantics, plus read and seed operations.
type Counter interface {
	// Increment atomically adds 1 to the named counter, creating it at 1 if
	// absent, and returns the post-increment value.
	Increment(ctx context.Context, name string) (int64, error)
	// Current returns the counter value without mutating it. An absent
	// counter reads as 0.
	Current(ctx context.Context, name string) (int64, error)
	// Set overwrites the counter, creating it if absent.
	Set(ctx context.Context, name string, value int64) error
}

// Sequencer issues Task IDs from a persisted counter.
type Sequencer struct {
	counter Counter
}

// New creates a Sequencer over the given counter store.
func New(counter Counter) *Sequencer {
	return &Sequencer{counter: counter}
}

// NextTaskID atomically advances the sequence and returns the new value
// formatted as a Task ID. On storage failure the error propagates and no ID
// is fabricated locally: doing so would break uniqueness across instances.
func (s *Sequencer) NextTaskID(ctx context.Context) (string, error) {
	seq, err := s.counter.Increment(ctx, CounterName)
	if err != nil {
		return "", err
	}
	return Format(seq), nil
}

// CurrentSequence returns the current counter value. Read-only.
func (s *Sequencer) CurrentSequence(ctx context.Context) (int64, error) {
	return s.counter.Current(ctx, CounterName)
}

// Initialize seeds or resets the counter. It is an administrative operation
// and is not synchronized against concurrent NextTaskID calls; the caller
// must ensure no issuance is in flight.
func (s *Sequencer) Initialize(ctx context.Context, start int64) error {
	return s.counter.Set(ctx, CounterName, start)
}

// Format renders a sequence value as a Task ID. The numeric part is
// zero-padded to 4 digits and simply grows wider past 9999.
func Format(sequence int64) string {
	return fmt.Sprintf("SAL%04d", sequence)
}
