package taskid

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
)

// memCounter is an in-memory Counter with the same atomicity contract as the
// Postgres implementation.
type memCounter struct {
	mu     sync.Mutex
	values map[string]int64
	fail   error
}

func newMemCounter() *memCounter {
	return &memCounter{values: make(map[string]int64)}
}

func (m *memCounter) Increment(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	m.values[name]++
	return m.values[name], nil
}

func (m *memCounter) Current(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	return m.values[name], nil
}

func (m *memCounter) Set(_ context.Context, name string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.values[name] = value
	return nil
}

func TestFormat(t *testing.T) {
	cases := []struct {
		sequence int64
		want     string
	}{
		{1, "SAL0001"},
		{7, "SAL0007"},
		{42, "SAL0042"},
		{9999, "SAL9999"},
		{10000, "SAL10000"},
		{12345, "SAL12345"},
	}

	for _, tc := range cases {
		if got := Format(tc.sequence); got != tc.want {
			t.Errorf("Format(%d) = %q, want %q", tc.sequence, got, tc.want)
		}
	}
}

func TestNextTaskIDSequence(t *testing.T) {
	ctx := context.Background()
	seq := New(newMemCounter())

	for i := 1; i <= 3; i++ {
		id, err := seq.NextTaskID(ctx)
		if err != nil {
			t.Fatalf("NextTaskID: %v", err)
		}
		if want := Format(int64(i)); id != want {
			t.Errorf("issue %d: got %q, want %q", i, id, want)
		}
	}

	current, err := seq.CurrentSequence(ctx)
	if err != nil {
		t.Fatalf("CurrentSequence: %v", err)
	}
	if current != 3 {
		t.Errorf("CurrentSequence = %d, want 3", current)
	}
}

func TestCurrentSequenceDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	seq := New(newMemCounter())

	for i := 0; i < 5; i++ {
		if _, err := seq.CurrentSequence(ctx); err != nil {
			t.Fatalf("CurrentSequence: %v", err)
		}
	}

	current, _ := seq.CurrentSequence(ctx)
	if current != 0 {
		t.Errorf("CurrentSequence mutated the counter: got %d, want 0", current)
	}
}

func TestInitializeSeedsCounter(t *testing.T) {
	ctx := context.Background()
	seq := New(newMemCounter())

	if err := seq.Initialize(ctx, 100); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	id, err := seq.NextTaskID(ctx)
	if err != nil {
		t.Fatalf("NextTaskID: %v", err)
	}
	if id != "SAL0101" {
		t.Errorf("after seed 100: got %q, want SAL0101", id)
	}
}

// N concurrent issuances yield N distinct values forming a contiguous run.
func TestNextTaskIDConcurrent(t *testing.T) {
	const n = 200
	ctx := context.Background()
	seq := New(newMemCounter())

	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := seq.NextTaskID(ctx)
			if err != nil {
				t.Errorf("NextTaskID: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	collected := make([]string, 0, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate task id issued: %s", id)
		}
		seen[id] = true
		collected = append(collected, id)
	}
	if len(collected) != n {
		t.Fatalf("issued %d ids, want %d", len(collected), n)
	}

	sort.Strings(collected)
	for i := 0; i < n; i++ {
		if want := Format(int64(i + 1)); collected[i] != want {
			t.Fatalf("gap in sequence at position %d: got %q, want %q", i, collected[i], want)
		}
	}
}

func TestNextTaskIDStorageFailure(t *testing.T) {
	ctx := context.Background()
	counter := newMemCounter()
	counter.fail = errors.New("connection refused")
	seq := New(counter)

	id, err := seq.NextTaskID(ctx)
	if err == nil {
		t.Fatal("expected error when store is unreachable")
	}
	if id != "" {
		t.Errorf("no id may be fabricated on failure, got %q", id)
	}
}
