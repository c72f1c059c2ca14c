package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunner_OrderPreserved(t *testing.T) {
	tasks := make([]Task[int], 10)
	for i := range tasks {
		tasks[i] = func(context.Context) (int, error) { return i, nil }
	}

	outcomes := (&Runner[int]{Concurrency: 3}).Run(context.Background(), tasks)

	if len(outcomes) != 10 {
		t.Fatalf("got %d outcomes, want 10", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Err != nil {
			t.Errorf("outcome[%d] error: %v", i, o.Err)
		}
		if o.Value != i {
			t.Errorf("outcome[%d] = %d, results must keep submission order", i, o.Value)
		}
	}
}

func TestRunner_ErrorsIsolated(t *testing.T) {
	boom := errors.New("boom")
	tasks := []Task[string]{
		func(context.Context) (string, error) { return "ok", nil },
		func(context.Context) (string, error) { return "", boom },
		func(context.Context) (string, error) { return "also ok", nil },
	}

	outcomes := (&Runner[string]{}).Run(context.Background(), tasks)

	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Error("sibling tasks must not be affected by one failure")
	}
	if !errors.Is(outcomes[1].Err, boom) {
		t.Errorf("outcome[1].Err = %v, want boom", outcomes[1].Err)
	}
}

func TestRunner_ConcurrencyBound(t *testing.T) {
	const limit = 2
	var running, peak atomic.Int32
	var mu sync.Mutex

	gate := make(chan struct{})
	tasks := make([]Task[struct{}], 6)
	for i := range tasks {
		tasks[i] = func(context.Context) (struct{}, error) {
			n := running.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			<-gate
			running.Add(-1)
			return struct{}{}, nil
		}
	}

	done := make(chan []Outcome[struct{}])
	go func() {
		done <- (&Runner[struct{}]{Concurrency: limit}).Run(context.Background(), tasks)
	}()

	close(gate)
	<-done

	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency = %d, want at most %d", got, limit)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 1, ctx.Err() },
	}
	outcomes := (&Runner[int]{}).Run(ctx, tasks)

	if !errors.Is(outcomes[0].Err, context.Canceled) {
		t.Errorf("outcome.Err = %v, want context.Canceled", outcomes[0].Err)
	}
}

func TestRunner_Empty(t *testing.T) {
	outcomes := (&Runner[int]{}).Run(context.Background(), nil)
	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes for no tasks", len(outcomes))
	}
}
