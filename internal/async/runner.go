// Package async provides a concurrency-limited runner for executing
// per-file work (subprocess checker invocations) in a controlled,
// cancellable way.
package async

import (
	"context"
	"sync"
)

// Task is a unit of per-file work. It returns an opaque result and an error.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome pairs a task's result with its error, in submission order.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Runner executes tasks with bounded concurrency.
type Runner[T any] struct {
	// Concurrency is the max number of tasks running at once. Default 4.
	Concurrency int
}

// Run executes all tasks and returns their outcomes in submission order.
// A cancelled context marks unstarted tasks with ctx.Err() instead of
// running them.
func (r *Runner[T]) Run(ctx context.Context, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	// Semaphore channel for concurrency limiting.
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task[T]) {
			defer wg.Done()

			// Acquire semaphore (respects context cancellation).
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[i].Err = ctx.Err()
				return
			}

			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return
			}

			outcomes[i].Value, outcomes[i].Err = task(ctx)
		}(i, task)
	}
	wg.Wait()

	return outcomes
}
