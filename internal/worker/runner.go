package worker

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Task represents a unit of work and its outcome.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Runner processes inputs strictly one at a time, in order. A failing or
// panicking input only fails its own Task.
type Runner[T any, R any] struct {
	process ProcessFunc[T, R]
	onDone  func(Task[T, R])
}

// NewRunner creates a sequential runner.
func NewRunner[T any, R any](fn ProcessFunc[T, R]) *Runner[T, R] {
	return &Runner[T, R]{process: fn}
}

// OnDone registers a callback invoked after each task, successful or not.
func (r *Runner[T, R]) OnDone(fn func(Task[T, R])) *Runner[T, R] {
	r.onDone = fn
	return r
}

// Execute runs every input and returns one Task per input processed.
// Cancellation is checked between inputs; inputs not reached are omitted.
func (r *Runner[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], 0, len(inputs))

	for idx, input := range inputs {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("processed", idx).Int("total", len(inputs)).Msg("Run cancelled")
			break
		}

		task := r.run(ctx, input)
		if task.Err != nil {
			log.Debug().Err(task.Err).Int("index", idx).Msg("Task failed")
		}
		if r.onDone != nil {
			r.onDone(task)
		}
		results = append(results, task)
	}

	return results
}

func (r *Runner[T, R]) run(ctx context.Context, input T) (task Task[T, R]) {
	task.Input = input
	defer func() {
		if p := recover(); p != nil {
			log.Debug().Bytes("stack", debug.Stack()).Msg("Recovered panic")
			task.Err = fmt.Errorf("unexpected failure: %v", p)
		}
	}()
	task.Result, task.Err = r.process(ctx, input)
	return task
}
