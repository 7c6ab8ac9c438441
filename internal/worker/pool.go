package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Result pairs one input with its outcome.
type Result[T any, R any] struct {
	Input T
	Value R
	Err   error
}

// Func processes a single input.
type Func[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a Func over a slice of inputs with bounded concurrency.
type Pool[T any, R any] struct {
	workers int
	process Func[T, R]
}

// NewPool creates a pool; fewer than one worker means one.
func NewPool[T any, R any](workers int, fn Func[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Run processes every input and returns results in input order. Inputs not
// started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Result[T, R] {
	results := make([]Result[T, R], len(inputs))
	started := make([]bool, len(inputs))
	inputCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(inputs)); w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				value, err := p.process(ctx, inputs[idx])
				results[idx] = Result[T, R]{Input: inputs[idx], Value: value, Err: err}
				if err != nil {
					log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- i:
			started[i] = true
		}
	}
	close(inputCh)
	wg.Wait()

	for i, ok := range started {
		if !ok {
			results[i] = Result[T, R]{Input: inputs[i], Err: ctx.Err()}
		}
	}
	return results
}

// Join returns the errors of all failed results joined, or nil.
func Join[T any, R any](results []Result[T, R]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
