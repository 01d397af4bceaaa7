package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/platform/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes     int32
	Errors        int32
	Conflicts     int32
	InvalidStates int32
	NotFounds     int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Conflicts + r.InvalidStates + r.NotFounds
}

// RunConcurrent runs fn on n goroutines and sorts the results by domain
// error code. Storage ErrNotFound counts as not found.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, conflicts, invalid, notFounds atomic.Int32

	for i := range n {
		wg.Go(func() {
			err := fn(i)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			case dErrors.HasCode(err, dErrors.CodeInvalidState):
				invalid.Add(1)
			case dErrors.HasCode(err, dErrors.CodeNotFound), errors.Is(err, sentinel.ErrNotFound):
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		})
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes:     successes.Load(),
		Errors:        errs.Load(),
		Conflicts:     conflicts.Load(),
		InvalidStates: invalid.Load(),
		NotFounds:     notFounds.Load(),
	}
}

func RunConcurrentCtx(ctx context.Context, n int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(n, func(idx int) error {
		return fn(ctx, idx)
	})
}
