// Package loom is the entry point that launches one goroutine per worker,
// each running the same deterministic driver against its own Runtime, and
// waits for all of them to finish.
//
// It is structured the way the teacher's nursery package structures a
// parent/child goroutine lifecycle (errgroup.WithContext, one Go call per
// child), adapted for this runtime's specific failure mode: a panic in one
// worker must not take the whole process down silently. Rust's
// thread::scope propagates a panicking thread's payload back to the joiner;
// Go goroutines have no such channel, so every worker goroutine recovers its
// own panic and reports it as an error. Go returns the first such error;
// GoAll aggregates every worker's error with hashicorp/go-multierror so a
// multi-worker failure is not reduced to a single one.
package loom

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/loomrt/loom/rt"
)

// Worker is the function every launched goroutine runs: workerID identifies
// which of the NbThreads workers this is, and r is that worker's private
// Runtime, already constructed with the shared Mapping. Worker is expected
// to submit the exact same sequence of task.Submit* calls, in the same
// order, as every other worker — see the task package.
type Worker func(ctx context.Context, workerID int, r *rt.Runtime) error

// Go launches nbThreads goroutines, each running worker against its own
// Runtime(i, mapping), and blocks until every one of them returns. A panic
// inside any worker is recovered and reported as an error rather than
// crashing the process. If one or more workers fail (by returning an
// error or by panicking), the returned error wraps only the first failure
// observed; use GoAll to get every failure.
func Go(ctx context.Context, nbThreads int, mapping rt.Mapping, worker Worker) error {
	g, childCtx := errgroup.WithContext(ctx)

	for i := 0; i < nbThreads; i++ {
		workerID := i
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("worker %d panicked: %v", workerID, p)
				}
			}()
			r := rt.New(workerID, mapping)
			return worker(childCtx, workerID, r)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("loom.Go: %w", err)
	}
	return nil
}

// GoAll is Go's variant that never discards a failure: every worker runs to
// completion (or panics) regardless of whether another worker already
// failed, and every failure is reported together in a single
// *multierror.Error. Use this over Go when workers are independent enough
// that one failing shouldn't stop the others from finishing their own
// submission sequence, or when diagnosing a run where more than one worker
// might be misbehaving at once.
func GoAll(ctx context.Context, nbThreads int, mapping rt.Mapping, worker Worker) error {
	type result struct {
		workerID int
		err      error
	}
	results := make(chan result, nbThreads)

	for i := 0; i < nbThreads; i++ {
		workerID := i
		go func() {
			var err error
			func() {
				defer func() {
					if p := recover(); p != nil {
						err = fmt.Errorf("worker %d panicked: %v", workerID, p)
					}
				}()
				r := rt.New(workerID, mapping)
				err = worker(ctx, workerID, r)
			}()
			results <- result{workerID: workerID, err: err}
		}()
	}

	var merr *multierror.Error
	for i := 0; i < nbThreads; i++ {
		res := <-results
		if res.err != nil {
			merr = multierror.Append(merr, res.err)
		}
	}
	return merr.ErrorOrNil()
}
