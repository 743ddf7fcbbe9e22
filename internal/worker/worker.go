// Package worker runs a single job in an isolated, cancellable goroutine
// bounded by a hard wall-clock timeout, reporting its outcome over a
// completion channel. It is the external collaborator that the
// presburger pipeline (internal/presburger) is run under by server
// request handlers and the cmd/pbbench harness; it has no knowledge of
// formulas, automata, or solutions.
package worker

import (
	"context"
	"fmt"
	"time"
)

// Status classifies how a Job finished.
type Status int

const (
	// StatusOK means Job returned without panicking before the deadline.
	StatusOK Status = iota
	// StatusError means Job returned a non-nil error before the deadline.
	StatusError
	// StatusTimeout means the deadline elapsed, or the parent context was
	// cancelled, before Job returned.
	StatusTimeout
	// StatusPanic means Job panicked; the recovered value is in Result.Err.
	StatusPanic
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusTimeout:
		return "timeout"
	case StatusPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Job is a unit of work submitted to Run. It should honor ctx cancellation
// where it can (e.g. by checking ctx.Err() in a loop), but Run's timeout is
// enforced regardless of whether Job cooperates: a timed-out Job's
// goroutine is abandoned, not killed, since Go has no mechanism to forcibly
// terminate a running goroutine.
type Job func(ctx context.Context) (interface{}, error)

// Result is one Job's outcome, addressed back to its submitter by Name.
type Result struct {
	Name     string
	Status   Status
	Value    interface{}
	Err      error
	Duration time.Duration
}

// Run executes job in its own goroutine with a hard timeout and returns its
// Result. If job has not returned by timeout, Run returns immediately with
// StatusTimeout; the abandoned goroutine's eventual result (if any) is
// discarded into the buffered channel below, so it cannot leak.
func Run(ctx context.Context, name string, timeout time.Duration, job Job) Result {
	start := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Result{Name: name, Status: StatusPanic, Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		value, err := job(jobCtx)
		status := StatusOK
		if err != nil {
			status = StatusError
		}
		done <- Result{Name: name, Status: status, Value: value, Err: err}
	}()

	select {
	case res := <-done:
		res.Duration = time.Since(start)
		return res
	case <-jobCtx.Done():
		return Result{
			Name:     name,
			Status:   StatusTimeout,
			Err:      fmt.Errorf("%s: timed out after %v", name, timeout),
			Duration: time.Since(start),
		}
	}
}

// Submission is one named Job queued for RunAll.
type Submission struct {
	Name    string
	Timeout time.Duration
	Job     Job
}

// RunAll runs every submission concurrently, each under its own timeout via
// Run, and returns their Results in submission order (not completion
// order) once all have finished. Use this when a caller needs every
// result gathered together, e.g. cmd/pbbench's summary table; callers that
// want results as they arrive should call Run directly per submission and
// read from their own fan-in channel instead.
func RunAll(ctx context.Context, subs []Submission) []Result {
	results := make([]Result, len(subs))
	done := make(chan struct {
		i   int
		res Result
	}, len(subs))

	for i, s := range subs {
		go func(i int, s Submission) {
			done <- struct {
				i   int
				res Result
			}{i, Run(ctx, s.Name, s.Timeout, s.Job)}
		}(i, s)
	}

	for range subs {
		out := <-done
		results[out.i] = out.res
	}
	return results
}
