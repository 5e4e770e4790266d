// Package timeoutx is the shared race-with-timeout primitive. Callers get
// a discriminated result instead of an error they have to fingerprint, and
// a producer that finishes after the deadline is silently discarded.
package timeoutx

import (
	"context"
	"time"
)

type Outcome string

const (
	OutcomeReady   Outcome = "ready"
	OutcomeTimeout Outcome = "timeout"
)

type Result[T any] struct {
	Outcome Outcome
	Value   T
	Err     error
}

// Ready reports a settled, successful outcome.
func (r Result[T]) Ready() bool { return r.Outcome == OutcomeReady && r.Err == nil }

// Race runs fn and waits at most d for it to finish. The result channel is
// buffered, so a late fn neither blocks nor mutates anything: once the
// timeout has settled the outcome, whatever fn eventually produces is
// dropped on the floor.
func Race[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) Result[T] {
	type res struct {
		v   T
		err error
	}

	ch := make(chan res, 1)
	go func() {
		v, err := fn(ctx)
		ch <- res{v: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-ch:
		return Result[T]{Outcome: OutcomeReady, Value: r.v, Err: r.err}
	case <-timer.C:
		return Result[T]{Outcome: OutcomeTimeout}
	case <-ctx.Done():
		return Result[T]{Outcome: OutcomeTimeout, Err: ctx.Err()}
	}
}
