package errors

import (
	"context"
	"math/rand/v2"
	"time"
)

// Policy controls how Retry repeats an operation.
type Policy struct {
	// Attempts is the maximum number of runs, the first included.
	Attempts int

	// Backoff is the wait after the first failure.
	Backoff time.Duration

	// MaxBackoff caps the wait. Zero means no cap.
	MaxBackoff time.Duration

	// Multiplier grows the wait after each further failure.
	Multiplier float64

	// Jitter spreads each wait by up to this fraction either way.
	Jitter float64

	// Retryable overrides IsRetryable.
	Retryable func(error) bool

	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy suits local stores, where contention clears in milliseconds.
var DefaultPolicy = Policy{
	Attempts:   4,
	Backoff:    10 * time.Millisecond,
	MaxBackoff: 250 * time.Millisecond,
	Multiplier: 2,
	Jitter:     0.1,
}

// Once runs an operation a single time.
var Once = Policy{Attempts: 1}

// Delay returns the wait after failed attempt n (1-based), before jitter.
func (p Policy) Delay(n int) time.Duration {
	d := float64(p.Backoff)
	for i := 1; i < n && p.Multiplier > 1; i++ {
		d *= p.Multiplier
		if p.MaxBackoff > 0 && d >= float64(p.MaxBackoff) {
			break
		}
	}
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// Outcome is what Retry returns.
type Outcome[T any] struct {
	Value    T
	Err      error
	Attempts int
	Elapsed  time.Duration
}

// Retry runs fn until it succeeds, fails with an error that is not
// retryable, uses up p.Attempts or ctx ends. A failure is returned as an
// *OpError carrying the attempt count.
func Retry[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) Outcome[T] {
	start := time.Now()
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	limit := max(p.Attempts, 1)

	var out Outcome[T]
	finish := func(err error) Outcome[T] {
		out.Err = err
		out.Elapsed = time.Since(start)
		return out
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(&OpError{Op: "retry", Attempts: out.Attempts, Err: err})
		}

		out.Attempts++
		value, err := fn(ctx)
		if err == nil {
			out.Value = value
			return finish(nil)
		}
		if !retryable(err) || out.Attempts >= limit {
			return finish(&OpError{Class: Classify(err), Attempts: out.Attempts, Err: err})
		}

		wait := spread(p.Delay(out.Attempts), p.Jitter)
		if p.OnRetry != nil {
			p.OnRetry(out.Attempts, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return finish(&OpError{Op: "retry", Attempts: out.Attempts, Err: ctx.Err()})
		case <-timer.C:
		}
	}
}

// spread moves d by a random amount of at most d*jitter.
func spread(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*jitter*(rand.Float64()*2-1))
}
