// Package resilience retries startup probes against backing services
// (render cache, profile store) with exponential backoff.
package resilience

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Backoff untuk konfigurasi retry
type Backoff struct {
	// Attempts is the total number of tries, including the first one
	Attempts int

	// Initial is the wait before the second try
	Initial time.Duration

	// Max caps the wait between tries
	Max time.Duration

	// Multiplier grows the wait after every failed try
	Multiplier float64

	// Jitter randomizes each wait by +/- the given fraction
	Jitter float64

	// Retryable decides whether err is worth another try; nil retries everything
	Retryable func(err error) bool

	// OnRetry is called before waiting for the next try
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultBackoff returns the backoff used when connecting to backing services
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:   3,
		Initial:    200 * time.Millisecond,
		Max:        2 * time.Second,
		Multiplier: 2,
		Jitter:     0.2,
	}
}

// ExhaustedError is returned when every attempt failed
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func (b Backoff) normalized() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}
	if b.Initial <= 0 {
		b.Initial = 100 * time.Millisecond
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	if b.Jitter < 0 || b.Jitter >= 1 {
		b.Jitter = 0
	}
	return b
}

// Do runs fn until it succeeds, returns a non-retryable error, runs out of
// attempts or ctx is done.
func (b Backoff) Do(ctx context.Context, fn func(context.Context) error) error {
	b = b.normalized()
	wait := b.Initial

	var last error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}
		if b.Retryable != nil && !b.Retryable(last) {
			return last
		}
		if attempt == b.Attempts {
			break
		}

		d := b.jittered(wait)
		if b.OnRetry != nil {
			b.OnRetry(attempt, last, d)
		}

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		wait = time.Duration(float64(wait) * b.Multiplier)
		if wait > b.Max {
			wait = b.Max
		}
	}

	return &ExhaustedError{Attempts: b.Attempts, Err: last}
}

func (b Backoff) jittered(d time.Duration) time.Duration {
	if b.Jitter == 0 {
		return d
	}
	delta := b.Jitter * float64(d)
	return time.Duration(float64(d) - delta + rand.Float64()*2*delta)
}
