// Package retry repeats transient operations with exponential backoff.
//
// Backends reached over the network (the Redis cache, the Mongo history)
// are often still starting when ghoshna runs in a container next to them.
// Their constructors mark connection failures with [Transient] so [Do]
// tries again; everything else fails at once.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy controls how often and how patiently [Do] retries.
type Policy struct {
	Attempts int           // total calls, including the first; < 1 means 1
	Delay    time.Duration // wait before the second call, doubled after each
}

// DefaultPolicy is used for backend connections: 3 calls, 200ms then 400ms
// apart.
var DefaultPolicy = Policy{Attempts: 3, Delay: 200 * time.Millisecond}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. It returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	return errors.As(err, new(*transientError))
}

// Do calls fn until it succeeds, returns a non-transient error, or the
// policy runs out. The last error is returned unwrapped of its transient
// mark; ctx.Err() is returned if ctx ends while waiting.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var last error
	for i := range attempts {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		last = err
		if !IsTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	var te *transientError
	if errors.As(last, &te) {
		return te.err
	}
	return last
}
