package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errDown = errors.New("connection refused")

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		failures  int   // calls that fail before success
		err       error // error returned by failing calls
		wantCalls int
		wantErr   error
	}{
		{"first call succeeds", Policy{Attempts: 3}, 0, nil, 1, nil},
		{"recovers after transient", Policy{Attempts: 3, Delay: time.Millisecond}, 2, Transient(errDown), 3, nil},
		{"gives up", Policy{Attempts: 2, Delay: time.Millisecond}, 5, Transient(errDown), 2, errDown},
		{"permanent error stops", Policy{Attempts: 5, Delay: time.Millisecond}, 5, errDown, 1, errDown},
		{"zero attempts means one", Policy{}, 5, Transient(errDown), 1, errDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.policy, func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if IsTransient(err) {
				t.Error("returned error should not keep its transient mark")
			}
		})
	}
}

func TestDoCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 3, Delay: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return Transient(errDown)
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	err := Transient(errDown)
	if !IsTransient(err) || !errors.Is(err, errDown) {
		t.Errorf("Transient(%v) lost its cause or mark", errDown)
	}
	if IsTransient(errDown) {
		t.Error("plain error reported as transient")
	}
}
