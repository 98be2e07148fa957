package datasource

import (
	"context"
	"time"

	"github.com/driftsql/driftsql/pkg/apperrors"
)

const (
	// DefaultGuardPollInterval is the fixed delay between busy-state checks.
	DefaultGuardPollInterval = 50 * time.Millisecond
	// DefaultGuardMaxWait bounds how long the guard waits for a busy
	// connection to settle before giving up.
	DefaultGuardMaxWait = 30 * time.Second
)

// GuardOptions configures the connection state guard.
type GuardOptions struct {
	// PollInterval is the delay between state checks; <=0 means the default.
	PollInterval time.Duration
	// MaxWait bounds the total busy wait; <=0 means the default.
	MaxWait time.Duration
}

// EnsureOpen brings a connection to the open state. An already-open
// connection is a no-op; a busy connection is polled until it settles.
func EnsureOpen(ctx context.Context, conn Connection, opts GuardOptions) error {
	if err := waitNotBusy(ctx, conn, opts); err != nil {
		return err
	}
	if conn.State() == StateOpen {
		return nil
	}
	return conn.Open(ctx)
}

// EnsureClosed brings a connection to the closed state. An already-closed
// connection is a no-op; a busy connection is polled until it settles.
func EnsureClosed(ctx context.Context, conn Connection, opts GuardOptions) error {
	if err := waitNotBusy(ctx, conn, opts); err != nil {
		return err
	}
	if conn.State() == StateClosed {
		return nil
	}
	return conn.Close()
}

// waitNotBusy polls a busy connection with a fixed delay, rechecking the
// cancellation signal on every iteration. The wait is bounded: exceeding
// MaxWait returns apperrors.ErrBusyWaitExceeded.
func waitNotBusy(ctx context.Context, conn Connection, opts GuardOptions) error {
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultGuardPollInterval
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultGuardMaxWait
	}
	deadline := time.Now().Add(maxWait)

	for conn.State() == StateBusy {
		if time.Now().After(deadline) {
			return apperrors.ErrBusyWaitExceeded
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
	return nil
}
