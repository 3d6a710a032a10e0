package driving

import (
	"context"
	"time"
)

// RefreshStatus describes the most recent refresh cycle.
type RefreshStatus struct {
	// Running reports whether a refresh is currently in flight.
	Running bool

	// LastAttempt is when a cycle last started.
	LastAttempt time.Time

	// LastSuccess is when a cycle last completed.
	LastSuccess time.Time

	// Version is the current snapshot version.
	Version uint64

	// LastError is the error from the last failed cycle, if any.
	LastError string
}

// RefreshOrchestrator drives the periodic protocol cache refresh.
type RefreshOrchestrator interface {
	// Start runs the fixed-interval refresh loop. Blocks until the
	// context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop shuts the loop down and waits for an in-flight cycle.
	Stop() error

	// RefreshNow runs one on-demand refresh cycle. Returns
	// domain.ErrRefreshInProgress if a cycle is already running.
	RefreshNow(ctx context.Context) error

	// Status reports the current refresh state.
	Status() RefreshStatus
}
