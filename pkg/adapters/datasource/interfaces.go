// Package datasource defines the narrow contracts this library needs from a
// database client — a connection handle that can execute a bound command and
// a forward-only cursor over its rows — plus the provider registry and the
// connection state guard.
package datasource

import (
	"context"

	"github.com/driftsql/driftsql/pkg/template"
)

// State describes a connection handle's lifecycle position.
type State int

const (
	StateClosed State = iota
	StateOpen
	// StateBusy covers the transitional phases: connecting, executing,
	// fetching. The guard polls a busy connection until it settles.
	StateBusy
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Connection is the handle a provider adapter exposes to the executor.
// A connection may have at most one open cursor at a time; callers enforce
// this through the result wrapper's CloseCursor/Close.
type Connection interface {
	// State reports the current lifecycle state.
	State() State

	// Open establishes the connection. No-op when already open.
	Open(ctx context.Context) error

	// Close releases the connection. Must be a no-op when already closed.
	Close() error

	// Query executes rewritten SQL with its bound parameters and returns an
	// open cursor over the result rows.
	Query(ctx context.Context, sqlText string, params []template.BoundParameter) (Cursor, error)

	// ParamPrefix returns the provider's parameter-name prefix, e.g. "@".
	ParamPrefix() string
}

// Cursor is an open, forward-only handle over in-flight result rows.
// It does not own the connection; closing it only frees the result.
type Cursor interface {
	// Next advances to the next row. Returns false with a nil error at the
	// end of the result.
	Next(ctx context.Context) (bool, error)

	// FieldCount returns the number of result columns.
	FieldCount() int

	// Name returns the name of column i.
	Name(i int) string

	// Value returns the raw value of column i in the current row.
	Value(i int) (any, error)

	// IsClosed reports whether the cursor has been closed.
	IsClosed() bool

	// Close frees the cursor. Must be a no-op when already closed.
	Close() error
}
