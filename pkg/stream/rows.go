// Package stream materializes cursor rows into dynamic records and owns the
// cursor/connection lifecycle for one executed command.
package stream

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
	"github.com/driftsql/driftsql/pkg/record"
	"github.com/driftsql/driftsql/pkg/template"
)

// Rows wraps the row stream of one executed command together with its cursor
// and connection. The stream is lazy, single-pass and non-restartable; the
// cursor and connection are exclusively owned by this wrapper for the
// duration of the query.
//
// A connection can hold only one open cursor. A caller that abandons partial
// enumeration must call CloseCursor (to reuse the connection) or Close (to
// release everything) — the provider fails the next command otherwise.
type Rows struct {
	cursor   datasource.Cursor
	conn     datasource.Connection
	ownsConn bool
	hints    []template.ColumnHint

	mu       sync.Mutex
	disposed bool
}

// New wraps an open cursor. When ownsConn is true, Close also closes the
// connection.
func New(cursor datasource.Cursor, conn datasource.Connection, ownsConn bool, hints []template.ColumnHint) *Rows {
	return &Rows{cursor: cursor, conn: conn, ownsConn: ownsConn, hints: hints}
}

// Next fetches and materializes the next row. The second return is false at
// the end of the stream. On cancellation the wrapper unwinds — cursor closed,
// connection closed if owned — before the error is returned.
func (r *Rows) Next(ctx context.Context) (record.Value, bool, error) {
	ok, err := r.cursor.Next(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = r.Close()
		}
		return record.Value{}, false, err
	}
	if !ok {
		return record.Value{}, false, nil
	}

	v, err := materialize(r.cursor, r.hints)
	if err != nil {
		return record.Value{}, false, err
	}
	return v, true, nil
}

// Iter returns a single-use iterator over the remaining rows. A fetch or
// materialization failure is yielded once as the second element, then the
// sequence ends. Breaking out of the loop does not close the cursor; use
// CloseCursor or Close for that.
func (r *Rows) Iter(ctx context.Context) iter.Seq2[record.Value, error] {
	return func(yield func(record.Value, error) bool) {
		for {
			v, ok, err := r.Next(ctx)
			if err != nil {
				yield(record.Value{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// All drains the remaining rows on the calling goroutine and closes the
// cursor. The connection stays usable (or is closed, when owned and the
// stream ends in error through Close semantics the caller invokes).
func (r *Rows) All(ctx context.Context) ([]record.Value, error) {
	defer r.CloseCursor()

	var out []record.Value
	for v, err := range r.Iter(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// CloseCursor closes only the cursor, idempotently, leaving the connection
// free for another command.
func (r *Rows) CloseCursor() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeCursorLocked()
}

func (r *Rows) closeCursorLocked() error {
	if r.cursor == nil || r.cursor.IsClosed() {
		return nil
	}
	return r.cursor.Close()
}

// Close disposes the wrapper: closes the cursor if still open, then — only
// when the wrapper owns it — the connection. Idempotent; repeat calls are
// no-ops, and close failures of already-released handles are suppressed.
func (r *Rows) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return nil
	}
	r.disposed = true

	err := r.closeCursorLocked()
	if r.ownsConn && r.conn != nil {
		if cerr := r.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
