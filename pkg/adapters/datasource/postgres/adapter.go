//go:build postgres || all_adapters

package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
	"github.com/driftsql/driftsql/pkg/template"
)

// ParamPrefix is the marker pgx named arguments use in SQL text.
const ParamPrefix = "@"

// Connection adapts a pgx pool to the datasource.Connection contract.
type Connection struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	mu    sync.Mutex
	state datasource.State
}

// NewConnection creates a PostgreSQL connection. The pool is constructed
// lazily; Open verifies reachability.
func NewConnection(ctx context.Context, cfg *Config, logger *zap.Logger) (*Connection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, cfg.connString())
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &Connection{pool: pool, logger: logger}, nil
}

// NewConnectionFromPool wraps an existing pool (for tests or callers that
// manage their own pooling). The wrapper does not close a pool it did not
// create until Close is called on it explicitly.
func NewConnectionFromPool(pool *pgxpool.Pool, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{pool: pool, logger: logger}
}

// State reports the current lifecycle state.
func (c *Connection) State() datasource.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) setState(s datasource.State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Open pings the database.
func (c *Connection) Open(ctx context.Context) error {
	if c.State() == datasource.StateOpen {
		return nil
	}
	c.setState(datasource.StateBusy)
	if err := c.pool.Ping(ctx); err != nil {
		c.setState(datasource.StateClosed)
		return fmt.Errorf("open connection: %w", err)
	}
	c.setState(datasource.StateOpen)
	return nil
}

// Close releases the pool. Safe to call more than once.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == datasource.StateClosed {
		return nil
	}
	c.state = datasource.StateClosed
	c.pool.Close()
	return nil
}

// Query executes rewritten SQL with named arguments and returns a cursor.
func (c *Connection) Query(ctx context.Context, sqlText string, params []template.BoundParameter) (datasource.Cursor, error) {
	args := pgx.NamedArgs{}
	for _, p := range params {
		args[datasource.StripParamPrefix(p.Name)] = p.Value
	}

	c.setState(datasource.StateBusy)
	rows, err := c.pool.Query(ctx, sqlText, args)
	c.setState(datasource.StateOpen)
	if err != nil {
		return nil, err
	}

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = string(fd.Name)
	}
	return &pgCursor{rows: rows, names: names}, nil
}

// ParamPrefix returns "@", the pgx named-argument marker.
func (c *Connection) ParamPrefix() string { return ParamPrefix }

// pgCursor adapts pgx.Rows to the datasource.Cursor contract.
type pgCursor struct {
	rows    pgx.Rows
	names   []string
	current []any
	closed  bool
}

func (c *pgCursor) Next(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.closed {
		return false, nil
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return false, fmt.Errorf("advance cursor: %w", err)
		}
		return false, nil
	}
	values, err := c.rows.Values()
	if err != nil {
		return false, fmt.Errorf("read row values: %w", err)
	}
	c.current = values
	return true, nil
}

func (c *pgCursor) FieldCount() int { return len(c.names) }

func (c *pgCursor) Name(i int) string { return c.names[i] }

func (c *pgCursor) Value(i int) (any, error) {
	if c.current == nil {
		return nil, fmt.Errorf("no current row")
	}
	if i < 0 || i >= len(c.current) {
		return nil, fmt.Errorf("column index %d out of range", i)
	}
	return c.current[i], nil
}

func (c *pgCursor) IsClosed() bool { return c.closed }

func (c *pgCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.rows.Close()
	return nil
}

var _ datasource.Connection = (*Connection)(nil)
var _ datasource.Cursor = (*pgCursor)(nil)
