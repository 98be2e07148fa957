package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/template"
)

// SQLConnection adapts a database/sql handle to the Connection contract.
// Providers whose drivers speak database/sql (SQL Server, and anything a
// caller brings) wrap their *sql.DB in one of these.
type SQLConnection struct {
	db          *sql.DB
	paramPrefix string
	logger      *zap.Logger

	mu    sync.Mutex
	state State
}

// NewSQLConnection wraps an already-constructed *sql.DB. The connection
// starts closed; Open verifies reachability with a ping.
func NewSQLConnection(db *sql.DB, paramPrefix string, logger *zap.Logger) *SQLConnection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLConnection{db: db, paramPrefix: paramPrefix, logger: logger}
}

// State reports the current lifecycle state.
func (c *SQLConnection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SQLConnection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Open pings the database to verify the handle is usable.
func (c *SQLConnection) Open(ctx context.Context) error {
	if c.State() == StateOpen {
		return nil
	}
	c.setState(StateBusy)
	if err := c.db.PingContext(ctx); err != nil {
		c.setState(StateClosed)
		return fmt.Errorf("open connection: %w", err)
	}
	c.setState(StateOpen)
	return nil
}

// Close releases the underlying handle. Safe to call more than once.
func (c *SQLConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	return c.db.Close()
}

// Query executes the rewritten SQL with named parameters and returns a cursor.
func (c *SQLConnection) Query(ctx context.Context, sqlText string, params []template.BoundParameter) (Cursor, error) {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = sql.Named(StripParamPrefix(p.Name), p.Value)
	}

	c.setState(StateBusy)
	rows, err := c.db.QueryContext(ctx, sqlText, args...)
	c.setState(StateOpen)
	if err != nil {
		return nil, err
	}
	return newSQLCursor(rows)
}

// ParamPrefix returns the provider's parameter-name prefix.
func (c *SQLConnection) ParamPrefix() string { return c.paramPrefix }

// StripParamPrefix removes leading non-identifier characters from a generated
// parameter name; drivers want "p0_id", not "@p0_id".
func StripParamPrefix(name string) string {
	return strings.TrimLeftFunc(name, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// sqlCursor adapts *sql.Rows to the Cursor contract.
type sqlCursor struct {
	rows    *sql.Rows
	columns []string
	textish []bool // columns whose []byte values should surface as string
	current []any
	closed  bool
}

func newSQLCursor(rows *sql.Rows) (*sqlCursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	textish := make([]bool, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			textish[i] = isTextType(ct.DatabaseTypeName())
		}
	}

	return &sqlCursor{rows: rows, columns: columns, textish: textish}, nil
}

func (c *sqlCursor) Next(ctx context.Context) (bool, error) {
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

	values := make([]any, len(c.columns))
	ptrs := make([]any, len(c.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return false, fmt.Errorf("scan row: %w", err)
	}

	for i, v := range values {
		if b, ok := v.([]byte); ok && c.textish[i] {
			values[i] = string(b)
		}
	}
	c.current = values
	return true, nil
}

func (c *sqlCursor) FieldCount() int { return len(c.columns) }

func (c *sqlCursor) Name(i int) string { return c.columns[i] }

func (c *sqlCursor) Value(i int) (any, error) {
	if c.current == nil {
		return nil, fmt.Errorf("no current row")
	}
	if i < 0 || i >= len(c.current) {
		return nil, fmt.Errorf("column index %d out of range", i)
	}
	return c.current[i], nil
}

func (c *sqlCursor) IsClosed() bool { return c.closed }

func (c *sqlCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}

// isTextType reports whether a driver type name holds character data that
// should surface as a Go string rather than raw bytes.
func isTextType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "CHAR", "VARCHAR", "NCHAR", "NVARCHAR", "TEXT", "NTEXT",
		"JSON", "JSONB", "XML", "UUID", "UNIQUEIDENTIFIER":
		return true
	default:
		return false
	}
}

var _ Connection = (*SQLConnection)(nil)
var _ Cursor = (*sqlCursor)(nil)
