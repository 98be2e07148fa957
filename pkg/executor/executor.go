// Package executor ties the pipeline together: normalize and pre-process the
// query text, reduce the parameter sources, bind placeholders to
// provider-native parameters, guard the connection and hand back a
// resource-safe row stream.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
	"github.com/driftsql/driftsql/pkg/apperrors"
	"github.com/driftsql/driftsql/pkg/config"
	"github.com/driftsql/driftsql/pkg/logging"
	"github.com/driftsql/driftsql/pkg/sqlcheck"
	"github.com/driftsql/driftsql/pkg/stream"
	"github.com/driftsql/driftsql/pkg/template"
)

// Executor runs templated queries against provider connections.
type Executor struct {
	opts   *config.Options
	logger *zap.Logger
}

// New creates an executor. Nil arguments fall back to default options and a
// no-op logger.
func New(opts *config.Options, logger *zap.Logger) *Executor {
	if opts == nil {
		opts = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{opts: opts, logger: logger}
}

// Query executes templated SQL and returns the row stream. The connection
// stays owned by the caller: closing the returned rows frees only the cursor.
func (e *Executor) Query(ctx context.Context, conn datasource.Connection, queryText string, sources ...template.Source) (*stream.Rows, error) {
	return e.run(ctx, conn, queryText, sources, false)
}

// QueryOwned is Query for a connection the row stream should own: disposing
// the returned rows also closes the connection.
func (e *Executor) QueryOwned(ctx context.Context, conn datasource.Connection, queryText string, sources ...template.Source) (*stream.Rows, error) {
	return e.run(ctx, conn, queryText, sources, true)
}

func (e *Executor) run(ctx context.Context, conn datasource.Connection, queryText string, sources []template.Source, ownsConn bool) (*stream.Rows, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, apperrors.ErrEmptyQuery
	}
	if conn == nil {
		return nil, apperrors.ErrNilConnection
	}

	// Ownership is taken here: every failure below must release an owned
	// connection, not just the provider call itself.
	fail := func(err error) (*stream.Rows, error) {
		if ownsConn {
			_ = conn.Close()
		}
		return nil, err
	}

	execID := uuid.NewString()

	normalized, err := sqlcheck.Normalize(queryText)
	if err != nil {
		return fail(err)
	}

	hintPattern, err := e.hintPattern()
	if err != nil {
		return fail(err)
	}
	stripped, hints := template.ExtractHints(normalized, hintPattern)

	groups := template.Reduce(e.withDefaultPattern(sources), true, e.opts.CaseSensitive)

	prefix := e.opts.ParamPrefix
	if prefix == "" {
		prefix = conn.ParamPrefix()
	}
	sqlText, params := template.Bind(stripped, groups, template.BindOptions{
		Prefix:         prefix,
		NamingTemplate: e.opts.NamingTemplate,
		CaseSensitive:  e.opts.CaseSensitive,
	})

	if findings := sqlcheck.ScanParameters(params); len(findings) > 0 {
		for _, f := range findings {
			e.logger.Warn("injection pattern in bound parameter",
				zap.String("execution_id", execID),
				zap.String("param", f.ParamName),
				zap.String("fingerprint", f.Fingerprint))
		}
		if e.opts.RejectInjection {
			return fail(fmt.Errorf("%w: parameter %s", apperrors.ErrInjectionDetected, findings[0].ParamName))
		}
	}

	guardOpts := datasource.GuardOptions{
		PollInterval: time.Duration(e.opts.GuardPollMillis) * time.Millisecond,
		MaxWait:      time.Duration(e.opts.GuardMaxWaitMillis) * time.Millisecond,
	}
	if err := datasource.EnsureOpen(ctx, conn, guardOpts); err != nil {
		return fail(fmt.Errorf("ensure connection open: %w", err))
	}

	e.logger.Debug("executing query",
		zap.String("execution_id", execID),
		zap.String("sql", logging.SanitizeQuery(sqlText)),
		zap.Int("params", len(params)))

	cursor, err := conn.Query(ctx, sqlText, params)
	if err != nil {
		return fail(&QueryError{SQL: sqlText, Params: params, Err: err})
	}

	return stream.New(cursor, conn, ownsConn, hints), nil
}

// Fill substitutes placeholders in a generic text template using the
// configured null replacement; unresolvable placeholders never survive as
// raw marker text.
func (e *Executor) Fill(text string, sources ...template.Source) string {
	return e.FillWith(text, nil, sources...)
}

// FillWith is Fill with a custom value converter.
func (e *Executor) FillWith(text string, converter func(name string, value any) string, sources ...template.Source) string {
	groups := template.Reduce(e.withDefaultPattern(sources), true, e.opts.CaseSensitive)
	return template.Fill(text, groups, template.FillOptions{
		NullReplacement: e.opts.NullReplacement,
		Converter:       converter,
	})
}

// withDefaultPattern resolves sources registered without an explicit pattern
// against the configured default placeholder pattern.
func (e *Executor) withDefaultPattern(sources []template.Source) []template.Source {
	if e.opts.PlaceholderPattern == "" {
		return sources
	}
	def, err := template.NewPattern(e.opts.PlaceholderPattern)
	if err != nil {
		// A broken configured pattern must not silently change lookup
		// semantics; fall back to the built-in default.
		e.logger.Warn("invalid configured placeholder pattern", zap.Error(err))
		return sources
	}
	out := make([]template.Source, len(sources))
	for i, s := range sources {
		if s.Pattern == nil {
			s.Pattern = def
		}
		out[i] = s
	}
	return out
}

func (e *Executor) hintPattern() (*template.HintPattern, error) {
	if e.opts.TypeHintPattern == "" {
		return template.DefaultHintPattern(), nil
	}
	p, err := template.NewHintPattern(e.opts.TypeHintPattern)
	if err != nil {
		return nil, fmt.Errorf("configured type-hint pattern: %w", err)
	}
	return p, nil
}
