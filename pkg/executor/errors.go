package executor

import (
	"fmt"
	"strings"

	"github.com/driftsql/driftsql/pkg/logging"
	"github.com/driftsql/driftsql/pkg/template"
)

// QueryError wraps an execution failure with the rewritten query text and
// the full set of bound name/value pairs, so the diagnostic shows exactly
// what reached the provider. The original failure stays available through
// Unwrap.
type QueryError struct {
	SQL    string
	Params []template.BoundParameter
	Err    error
}

func (e *QueryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "execute query: %s", logging.SanitizeError(e.Err))
	fmt.Fprintf(&b, "\n  sql: %s", logging.SanitizeQuery(e.SQL))
	for _, p := range e.Params {
		fmt.Fprintf(&b, "\n  %s = %s", p.Name, logging.FormatValue(p.Value))
	}
	return b.String()
}

func (e *QueryError) Unwrap() error { return e.Err }
