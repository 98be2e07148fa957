// Package template implements named-placeholder resolution for SQL and
// generic text: parameter-source normalization, last-registered-wins source
// merging, provider-native parameter binding and type-hint extraction.
package template

import (
	"fmt"
	"regexp"
	"sync"
)

// DefaultPlaceholderExpr matches {{parameter_name}} placeholders. Parameter
// names must start with a letter or underscore, followed by any number of
// alphanumeric characters or underscores.
const DefaultPlaceholderExpr = `(\{\{)([a-zA-Z_]\w*)(\}\})`

// Pattern is a compiled placeholder marker convention. Its regular expression
// must expose exactly three capture groups: open marker, parameter name and
// close marker. Distinct vocabularies can coexist in one template, e.g.
// `(\{\{)(\w+)(\}\})` next to `(\{auth\{)(\w+)(\}\})`.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

var (
	patternMu    sync.RWMutex
	patternCache = make(map[string]*Pattern)
)

// NewPattern compiles a marker pattern, reusing a process-wide cache.
// Compiled patterns are pure functions of their expression and are never
// evicted.
func NewPattern(expr string) (*Pattern, error) {
	patternMu.RLock()
	p, ok := patternCache[expr]
	patternMu.RUnlock()
	if ok {
		return p, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile marker pattern %q: %w", expr, err)
	}
	if re.NumSubexp() != 3 {
		return nil, fmt.Errorf("marker pattern %q must have exactly 3 capture groups (open, name, close), has %d", expr, re.NumSubexp())
	}

	p = &Pattern{expr: expr, re: re}

	patternMu.Lock()
	// Another goroutine may have compiled the same expression; keep one copy.
	if existing, ok := patternCache[expr]; ok {
		p = existing
	} else {
		patternCache[expr] = p
	}
	patternMu.Unlock()

	return p, nil
}

// MustPattern is NewPattern for patterns known valid at compile time.
func MustPattern(expr string) *Pattern {
	p, err := NewPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPattern returns the {{name}} pattern.
func DefaultPattern() *Pattern {
	return MustPattern(DefaultPlaceholderExpr)
}

// Expr returns the pattern's source expression. Two Pattern values with the
// same expression are the same marker vocabulary.
func (p *Pattern) Expr() string { return p.expr }

// match is one placeholder occurrence: the full matched text and its parts.
type match struct {
	full  string
	open  string
	name  string
	close string
}

// find returns one match per distinct full placeholder text, in order of
// first appearance.
func (p *Pattern) find(text string) []match {
	raw := p.re.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(raw))
	var out []match
	for _, m := range raw {
		if seen[m[0]] {
			continue
		}
		seen[m[0]] = true
		out = append(out, match{full: m[0], open: m[1], name: m[2], close: m[3]})
	}
	return out
}
