package template

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DefaultHintExpr matches {type{tag{alias}}} column-type hint markers, e.g.
// "SELECT phones AS {type{json{phones}}} FROM users". Hint markers use a
// syntax disjoint from placeholder markers and the two never interact.
const DefaultHintExpr = `\{type\{([a-zA-Z]\w*)\{([a-zA-Z_]\w*)\}\}\}`

// ColumnHint marks a result column whose raw text should be parsed into a
// nested structure after the row is read.
type ColumnHint struct {
	Column string // the bare column alias left in the query
	Tag    string // "json", "xml", ...
}

// HintPattern is a compiled type-hint marker convention with exactly two
// capture groups: tag and column alias.
type HintPattern struct {
	expr string
	re   *regexp.Regexp
}

var (
	hintMu    sync.RWMutex
	hintCache = make(map[string]*HintPattern)
)

// NewHintPattern compiles a hint pattern, reusing a process-wide cache.
func NewHintPattern(expr string) (*HintPattern, error) {
	hintMu.RLock()
	p, ok := hintCache[expr]
	hintMu.RUnlock()
	if ok {
		return p, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile hint pattern %q: %w", expr, err)
	}
	if re.NumSubexp() != 2 {
		return nil, fmt.Errorf("hint pattern %q must have exactly 2 capture groups (tag, alias), has %d", expr, re.NumSubexp())
	}

	p = &HintPattern{expr: expr, re: re}

	hintMu.Lock()
	if existing, ok := hintCache[expr]; ok {
		p = existing
	} else {
		hintCache[expr] = p
	}
	hintMu.Unlock()

	return p, nil
}

// MustHintPattern is NewHintPattern for patterns known valid at compile time.
func MustHintPattern(expr string) *HintPattern {
	p, err := NewHintPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultHintPattern returns the {type{tag{alias}}} pattern.
func DefaultHintPattern() *HintPattern {
	return MustHintPattern(DefaultHintExpr)
}

// ExtractHints rewrites every hint marker in queryText down to its bare
// column alias and returns the collected hints. Runs once, before Bind, so
// the executed query only ever sees ordinary column aliases. A nil pattern
// means the default hint pattern.
func ExtractHints(queryText string, p *HintPattern) (string, []ColumnHint) {
	if p == nil {
		p = DefaultHintPattern()
	}

	var hints []ColumnHint
	seen := make(map[string]bool)

	stripped := p.re.ReplaceAllStringFunc(queryText, func(m string) string {
		sub := p.re.FindStringSubmatch(m)
		tag, alias := sub[1], sub[2]
		key := strings.ToLower(alias)
		if !seen[key] {
			seen[key] = true
			hints = append(hints, ColumnHint{Column: alias, Tag: tag})
		}
		return alias
	})

	return stripped, hints
}

// HintFor finds the hint for a column alias, case-insensitively.
func HintFor(hints []ColumnHint, column string) (ColumnHint, bool) {
	for _, h := range hints {
		if strings.EqualFold(h.Column, column) {
			return h, true
		}
	}
	return ColumnHint{}, false
}
