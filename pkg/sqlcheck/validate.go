// Package sqlcheck runs pre-execution safety checks on query text and bound
// parameter values: single-statement normalization and SQL-injection
// scanning.
package sqlcheck

import (
	"errors"
	"strings"
)

// ErrMultipleStatements indicates the query contains more than one SQL
// statement; only single statements are permitted.
var ErrMultipleStatements = errors.New("multiple SQL statements not allowed")

// Normalize strips a trailing semicolon (plus surrounding whitespace) and
// rejects text containing further statements. Any semicolon left outside a
// string literal after normalization means multiple statements.
func Normalize(sqlText string) (string, error) {
	normalized := strings.TrimRight(strings.TrimSpace(sqlText), " \t\n\r")
	if trimmed, ok := strings.CutSuffix(normalized, ";"); ok {
		normalized = strings.TrimRight(trimmed, " \t\n\r")
	}

	if semicolonOutsideStrings(normalized) {
		return "", ErrMultipleStatements
	}
	return normalized, nil
}

// semicolonOutsideStrings reports whether the SQL contains a semicolon that
// is not inside a single- or double-quoted literal. Both backslash escapes
// and SQL-standard doubled quotes are tolerated: a doubled quote exits and
// immediately re-enters the string state, which is equivalent to staying in.
func semicolonOutsideStrings(sqlText string) bool {
	const (
		normal = iota
		singleQuoted
		doubleQuoted
	)

	state := normal
	var prev rune

	for _, c := range sqlText {
		switch state {
		case normal:
			switch c {
			case ';':
				return true
			case '\'':
				state = singleQuoted
			case '"':
				state = doubleQuoted
			}
		case singleQuoted:
			if c == '\'' && prev != '\\' {
				state = normal
			}
		case doubleQuoted:
			if c == '"' && prev != '\\' {
				state = normal
			}
		}
		prev = c
	}
	return false
}
