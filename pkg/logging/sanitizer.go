// Package logging sanitizes SQL text, connection strings and parameter
// values before they reach log output or error diagnostics.
package logging

import (
	"fmt"
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of query text to log.
	MaxQueryLogLength = 200
	// MaxValueLogLength is the maximum length of a parameter value to log.
	MaxValueLogLength = 80
	// RedactedText replaces sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@host credentials inside URL-style connection strings
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a connection string.
// Use this before logging any connection string.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeError scrubs an error message that may embed connection details.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeQuery truncates query text for logging.
func SanitizeQuery(query string) string {
	if len(query) > MaxQueryLogLength {
		return query[:MaxQueryLogLength] + "..."
	}
	return query
}

// FormatValue renders a bound-parameter value for diagnostics, truncating
// long strings so row-sized payloads never flood a log line.
func FormatValue(value any) string {
	if value == nil {
		return "NULL"
	}
	s := fmt.Sprintf("%v", value)
	if len(s) > MaxValueLogLength {
		return s[:MaxValueLogLength] + "..."
	}
	return s
}
