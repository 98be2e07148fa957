// Package apperrors defines the library's sentinel errors.
package apperrors

import "errors"

var (
	ErrEmptyQuery          = errors.New("query text is empty")
	ErrNilConnection       = errors.New("connection handle is nil")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrInjectionDetected   = errors.New("potential SQL injection in parameter value")
	ErrBusyWaitExceeded    = errors.New("connection stayed busy past the configured wait bound")
)
