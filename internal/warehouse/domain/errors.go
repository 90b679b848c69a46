package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a warehouse load failure.
type ErrorKind string

const (
	// ErrorKindAuth means the warehouse rejected our credentials. This is a
	// distinguished condition: callers surface it for a manual retry instead
	// of silently falling back to sample data.
	ErrorKindAuth ErrorKind = "auth"

	// ErrorKindConnection means the warehouse was unreachable.
	ErrorKindConnection ErrorKind = "connection"

	// ErrorKindQuery covers everything else the warehouse returned.
	ErrorKindQuery ErrorKind = "query"
)

// SourceError is a failed load from one warehouse view.
type SourceError struct {
	Kind ErrorKind
	View string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("warehouse %s error on %s: %v", e.Kind, e.View, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// AsSourceError unwraps err to a *SourceError, if it is one.
func AsSourceError(err error) (*SourceError, bool) {
	var srcErr *SourceError
	if errors.As(err, &srcErr) && srcErr != nil {
		return srcErr, true
	}
	return nil, false
}

// IsAuthError reports whether err is a rejected-credentials load failure.
func IsAuthError(err error) bool {
	srcErr, ok := AsSourceError(err)
	return ok && srcErr.Kind == ErrorKindAuth
}
