package db

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsAuthError reports whether err indicates rejected warehouse credentials.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	// PostgreSQL (28P01 / 28000)
	if strings.Contains(msg, "password authentication failed") ||
		strings.Contains(msg, "SQLSTATE 28") {
		return true
	}

	// MySQL (error code 1045)
	if strings.Contains(msg, "Error 1045") ||
		strings.Contains(msg, "Access denied for user") {
		return true
	}

	if strings.Contains(strings.ToLower(msg), "token expired") ||
		strings.Contains(strings.ToLower(msg), "authentication") {
		return true
	}

	return false
}

// IsConnectionError reports whether err indicates the warehouse is unreachable.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gorm.ErrInvalidDB) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"broken pipe",
		"bad connection",
		"dial tcp",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}

	return false
}
