// Package validation checks user-supplied database locations and statements
// before they reach the SQLite driver.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Limits on user input.
const (
	// MaxPathLength is the maximum allowed database path length.
	MaxPathLength = 4096
	// MaxStatementLength is the maximum allowed SQL statement length (1 MB).
	MaxStatementLength = 1 << 20
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyStatement   = errors.New("statement cannot be empty")
	ErrStatementTooLong = errors.New("statement too long")
)

// memoryDSN opens a private in-memory database.
const memoryDSN = ":memory:"

// ValidatePath checks a filesystem path for length limits and characters the
// driver cannot pass to the operating system.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateDatabase checks a database location as accepted by --db: the
// in-memory name, a file: URI, or a plain path. For URIs only the path part
// before any query string is checked.
func ValidateDatabase(dsn string) error {
	if dsn == memoryDSN {
		return nil
	}
	path := dsn
	if rest, ok := strings.CutPrefix(dsn, "file:"); ok {
		path, _, _ = strings.Cut(rest, "?")
		if path == memoryDSN || path == "" {
			return nil
		}
	}
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("database %q: %w", dsn, err)
	}
	return nil
}

// ValidateStatement rejects empty or oversized SQL text.
func ValidateStatement(sql string) error {
	if strings.TrimSpace(sql) == "" {
		return ErrEmptyStatement
	}
	if len(sql) > MaxStatementLength {
		return ErrStatementTooLong
	}
	return nil
}
