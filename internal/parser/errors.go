package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrParserNotFound means the requested parser name has no registration.
	// This is a deployment problem, not a data-quality one, and is never
	// converted into a statement status.
	ErrParserNotFound = errors.New("parser not found")

	// ErrHeaderNotFound means the transaction table header line is missing
	// from the document text.
	ErrHeaderNotFound = errors.New("statement header not found")

	// ErrEmptyStatement means the table header was found but no data line
	// followed it.
	ErrEmptyStatement = errors.New("statement has no transactions")
)

// MalformedLineError reports a data line that starts like a transaction but
// does not match the table grammar. It aborts the whole parse: a statement
// with one broken line must not silently produce wrong totals.
type MalformedLineError struct {
	Line string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed statement line: %q", e.Line)
}
