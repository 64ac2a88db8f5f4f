// Package diagnostic defines the error values produced by the sonar lexer and
// parser. Every failure is reported as a single *Error carrying the offending
// span, its resolved location, and the caller-supplied source name.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/sonar-lang/sonar/internal/position"
)

// Kind classifies a diagnostic by the stage that produced it.
type Kind int

const (
	KindLex Kind = iota
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a terminal lexical or syntax error.
type Error struct {
	Kind    Kind
	Message string

	// Incomplete is set when the input ended where the grammar still required
	// more tokens. It is always false for lexical errors.
	Incomplete bool

	Span       position.Span
	Location   position.Location
	SourceName string
}

// NewLexError builds a lexical error at offset, resolving its location from
// the line starts seen so far.
func NewLexError(message string, offset int, lines position.LineTable) *Error {
	return &Error{
		Kind:     KindLex,
		Message:  message,
		Span:     position.Span{Start: offset, End: offset},
		Location: lines.Locate(offset),
	}
}

// NewParseError builds a syntax error covering span.
func NewParseError(message string, span position.Span, lines position.LineTable, incomplete bool, sourceName string) *Error {
	return &Error{
		Kind:       KindParse,
		Message:    message,
		Incomplete: incomplete,
		Span:       span,
		Location:   lines.Locate(span.Start),
		SourceName: sourceName,
	}
}

// Error renders the diagnostic as "name:line:column: error: message".
func (e *Error) Error() string {
	if e.SourceName == "" {
		return fmt.Sprintf("%d:%d: error: %s", e.Location.Line, e.Location.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: error: %s", e.SourceName, e.Location.Line, e.Location.Column, e.Message)
}

// WithSourceName returns a copy of e labelled with name.
func (e *Error) WithSourceName(name string) *Error {
	labelled := *e
	labelled.SourceName = name
	return &labelled
}

// IsIncomplete reports whether err is a diagnostic raised because the input
// ended early. Interactive callers use it to keep reading lines.
func IsIncomplete(err error) bool {
	var diag *Error
	return errors.As(err, &diag) && diag.Incomplete
}

// As extracts the *Error from err, if there is one.
func As(err error) (*Error, bool) {
	var diag *Error
	if errors.As(err, &diag) {
		return diag, true
	}
	return nil, false
}
