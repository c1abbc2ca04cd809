// Package diag contains building blocks for diagnostics that point into a
// source document: ranges, contexts with source excerpts, and errors that
// carry both.
package diag

import (
	"fmt"
	"strings"
)

// Error is an error with a category and a context into the source document.
type Error struct {
	// Type is the error category, e.g. "lex error" or "parse error".
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d-%d in %s: %s",
		e.Type, e.Context.From, e.Context.To, e.Context.Name, e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error with the message highlighted, followed by the source
// context.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: \033[31;1m%s\033[m\n", title(e.Type), e.Message)
	return header + e.Context.ShowCompact(indent+"  ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Shower wraps the Show method.
type Shower interface {
	// Show takes an indentation string to prepend to all but the first line
	// of the representation.
	Show(indent string) string
}
