// Package errors provides structured errors for relit.
//
// Each error carries a category (which layer failed), a short message,
// and an optional suggestion for fixing the input. The reconciliation
// core performs no recovery of its own: errors here surface to the
// caller's error-handling context and are never retried internally.
package errors

import "fmt"

// Category identifies the layer an error originates from.
type Category string

const (
	CategoryTemplate Category = "template" // hole syntax / markup parsing
	CategoryBind     Category = "bind"     // value classification / coercion
	CategoryDOM      Category = "dom"      // tree-level misuse
)

// Error is a structured relit error.
type Error struct {
	Category   Category
	Message    string
	Suggestion string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("relit/%s: %s", e.Category, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an error in the given category.
func New(cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error in the given category around a cause.
func Wrap(cat Category, cause error, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithSuggestion attaches a fix-it hint and returns the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}
