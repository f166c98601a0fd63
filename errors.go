package locate

import (
	"strconv"
)

// Error is a locate error kind.
type Error string

// Error satisfies the error interface.
func (err Error) Error() string {
	return string(err)
}

// Error kinds.
const (
	// ErrNoSuchElement is the error returned when a single element lookup
	// matched nothing.
	ErrNoSuchElement Error = "no such element"

	// ErrInvalidSelector is the error returned when a selector is malformed,
	// when an XPath expression does not evaluate to elements, or when a class
	// name locator is compound.
	ErrInvalidSelector Error = "invalid selector"

	// ErrStaleElementReference is the error returned when an element handle
	// belongs to a document generation that is no longer current.
	ErrStaleElementReference Error = "stale element reference"

	// ErrNoSuchFrame is the error returned when switching to a frame that does
	// not exist.
	ErrNoSuchFrame Error = "no such frame"

	// ErrNoDocument is the error returned when a document source has no
	// document to query.
	ErrNoDocument Error = "no document"
)

// LocateError is the error returned by the resolution calls. It carries the
// kind of failure plus the locator that produced it.
type LocateError struct {
	Kind    Error
	Locator Locator
	Reason  string
	Err     error
}

// Error satisfies the error interface.
func (e *LocateError) Error() string {
	s := string(e.Kind)
	if e.Locator.Strategy != "" {
		s += ": " + e.Locator.String()
	}
	if e.Reason != "" {
		s += ": " + e.Reason
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *LocateError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e, so that
// errors.Is(err, ErrInvalidSelector) works for any LocateError.
func (e *LocateError) Is(target error) bool {
	k, ok := target.(Error)
	return ok && k == e.Kind
}

func invalidSelector(reason string, err error) *LocateError {
	return &LocateError{Kind: ErrInvalidSelector, Reason: reason, Err: err}
}

func staleElement(reason string) *LocateError {
	return &LocateError{Kind: ErrStaleElementReference, Reason: reason}
}

// withLocator attaches l to err when err is a LocateError without a locator.
func withLocator(err error, l Locator) error {
	if e, ok := err.(*LocateError); ok && e.Locator.Strategy == "" {
		c := *e
		c.Locator = l
		return &c
	}
	return err
}

func quote(s string) string {
	return strconv.Quote(s)
}
