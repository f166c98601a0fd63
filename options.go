package locate

import (
	"time"
)

// LogFunc is the common logging func type.
type LogFunc func(string, ...interface{})

// Option is a Finder option.
type Option func(*Finder)

// WithLogf is a Finder option to specify a func to receive general logging.
func WithLogf(f LogFunc) Option {
	return func(r *Finder) {
		r.logf = f
	}
}

// WithDebugf is a Finder option to specify a func to receive debug logging
// (ie, every resolution with its locator, generation and result count).
func WithDebugf(f LogFunc) Option {
	return func(r *Finder) {
		r.debugf = f
	}
}

// WithErrorf is a Finder option to specify a func to receive error logging.
func WithErrorf(f LogFunc) Option {
	return func(r *Finder) {
		r.errf = f
	}
}

// WithLog is a Finder option that sets the logging, debugging, and error funcs
// to f.
func WithLog(f LogFunc) Option {
	return func(r *Finder) {
		r.logf, r.debugf, r.errf = f, f, f
	}
}

// WithPollInterval is a Finder option to set the interval between attempts of
// WaitOne and WaitMany.
func WithPollInterval(d time.Duration) Option {
	return func(r *Finder) {
		r.interval = d
	}
}

// findParams holds the per-call find options.
type findParams struct {
	scope *ElementHandle
	min   int
}

// FindOption is an option for a single find call.
type FindOption func(*findParams)

// FromElement is a find option to restrict the search to the subtree below
// the element h refers to. The call fails with ErrStaleElementReference,
// before any query runs, when h is stale.
//
// Structured and CSS locators never match the element itself. XPath
// expressions are evaluated with the element as the root of the tree, so an
// expression can select it: from a body element, ByXPath("//body") and
// ByXPath(".") return the body, while ByTagName("body") and ByCSS("body")
// return nothing. Use the descendant axis, as in ByXPath("descendant::body"),
// to search below the element only.
func FromElement(h ElementHandle) FindOption {
	return func(p *findParams) {
		p.scope = &h
	}
}

// AtLeast is a find option for WaitMany to wait until at least n elements
// match.
func AtLeast(n int) FindOption {
	return func(p *findParams) {
		p.min = n
	}
}
