package locate

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestLocateError(t *testing.T) {
	t.Parallel()

	err := &LocateError{
		Kind:    ErrInvalidSelector,
		Locator: ByCSS("div["),
		Reason:  "could not parse css selector",
		Err:     io.ErrUnexpectedEOF,
	}
	if s := err.Error(); s != "invalid selector: css selector=div[: could not parse css selector: unexpected EOF" {
		t.Errorf("unexpected message %q", s)
	}

	wrapped := fmt.Errorf("find: %w", err)
	if !errors.Is(wrapped, ErrInvalidSelector) {
		t.Error("expected wrapped error to be an invalid selector")
	}
	if errors.Is(wrapped, ErrNoSuchElement) {
		t.Error("expected wrapped error not to be a missing element")
	}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
	var e *LocateError
	if !errors.As(wrapped, &e) || e.Locator != ByCSS("div[") {
		t.Errorf("expected to recover the locator, got %v", e)
	}
}

func TestWithLocator(t *testing.T) {
	t.Parallel()

	orig := invalidSelector("bad", nil)
	err := withLocator(orig, ByXPath("//x"))
	if e := err.(*LocateError); e.Locator != ByXPath("//x") {
		t.Errorf("expected locator to be attached, got %v", e.Locator)
	}
	if orig.Locator.Strategy != "" {
		t.Error("expected the original error to be left untouched")
	}

	// an existing locator is kept
	if e := withLocator(err, ByID("y")).(*LocateError); e.Locator != ByXPath("//x") {
		t.Errorf("expected the first locator to be kept, got %v", e.Locator)
	}

	// other errors pass through
	if withLocator(io.EOF, ByID("y")) != io.EOF {
		t.Error("expected a foreign error to pass through")
	}
	if s := staleElement("gone").Error(); s != "stale element reference: gone" {
		t.Errorf("unexpected message %q", s)
	}
}
