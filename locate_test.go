package locate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/net/html"
)

// testParse parses the named page from testdata.
func testParse(tb testing.TB, name string) *html.Node {
	tb.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()
	root, err := html.Parse(f)
	if err != nil {
		tb.Fatal(err)
	}
	return root
}

// testFinder returns a finder over a fresh document loaded from the named
// testdata page.
func testFinder(tb testing.TB, name string) (*Finder, *Document) {
	tb.Helper()
	doc := NewDocument(testParse(tb, name))
	return NewFinder(Static(doc), WithErrorf(tb.Logf)), doc
}

// mustFindOne finds l or fails the test.
func mustFindOne(tb testing.TB, f *Finder, l Locator, opts ...FindOption) ElementHandle {
	tb.Helper()
	h, err := f.FindOne(context.Background(), l, opts...)
	if err != nil {
		tb.Fatalf("find %s: got error: %v", l, err)
	}
	return h
}

// attr returns the named attribute of h or fails the test.
func attr(tb testing.TB, f *Finder, h ElementHandle, name string) string {
	tb.Helper()
	v, _, err := f.Attribute(h, name)
	if err != nil {
		tb.Fatalf("attribute %q: got error: %v", name, err)
	}
	return v
}

// text returns the visible text of h or fails the test.
func text(tb testing.TB, f *Finder, h ElementHandle) string {
	tb.Helper()
	s, err := f.Text(h)
	if err != nil {
		tb.Fatalf("text: got error: %v", err)
	}
	return s
}

// wantKind fails the test unless err is of kind k.
func wantKind(tb testing.TB, err error, k Error) {
	tb.Helper()
	if err == nil {
		tb.Fatalf("expected %q error, got nil", k)
	}
	if !errors.Is(err, k) {
		tb.Fatalf("expected %q error, got: %v", k, err)
	}
}
