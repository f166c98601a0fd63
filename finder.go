package locate

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Finder resolves locators to element handles against the document supplied
// by its DocumentSource.
//
// A Finder holds no per-document state; handle validity is tracked by the
// documents themselves, so one Finder may serve any number of documents
// concurrently.
type Finder struct {
	src DocumentSource

	// interval is the delay between attempts of the Wait* calls.
	interval time.Duration

	// logging funcs
	logf, debugf, errf LogFunc
}

// NewFinder creates a Finder over src.
func NewFinder(src DocumentSource, opts ...Option) *Finder {
	f := &Finder{
		src:      src,
		interval: DefaultPollInterval,
		logf:     nopf,
		debugf:   nopf,
		errf:     nopf,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func nopf(string, ...interface{}) {}

// FindOne returns the first element matching l, in document order.
//
// It fails with ErrNoSuchElement when nothing matches, with
// ErrInvalidSelector when l cannot be translated or evaluated, and with
// ErrStaleElementReference when the FromElement scope is stale.
func (f *Finder) FindOne(ctx context.Context, l Locator, opts ...FindOption) (ElementHandle, error) {
	handles, err := f.find(ctx, l, 1, opts)
	if err != nil {
		return ElementHandle{}, err
	}
	if len(handles) == 0 {
		return ElementHandle{}, &LocateError{
			Kind:    ErrNoSuchElement,
			Locator: l,
			Reason:  "unable to locate element",
		}
	}
	return handles[0], nil
}

// FindMany returns every element matching l, in document order. Matching
// nothing is not an error: the result is then empty.
func (f *Finder) FindMany(ctx context.Context, l Locator, opts ...FindOption) ([]ElementHandle, error) {
	return f.find(ctx, l, 0, opts)
}

func (f *Finder) find(ctx context.Context, l Locator, limit int, opts []FindOption) ([]ElementHandle, error) {
	var p findParams
	for _, o := range opts {
		o(&p)
	}

	plan, err := Translate(l)
	if err != nil {
		f.errf("could not translate %s: %v", l, err)
		return nil, err
	}

	doc, err := f.src.Document(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &LocateError{Kind: ErrNoDocument, Locator: l}
	}

	handles, gen, err := doc.query(p.scope, func(scope *html.Node) ([]*html.Node, error) {
		return evaluate(plan, scope, limit)
	})
	if err != nil {
		err = withLocator(err, l)
		f.errf("could not resolve %s in document %s (generation %d): %v", l, doc.id, gen, err)
		return nil, err
	}
	f.debugf("resolved %s (%s plan) in document %s (generation %d): %d element(s)", l, plan.Kind, doc.id, gen, len(handles))
	return handles, nil
}

// Resolve returns the node h refers to, failing with
// ErrStaleElementReference when h is no longer valid.
func (f *Finder) Resolve(h ElementHandle) (*html.Node, error) {
	if h.doc == nil {
		return nil, staleElement("zero element handle")
	}
	return h.doc.Resolve(h)
}

// Attribute returns the named attribute of the element h refers to, read
// through Attr.
func (f *Finder) Attribute(h ElementHandle, name string) (value string, ok bool, err error) {
	err = f.inspect(h, func(n *html.Node) {
		value, ok = Attr(n, name)
	})
	return value, ok, err
}

// Text returns the visible text of the element h refers to.
func (f *Finder) Text(h ElementHandle) (text string, err error) {
	err = f.inspect(h, func(n *html.Node) {
		text = VisibleText(n)
	})
	return text, err
}

// TagName returns the lower-cased tag name of the element h refers to.
func (f *Finder) TagName(h ElementHandle) (tag string, err error) {
	err = f.inspect(h, func(n *html.Node) {
		tag = strings.ToLower(n.Data)
	})
	return tag, err
}

// Selected reports whether the element h refers to is a selected option or a
// checked checkbox or radio button.
func (f *Finder) Selected(h ElementHandle) (selected bool, err error) {
	err = f.inspect(h, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Option:
			_, selected = Attr(n, "selected")
		case atom.Input:
			t, _ := rawAttr(n, "type")
			if t = strings.ToLower(t); t == "checkbox" || t == "radio" {
				_, selected = Attr(n, "checked")
			}
		}
	})
	return selected, err
}

func (f *Finder) inspect(h ElementHandle, fn func(*html.Node)) error {
	if h.doc == nil {
		return staleElement("zero element handle")
	}
	return h.doc.inspect(h, fn)
}
