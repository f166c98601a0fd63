package locate

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// DocumentSource supplies the document a resolution call runs against. It is
// consulted once per call.
type DocumentSource interface {
	Document(context.Context) (*Document, error)
}

// SourceFunc adapts a func to a DocumentSource.
type SourceFunc func(context.Context) (*Document, error)

// Document satisfies DocumentSource.
func (f SourceFunc) Document(ctx context.Context) (*Document, error) {
	return f(ctx)
}

// Static returns a DocumentSource that always supplies d.
func Static(d *Document) DocumentSource {
	return SourceFunc(func(context.Context) (*Document, error) {
		return d, nil
	})
}

// Document is a node tree plus the generation counter and handle registry
// that go with it.
//
// The generation starts at 1 and only ever grows. Every handle minted by the
// document is stamped with the generation current at mint time and becomes
// stale as soon as the generation advances.
type Document struct {
	id string

	// mu protects root, gen and handles. Queries hold it for their whole
	// duration, so a generation cannot advance between a query and the
	// minting of its result handles.
	mu      sync.Mutex
	root    *html.Node
	gen     uint64
	handles registry
}

// NewDocument creates a document over root. A nil root creates an empty
// document.
func NewDocument(root *html.Node) *Document {
	if root == nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return &Document{
		id:      uuid.NewString(),
		root:    root,
		gen:     1,
		handles: newRegistry(),
	}
}

// ParseDocument parses r as HTML and creates a document over the result.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// ParseDocumentString is ParseDocument for a string.
func ParseDocumentString(s string) (*Document, error) {
	return ParseDocument(strings.NewReader(s))
}

// ID returns the document id.
func (d *Document) ID() string {
	return d.id
}

// Generation returns the current generation.
func (d *Document) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Root returns the root node of the current tree.
func (d *Document) Root() *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root
}

// Advance starts a new generation, invalidating every handle minted so far,
// and returns the new generation.
func (d *Document) Advance() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.advance()
}

// Replace swaps in a new tree, as a navigation does, and starts a new
// generation. A nil root leaves an empty document.
func (d *Document) Replace(root *html.Node) uint64 {
	if root == nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = root
	return d.advance()
}

func (d *Document) advance() uint64 {
	d.gen++
	d.handles = newRegistry()
	return d.gen
}

// Resolve returns the node h refers to. It fails with
// ErrStaleElementReference when h was minted by another document or in an
// earlier generation.
func (d *Document) Resolve(h ElementHandle) (*html.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolve(h)
}

func (d *Document) resolve(h ElementHandle) (*html.Node, error) {
	switch {
	case h.IsZero():
		return nil, staleElement("zero element handle")
	case h.doc != d:
		return nil, staleElement("element " + h.id + " belongs to another document")
	case h.gen != d.gen:
		return nil, staleElement("element " + h.id + " is no longer attached to the document")
	}
	n, ok := d.handles.lookup(h)
	if !ok {
		return nil, staleElement("unknown element " + h.id)
	}
	return n, nil
}

// Mint returns the handle for n in the current generation. Minting the same
// node twice within a generation returns equal handles.
func (d *Document) Mint(n *html.Node) ElementHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handles.mint(d, d.gen, n)
}

// query runs eval under the document lock, below the node of scope (or the
// root, when scope is nil), and mints handles for its result.
func (d *Document) query(scope *ElementHandle, eval func(*html.Node) ([]*html.Node, error)) ([]ElementHandle, uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	root := d.root
	if scope != nil {
		n, err := d.resolve(*scope)
		if err != nil {
			return nil, d.gen, err
		}
		root = n
	}

	nodes, err := eval(root)
	if err != nil {
		return nil, d.gen, err
	}
	handles := make([]ElementHandle, len(nodes))
	for i, n := range nodes {
		handles[i] = d.handles.mint(d, d.gen, n)
	}
	return handles, d.gen, nil
}

// inspect runs f on the node of h under the document lock.
func (d *Document) inspect(h ElementHandle, f func(*html.Node)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.resolve(h)
	if err != nil {
		return err
	}
	f(n)
	return nil
}
