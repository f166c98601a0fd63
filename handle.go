package locate

import (
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// ElementHandle is an opaque, generation-stamped reference to an element of a
// Document.
//
// Handles are values: two handles minted for the same element within the same
// document generation compare equal with ==.
type ElementHandle struct {
	id  string
	doc *Document
	gen uint64
}

// ID returns the opaque token identifying the handle.
func (h ElementHandle) ID() string {
	return h.id
}

// Generation returns the document generation the handle was minted in.
func (h ElementHandle) Generation() uint64 {
	return h.gen
}

// DocumentID returns the id of the document owning the handle.
func (h ElementHandle) DocumentID() string {
	if h.doc == nil {
		return ""
	}
	return h.doc.id
}

// IsZero reports whether h is the zero handle.
func (h ElementHandle) IsZero() bool {
	return h == ElementHandle{}
}

// String satisfies fmt.Stringer.
func (h ElementHandle) String() string {
	return h.id
}

// registry maps the handles of one document generation to their nodes.
type registry struct {
	byNode map[*html.Node]ElementHandle
	byID   map[string]*html.Node
}

func newRegistry() registry {
	return registry{
		byNode: make(map[*html.Node]ElementHandle),
		byID:   make(map[string]*html.Node),
	}
}

// mint returns the handle of n, creating it on first use.
func (r registry) mint(d *Document, gen uint64, n *html.Node) ElementHandle {
	if h, ok := r.byNode[n]; ok {
		return h
	}
	h := ElementHandle{
		id:  uuid.NewString(),
		doc: d,
		gen: gen,
	}
	r.byNode[n] = h
	r.byID[h.id] = n
	return h
}

// lookup returns the node of h.
func (r registry) lookup(h ElementHandle) (*html.Node, bool) {
	n, ok := r.byID[h.id]
	return n, ok
}
