package locate

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Frame is a browsing context in a FrameTree.
type Frame struct {
	name   string
	doc    *Document
	parent *Frame
	// owner is the frame or iframe element hosting the frame in its parent's
	// document, if one could be found.
	owner    *html.Node
	children []*Frame
}

// Name returns the name the frame was attached with.
func (f *Frame) Name() string {
	return f.name
}

// Document returns the frame's document.
func (f *Frame) Document() *Document {
	return f.doc
}

// Parent returns the parent frame, or nil for the top-level frame.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// matches reports whether f can be selected with key: its attach name, or the
// name or id attribute of its owner element.
func (f *Frame) matches(key string) bool {
	if f.name == key {
		return true
	}
	for _, attr := range []string{"name", "id"} {
		if v, ok := rawAttr(f.owner, attr); ok && v == key {
			return true
		}
	}
	return false
}

// discard advances the generation of f and every descendant frame.
func (f *Frame) discard() {
	f.doc.Advance()
	for _, c := range f.children {
		c.discard()
	}
}

// FrameTree tracks the frames of a page and which of them is current.
//
// A FrameTree is a DocumentSource supplying the current frame's document, so a
// Finder created over it always queries the frame that was last switched to.
// Leaving a frame advances that frame's document generation; frames that are
// neither left nor navigated keep their generation.
type FrameTree struct {
	mu  sync.Mutex
	top *Frame
	cur *Frame

	logf func(string, ...interface{})
}

// NewFrameTree creates a frame tree with a top-level frame showing root.
func NewFrameTree(root *html.Node, opts ...FrameTreeOption) *FrameTree {
	top := &Frame{doc: NewDocument(root)}
	t := &FrameTree{
		top:  top,
		cur:  top,
		logf: func(string, ...interface{}) {},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// FrameTreeOption is a frame tree option.
type FrameTreeOption func(*FrameTree)

// WithFrameLogf is a frame tree option to specify a func to receive frame
// switch and navigation logging.
func WithFrameLogf(f func(string, ...interface{})) FrameTreeOption {
	return func(t *FrameTree) {
		t.logf = f
	}
}

// Document satisfies DocumentSource.
func (t *FrameTree) Document(context.Context) (*Document, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur.doc, nil
}

// Top returns the top-level frame.
func (t *FrameTree) Top() *Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.top
}

// Current returns the current frame.
func (t *FrameTree) Current() *Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur
}

// Navigate loads root into the top-level frame. The top-level document starts
// a new generation, all child frames are discarded, and the top-level frame
// becomes current.
func (t *FrameTree) Navigate(root *html.Node) *Document {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, c := range t.top.children {
		c.discard()
	}
	t.top.children = nil
	gen := t.top.doc.Replace(root)
	t.cur = t.top
	t.logf("navigated top-level frame, generation %d", gen)
	return t.top.doc
}

// AttachFrame adds a child frame named name, showing root, to parent. A nil
// parent attaches to the top-level frame. The owner element is looked up in
// the parent's document as a frame or iframe whose name or id is name.
func (t *FrameTree) AttachFrame(parent *Frame, name string, root *html.Node) *Frame {
	t.mu.Lock()
	defer t.mu.Unlock()

	if parent == nil {
		parent = t.top
	}
	f := &Frame{
		name:   name,
		doc:    NewDocument(root),
		parent: parent,
		owner:  frameOwner(parent.doc.Root(), name),
	}
	parent.children = append(parent.children, f)
	return f
}

// frameOwner finds the frame or iframe element named or identified by key.
func frameOwner(root *html.Node, key string) *html.Node {
	var owner *html.Node
	walkElements(root, func(n *html.Node) bool {
		if owner != nil {
			return false
		}
		if n.DataAtom != atom.Iframe && n.DataAtom != atom.Frame {
			return true
		}
		for _, attr := range []string{"name", "id"} {
			if v, ok := rawAttr(n, attr); ok && v == key {
				owner = n
				return false
			}
		}
		return true
	})
	return owner
}

// SwitchToFrame makes the child frame of the current frame selected by
// nameOrID current.
func (t *FrameTree) SwitchToFrame(nameOrID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, c := range t.cur.children {
		if c.matches(nameOrID) {
			t.switchTo(c)
			return nil
		}
	}
	return &LocateError{Kind: ErrNoSuchFrame, Reason: "no frame " + quote(nameOrID)}
}

// SwitchToFrameIndex makes the i-th child frame of the current frame current.
func (t *FrameTree) SwitchToFrameIndex(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.cur.children) {
		return &LocateError{Kind: ErrNoSuchFrame, Reason: "no frame at index " + strconv.Itoa(i)}
	}
	t.switchTo(t.cur.children[i])
	return nil
}

// SwitchToParentFrame makes the parent of the current frame current. It is a
// no-op on the top-level frame.
func (t *FrameTree) SwitchToParentFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cur.parent != nil {
		t.switchTo(t.cur.parent)
	}
}

// SwitchToDefaultContent makes the top-level frame current.
func (t *FrameTree) SwitchToDefaultContent() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.switchTo(t.top)
}

// switchTo makes f current. The frame being left starts a new generation.
func (t *FrameTree) switchTo(f *Frame) {
	if f == t.cur {
		return
	}
	gen := t.cur.doc.Advance()
	t.logf("left frame %s (generation %d), entered frame %s", frameLabel(t.cur), gen, frameLabel(f))
	t.cur = f
}

func frameLabel(f *Frame) string {
	var parts []string
	for ; f != nil; f = f.parent {
		if f.parent == nil {
			parts = append(parts, "top")
		} else {
			parts = append(parts, quote(f.name))
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
