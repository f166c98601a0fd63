package cdpdom

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/mailru/easyjson"
	"golang.org/x/net/html"

	"github.com/chromedp/locate"
)

// Source is a locate.DocumentSource backed by the DOM of a page reachable
// over the Chrome DevTools Protocol.
//
// The page's DOM is fetched once with DOM.getDocument and kept as a snapshot
// in a single locate.Document. A DOM.documentUpdated event, or a navigation
// of the top-level frame, advances the document's generation right away and
// marks the snapshot dirty; the next Document call fetches a new snapshot.
type Source struct {
	conn Transport
	doc  *locate.Document

	next int64

	// mu protects pending, nodes, dirty, closing and err.
	mu      sync.Mutex
	pending map[int64]chan *cdproto.Message
	nodes   map[*html.Node]*cdp.Node
	dirty   bool
	closing bool
	err     error

	// fetchMu serialises snapshot fetches, and protects enabled.
	fetchMu sync.Mutex
	enabled bool

	// wmu serialises writes to conn.
	wmu sync.Mutex

	done chan struct{}

	// logging funcs
	logf, debugf, errf func(string, ...interface{})
}

// Option is a Source option.
type Option func(*Source)

// WithLogf is a Source option to specify a func to receive general logging.
func WithLogf(f func(string, ...interface{})) Option {
	return func(s *Source) {
		s.logf = f
	}
}

// WithDebugf is a Source option to specify a func to receive debug logging
// (ie, protocol messages and generation changes).
func WithDebugf(f func(string, ...interface{})) Option {
	return func(s *Source) {
		s.debugf = f
	}
}

// WithErrorf is a Source option to specify a func to receive error logging.
func WithErrorf(f func(string, ...interface{})) Option {
	return func(s *Source) {
		s.errf = f
	}
}

// New creates a Source reading from and writing to conn. The Source owns
// conn from then on; Close closes it.
func New(conn Transport, opts ...Option) *Source {
	s := newSource(opts)
	s.start(conn)
	return s
}

// Dial connects to the DevTools websocket of a page (for example
// ws://127.0.0.1:9222/devtools/page/<id>) and creates a Source over it.
func Dial(ctx context.Context, urlstr string, opts ...Option) (*Source, error) {
	s := newSource(opts)
	var dialOpts []DialOption
	if s.debugf != nil {
		dialOpts = append(dialOpts, WithConnDebugf(s.debugf))
	}
	conn, err := DialContext(ctx, ForceIP(urlstr), dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s: %w", urlstr, err)
	}
	s.start(conn)
	return s, nil
}

func newSource(opts []Option) *Source {
	s := &Source{
		doc:     locate.NewDocument(nil),
		pending: make(map[int64]chan *cdproto.Message),
		nodes:   make(map[*html.Node]*cdp.Node),
		dirty:   true,
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	// ensure logging funcs are set
	nopf := func(string, ...interface{}) {}
	if s.logf == nil {
		s.logf = nopf
	}
	if s.errf == nil {
		s.errf = func(msg string, v ...interface{}) {
			s.logf("ERROR: "+msg, v...)
		}
	}
	return s
}

func (s *Source) start(conn Transport) {
	s.conn = conn
	go s.run()
}

// Document satisfies locate.DocumentSource. It returns the same Document on
// every call, refreshing its tree first when the page changed since the last
// snapshot.
func (s *Source) Document(ctx context.Context) (*locate.Document, error) {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	s.mu.Lock()
	dirty, err := s.dirty, s.err
	s.dirty = false
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if !s.enabled {
		// for Page.frameNavigated
		if err := page.Enable().Do(cdp.WithExecutor(ctx, s)); err != nil {
			s.markDirty(dirty)
			return nil, fmt.Errorf("could not enable page events: %w", err)
		}
		s.enabled = true
	}
	if !dirty {
		return s.doc, nil
	}

	root, err := dom.GetDocument().WithDepth(-1).Do(cdp.WithExecutor(ctx, s))
	if err != nil {
		s.markDirty(true)
		return nil, fmt.Errorf("could not retrieve document: %w", err)
	}
	n, nodes := convert(root)
	gen := s.doc.Replace(n)
	s.mu.Lock()
	s.nodes = nodes
	s.mu.Unlock()
	s.debugff("retrieved document %s (generation %d, %d nodes)", root.DocumentURL, gen, len(nodes))
	return s.doc, nil
}

func (s *Source) markDirty(dirty bool) {
	if !dirty {
		return
	}
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Node returns the DevTools node n was converted from, for use with the
// other DevTools commands (eg, dom.Focus().WithNodeID).
func (s *Source) Node(n *html.Node) (*cdp.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.nodes[n]
	return c, ok
}

// Execute satisfies cdp.Executor, sending method with params and decoding the
// result into res.
func (s *Source) Execute(ctx context.Context, method string, params easyjson.Marshaler, res easyjson.Unmarshaler) error {
	var buf []byte
	if params != nil {
		var err error
		buf, err = easyjson.Marshal(params)
		if err != nil {
			return err
		}
	}

	id := atomic.AddInt64(&s.next, 1)
	ch := make(chan *cdproto.Message, 1)
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return err
	}
	s.pending[id] = ch
	s.mu.Unlock()

	// send command
	s.wmu.Lock()
	err := s.conn.Write(ctx, &cdproto.Message{
		ID:     id,
		Method: cdproto.MethodType(method),
		Params: buf,
	})
	s.wmu.Unlock()
	if err != nil {
		s.forget(id)
		return fmt.Errorf("could not send %s: %w", method, err)
	}

	// wait for result
	select {
	case <-ctx.Done():
		s.forget(id)
		return ctx.Err()
	case msg := <-ch:
		switch {
		case msg == nil:
			return ErrChannelClosed
		case msg.Error != nil:
			return msg.Error
		case res != nil:
			return easyjson.Unmarshal(msg.Result, res)
		}
	}
	return nil
}

func (s *Source) forget(id int64) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// Close closes the connection and waits for the read loop to exit. Pending
// and later calls fail.
func (s *Source) Close() error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	err := s.conn.Close()
	<-s.done
	return err
}

// run reads messages until the connection fails, routing command responses
// to their callers and handling events.
func (s *Source) run() {
	defer close(s.done)
	for {
		msg := new(cdproto.Message)
		if err := s.conn.Read(context.Background(), msg); err != nil {
			s.fail(err)
			return
		}
		switch {
		case msg.ID != 0:
			s.mu.Lock()
			ch, ok := s.pending[msg.ID]
			delete(s.pending, msg.ID)
			s.mu.Unlock()
			if !ok {
				s.debugff("ignoring response to abandoned command %d", msg.ID)
				continue
			}
			ch <- msg
		case msg.Method != "":
			s.event(msg)
		default:
			s.errf("ignoring malformed incoming message (missing id or method): %#v", msg)
		}
	}
}

// fail records err as the terminal error and releases every pending call.
func (s *Source) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		s.err = ErrClosed
	} else {
		s.errf("connection lost: %v", err)
		s.err = fmt.Errorf("connection lost: %w", err)
	}
	for id, ch := range s.pending {
		close(ch)
		delete(s.pending, id)
	}
}

// event handles an incoming event.
func (s *Source) event(msg *cdproto.Message) {
	ev, err := cdproto.UnmarshalMessage(msg)
	if err != nil {
		if _, ok := err.(cdp.ErrUnknownCommandOrEvent); ok {
			// most likely an event from a newer or older browser than the
			// protocol definitions know about
			return
		}
		s.errf("could not unmarshal event %s: %v", msg.Method, err)
		return
	}

	switch e := ev.(type) {
	case *dom.EventDocumentUpdated:
		s.invalidate("document updated")

	case *page.EventFrameNavigated:
		// child frames are separate documents
		if e.Frame != nil && e.Frame.ParentID == "" {
			s.invalidate("navigated to " + e.Frame.URL)
		}
	}
}

// invalidate makes every handle minted so far stale and schedules a new
// snapshot.
func (s *Source) invalidate(reason string) {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	gen := s.doc.Advance()
	s.debugff("%s: document generation %d", reason, gen)
}

func (s *Source) debugff(msg string, v ...interface{}) {
	if s.debugf != nil {
		s.debugf(msg, v...)
	}
}
