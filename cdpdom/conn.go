package cdpdom

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/chromedp/cdproto"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/mailru/easyjson"
)

// Transport is the common interface to send/receive messages to a target.
type Transport interface {
	Read(context.Context, *cdproto.Message) error
	Write(context.Context, *cdproto.Message) error
	io.Closer
}

// Conn implements Transport with a gobwas/ws websocket connection.
//
// Read and Write may be called concurrently. Replies to control frames, sent
// while reading, are serialised with Write.
type Conn struct {
	conn net.Conn

	// wmu serialises frame writes.
	wmu     sync.Mutex
	control wsutil.FrameHandlerFunc

	// debug printf func
	dbgf func(string, ...interface{})
}

// DialOption is a dial option.
type DialOption func(*Conn)

// WithConnDebugf is a dial option to set a protocol logger.
func WithConnDebugf(f func(string, ...interface{})) DialOption {
	return func(c *Conn) {
		c.dbgf = f
	}
}

// DialContext dials the specified websocket URL using gobwas/ws.
func DialContext(ctx context.Context, urlstr string, opts ...DialOption) (*Conn, error) {
	// connect
	conn, br, _, err := ws.Dial(ctx, urlstr)
	if err != nil {
		return nil, err
	}
	if br != nil {
		// the browser never speaks before the client does
		ws.PutReader(br)
		conn.Close()
		return nil, ErrUnexpectedHandshakeData
	}

	c := newConn(conn)
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func newConn(conn net.Conn) *Conn {
	c := &Conn{conn: conn}
	handler := wsutil.ControlFrameHandler(conn, ws.StateClientSide)
	c.control = func(h ws.Header, r io.Reader) error {
		c.wmu.Lock()
		defer c.wmu.Unlock()
		return handler(h, r)
	}
	return c
}

// Read reads the next text message.
func (c *Conn) Read(_ context.Context, msg *cdproto.Message) error {
	rd := &wsutil.Reader{
		Source:         c.conn,
		State:          ws.StateClientSide,
		CheckUTF8:      true,
		OnIntermediate: c.control,
	}
	for {
		h, err := rd.NextFrame()
		if err != nil {
			return err
		}
		if h.OpCode.IsControl() {
			if err := c.control(h, rd); err != nil {
				return err
			}
			continue
		}
		if h.OpCode != ws.OpText {
			if err := rd.Discard(); err != nil {
				return err
			}
			if c.dbgf != nil {
				c.dbgf("<- discarded %d byte frame with opcode %d", h.Length, h.OpCode)
			}
			continue
		}

		buf, err := io.ReadAll(rd)
		if err != nil {
			return err
		}
		if c.dbgf != nil {
			c.dbgf("<- %s", buf)
		}
		return easyjson.Unmarshal(buf, msg)
	}
}

// Write writes a message.
func (c *Conn) Write(_ context.Context, msg *cdproto.Message) error {
	buf, err := easyjson.Marshal(msg)
	if err != nil {
		return err
	}
	if c.dbgf != nil {
		c.dbgf("-> %s", buf)
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return wsutil.WriteClientText(c.conn, buf)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// ForceIP forces the host component in urlstr to be an IP address.
//
// Since Chrome 66+, Chrome DevTools Protocol clients connecting to a browser
// must send the "Host:" header as either an IP address, or "localhost".
func ForceIP(urlstr string) string {
	i := strings.Index(urlstr, "://")
	if i == -1 {
		return urlstr
	}
	scheme, rest := urlstr[:i+3], urlstr[i+3:]
	host, port, path := rest, "", ""
	if i := strings.Index(host, "/"); i != -1 {
		host, path = host[:i], host[i:]
	}
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.HasSuffix(host, "]") {
		host, port = host[:i], host[i:]
	}
	if host == "localhost" || net.ParseIP(strings.Trim(host, "[]")) != nil {
		return urlstr
	}
	if addr, err := net.ResolveIPAddr("ip4", host); err == nil {
		return scheme + addr.IP.String() + port + path
	}
	return urlstr
}
