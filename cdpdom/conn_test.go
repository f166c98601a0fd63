package cdpdom

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/mailru/easyjson"
)

func TestConnRoundTrip(t *testing.T) {
	t.Parallel()

	// echo server
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			buf, err := wsutil.ReadClientText(conn)
			if err != nil {
				return
			}
			if err := wsutil.WriteServerText(conn, buf); err != nil {
				return
			}
		}
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var logged []string
	conn, err := DialContext(ctx, "ws"+strings.TrimPrefix(s.URL, "http"), WithConnDebugf(func(msg string, v ...interface{}) {
		logged = append(logged, msg)
	}))
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	defer conn.Close()

	out := &cdproto.Message{ID: 42, Method: "DOM.getDocument", Params: []byte(`{"depth":-1}`)}
	if err := conn.Write(ctx, out); err != nil {
		t.Fatalf("got error: %v", err)
	}
	in := new(cdproto.Message)
	if err := conn.Read(ctx, in); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if in.ID != 42 || in.Method != "DOM.getDocument" || string(in.Params) != `{"depth":-1}` {
		t.Errorf("unexpected message %+v", in)
	}
	if strings.Join(logged, ",") != "-> %s,<- %s" {
		t.Errorf("unexpected debug log %q", logged)
	}
}

func TestConnPongsDoNotInterleaveWithWrites(t *testing.T) {
	t.Parallel()

	const pings, writes = 50, 50

	type result struct {
		pongs []string
		ids   []int64
		err   error
	}
	done := make(chan result, 1)

	// the server pings the client, then sends one message, then collects
	// every frame the client sends back
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			done <- result{err: err}
			return
		}
		defer conn.Close()
		for i := 0; i < pings; i++ {
			if err := ws.WriteFrame(conn, ws.NewPingFrame([]byte(fmt.Sprintf("ping %d", i)))); err != nil {
				done <- result{err: err}
				return
			}
		}
		if err := wsutil.WriteServerText(conn, []byte(`{"id":1,"result":{}}`)); err != nil {
			done <- result{err: err}
			return
		}

		var res result
		for len(res.pongs) < pings || len(res.ids) < writes {
			f, err := ws.ReadFrame(conn)
			if err != nil {
				res.err = err
				break
			}
			if f.Header.Masked {
				ws.Cipher(f.Payload, f.Header.Mask, 0)
			}
			switch f.Header.OpCode {
			case ws.OpPong:
				res.pongs = append(res.pongs, string(f.Payload))
			case ws.OpText:
				var msg cdproto.Message
				if err := easyjson.Unmarshal(f.Payload, &msg); err != nil {
					res.err = fmt.Errorf("corrupted text frame %q: %w", f.Payload, err)
					break
				}
				res.ids = append(res.ids, msg.ID)
			default:
				res.err = fmt.Errorf("unexpected opcode %d", f.Header.OpCode)
			}
			if res.err != nil {
				break
			}
		}
		done <- res
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := DialContext(ctx, "ws"+strings.TrimPrefix(s.URL, "http"))
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	defer conn.Close()

	errc := make(chan error, 1)
	go func() {
		for i := 1; i <= writes; i++ {
			msg := &cdproto.Message{ID: int64(i), Method: "Page.enable", Params: []byte(`{"padding":"` + strings.Repeat("x", 4096) + `"}`)}
			if err := conn.Write(ctx, msg); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()

	in := new(cdproto.Message)
	if err := conn.Read(ctx, in); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if in.ID != 1 {
		t.Errorf("expected message 1, got %d", in.ID)
	}
	if err := <-errc; err != nil {
		t.Fatalf("got error: %v", err)
	}

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for the server")
	}
	if res.err != nil {
		t.Fatalf("server got error: %v", res.err)
	}
	for i, p := range res.pongs {
		if exp := fmt.Sprintf("ping %d", i); p != exp {
			t.Errorf("pong %d expected payload %q, got %q", i, exp, p)
		}
	}
	for i, id := range res.ids {
		if id != int64(i+1) {
			t.Errorf("message %d expected id %d, got %d", i, i+1, id)
		}
	}
}

func TestForceIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		urlstr, exp string
	}{
		{"ws://127.0.0.1:9222/devtools/page/A", "ws://127.0.0.1:9222/devtools/page/A"},
		{"ws://localhost:9222/devtools/page/A", "ws://localhost:9222/devtools/page/A"},
		{"ws://[::1]:9222/devtools/browser", "ws://[::1]:9222/devtools/browser"},
		{"not a url", "not a url"},
	}
	for i, test := range tests {
		if s := ForceIP(test.urlstr); s != test.exp {
			t.Errorf("test %d expected %q, got %q", i, test.exp, s)
		}
	}
}
