package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// acceptedConn is the server side of a connection the client opened.
type acceptedConn struct {
	path string
	conn *websocket.Conn
}

// startSocketServer accepts every websocket and hands it to the test.
func startSocketServer(t *testing.T) (*httptest.Server, <-chan acceptedConn) {
	t.Helper()

	accepted := make(chan acceptedConn, 8)
	done := make(chan struct{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		accepted <- acceptedConn{path: r.URL.Path, conn: conn}
		<-done
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(done) })

	return ts, accepted
}

func mustAccept(t *testing.T, accepted <-chan acceptedConn) acceptedConn {
	t.Helper()
	select {
	case ac := <-accepted:
		return ac
	case <-time.After(2 * time.Second):
		t.Fatal("expected an incoming connection")
		return acceptedConn{}
	}
}

func startLoop(t *testing.T) (*Loop, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	loop := NewLoop()
	go func() { _ = loop.Run(ctx) }()
	return loop, ctx
}

// readUntilClosed drains conn in the background and reports the error that ended it.
func readUntilClosed(ctx context.Context, conn *websocket.Conn) <-chan error {
	closed := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				closed <- err
				return
			}
		}
	}()
	return closed
}

// eventually polls cond on the loop until it holds.
func eventually(t *testing.T, ctx context.Context, loop *Loop, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var ok bool
		if err := loop.Do(ctx, func() { ok = cond() }); err != nil {
			t.Fatalf("loop: %v", err)
		}
		if ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// fakeConn feeds frames from a channel and records writes.
type fakeConn struct {
	frames chan []byte

	mu      sync.Mutex
	written []any
	closed  bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 16)}
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case f, ok := <-c.frames:
		if !ok {
			return nil, io.EOF
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) WriteJSON(_ context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) writes() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.written...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeDialer hands out prepared connections and records dialed URLs.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	urls  []string
}

func (d *fakeDialer) Dial(_ context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	conn := newFakeConn()
	d.conns = append(d.conns, conn)
	d.urls = append(d.urls, url)
	return conn, nil
}

func (d *fakeDialer) dialed() ([]*fakeConn, []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeConn(nil), d.conns...), append([]string(nil), d.urls...)
}
