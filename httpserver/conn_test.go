package httpserver

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imjustmatthew/fnet-lpc/fsroot"
	"github.com/imjustmatthew/fnet-lpc/httpserver/handler/static"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
	"github.com/imjustmatthew/fnet-lpc/logger"
	"github.com/imjustmatthew/fnet-lpc/netsock"
)

type fakeClock struct{ t int64 }

func (c *fakeClock) Ticks() int64 { return c.t }

type fakeSocket struct {
	pending []byte
	sent    []byte
	closed  bool
}

func (s *fakeSocket) Recv(p []byte) (int, error) {
	if len(s.pending) == 0 {
		return 0, nil
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *fakeSocket) Send(p []byte) (int, error) {
	s.sent = append(s.sent, p...)
	return len(p), nil
}

func (s *fakeSocket) Close() error { s.closed = true; return nil }
func (s *fakeSocket) SendMax() int { return 512 }

type fakeListener struct {
	sock     *fakeSocket
	accepted bool
}

func (l *fakeListener) Accept() (netsock.Socket, error) {
	if l.accepted {
		return nil, netsock.ErrWouldBlock
	}
	l.accepted = true
	return l.sock, nil
}

func (l *fakeListener) Close() error   { return nil }
func (l *fakeListener) Addr() net.Addr { return nil }

// runUntilListening drives Tick until the connection returns to
// LISTENING (a full request/response/close round trip) or the
// iteration budget is exhausted.
func runUntilListening(t *testing.T, c *Conn, budget int) {
	t.Helper()
	for i := 0; i < budget; i++ {
		c.Tick()
		if i > 0 && c.State() == StateListening {
			return
		}
	}
	t.Fatalf("connection never returned to LISTENING (stuck in %s)", c.State())
}

func newFixtureConn(t *testing.T, request string) (*Conn, *fakeSocket) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello index"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.txt"), []byte("page body"), 0o644))

	root, err := fsroot.Open(dir)
	require.NoError(t, err)
	index, err := root.Open("/index.html")
	require.NoError(t, err)

	reg := &Registry{Default: static.Handler()}
	reg.Methods = []srvtps.Method{reg.GETMethod()}

	sock := &fakeSocket{pending: []byte(request)}
	listener := &fakeListener{sock: sock}

	conn := NewConn(ConnConfig{
		Listener:   listener,
		Root:       root,
		Index:      index,
		Registry:   reg,
		Clock:      &fakeClock{},
		Log:        logger.New(),
		MaxVersion: srvtps.Version{Major: 1, Minor: 1},
	})
	conn.Start()
	return conn, sock
}

func TestConnHTTP10GetServesFileWithStatusLine(t *testing.T) {
	conn, sock := newFixtureConn(t, "GET /page.txt HTTP/1.0\r\n\r\n")
	runUntilListening(t, conn, 20)

	out := string(sock.sent)
	require.Contains(t, out, "HTTP/1.0 200 OK\r\n")
	require.Contains(t, out, "Content-Length: 9\r\n")
	require.Contains(t, out, "\r\n\r\npage body")
}

func TestConnHTTP09GetBypassesStatusLine(t *testing.T) {
	conn, sock := newFixtureConn(t, "GET /page.txt\r\n")
	runUntilListening(t, conn, 20)

	require.Equal(t, "page body", string(sock.sent))
}

func TestConnUnknownMethodIs501(t *testing.T) {
	conn, sock := newFixtureConn(t, "FROB /page.txt HTTP/1.1\r\n\r\n")
	runUntilListening(t, conn, 20)

	require.Contains(t, string(sock.sent), "HTTP/1.1 501 Not Implemented\r\n")
}

func TestConnMissingFileIs404(t *testing.T) {
	conn, sock := newFixtureConn(t, "GET /missing.txt HTTP/1.1\r\n\r\n")
	runUntilListening(t, conn, 20)

	require.Contains(t, string(sock.sent), "HTTP/1.1 404 Not Found\r\n")
}

// TestConnOversizedHeaderLineDropped is scenario S7: a header line that
// overruns BufSize before its terminating LF is silently dropped
// (SkipLine flips true then clears on the line's eventual LF) rather
// than aborting the request, so the rest of the headers and the
// response still complete normally.
func TestConnOversizedHeaderLineDropped(t *testing.T) {
	oversized := strings.Repeat("A", BufSize+50)
	request := "GET /page.txt HTTP/1.1\r\n" + "X-Oversized: " + oversized + "\r\n\r\n"

	conn, sock := newFixtureConn(t, request)
	runUntilListening(t, conn, 20)

	out := string(sock.sent)
	require.Contains(t, out, "HTTP/1.1 200 OK\r\n")
	require.Contains(t, out, "\r\n\r\npage body")

	// SkipLine was cleared once the oversized line's LF was finally
	// seen; it must not still be set afterward.
	require.False(t, conn.request.SkipLine)
}

func TestConnRXRequestIdleTimeoutCloses(t *testing.T) {
	conn, _ := newFixtureConn(t, "")
	clk := &fakeClock{}
	conn.clk = clk

	conn.Tick() // doListening accepts, moves to RX_REQUEST
	require.Equal(t, StateRXRequest, conn.State())

	clk.t = rxTimeoutTicks() + 1
	conn.Tick()
	require.Equal(t, StateListening, conn.State())
}
