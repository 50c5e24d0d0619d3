package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imjustmatthew/fnet-lpc/fsroot"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

const bufSize = 512

type testConn struct {
	buf   [bufSize]byte
	req   srvtps.Request
	res   srvtps.Response
	sp    srvtps.SendParam
	root  fsroot.Root
	index fsroot.File
}

func (c *testConn) Buffer() []byte               { return c.buf[:] }
func (c *testConn) Request() *srvtps.Request     { return &c.req }
func (c *testConn) Response() *srvtps.Response   { return &c.res }
func (c *testConn) SendParam() *srvtps.SendParam { return &c.sp }
func (c *testConn) Root() fsroot.Root            { return c.root }
func (c *testConn) Index() fsroot.File           { return c.index }

func newTestConn(t *testing.T) (*testConn, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello index"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.txt"), []byte("page body"), 0o644))

	root, err := fsroot.Open(dir)
	require.NoError(t, err)

	index, err := root.Open("/index.html")
	require.NoError(t, err)

	return &testConn{root: root, index: index}, dir
}

func TestStaticHandleServesIndexOnSlash(t *testing.T) {
	conn, _ := newTestConn(t)

	fh := Handler()
	status := fh.Handle(conn, srvtps.URI{Path: []byte("/")})
	require.Equal(t, srvtps.OK, status)
	require.True(t, conn.sp.IsIndex)
	require.Equal(t, int64(len("hello index")), conn.res.ContentLength)

	buf := make([]byte, bufSize)
	n := fh.Send(conn, buf)
	require.Equal(t, "hello index", string(buf[:n]))
}

func TestStaticHandleServesNamedFile(t *testing.T) {
	conn, _ := newTestConn(t)

	fh := Handler()
	status := fh.Handle(conn, srvtps.URI{Path: []byte("/page.txt")})
	require.Equal(t, srvtps.OK, status)
	require.False(t, conn.sp.IsIndex)

	buf := make([]byte, bufSize)
	n := fh.Send(conn, buf)
	require.Equal(t, "page body", string(buf[:n]))

	fh.Close(conn)
	require.Nil(t, conn.sp.File)
}

func TestStaticHandleMissingFileIs404(t *testing.T) {
	conn, _ := newTestConn(t)

	fh := Handler()
	status := fh.Handle(conn, srvtps.URI{Path: []byte("/missing.txt")})
	require.Equal(t, 404, status)
}

func TestStaticCloseNeverClosesSharedIndex(t *testing.T) {
	conn, _ := newTestConn(t)

	fh := Handler()
	require.Equal(t, srvtps.OK, fh.Handle(conn, srvtps.URI{Path: []byte("/")}))
	fh.Close(conn)
	require.NotNil(t, conn.sp.File)

	// The shared index file must still be readable after Close.
	require.NoError(t, conn.index.Rewind())
}
