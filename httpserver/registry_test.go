package httpserver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imjustmatthew/fnet-lpc/fsroot"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// fakeConn is the minimal srvtps.Conn a handler-package test needs: it
// backs Request/Response/SendParam with real values and never touches a
// real filesystem.
type fakeConn struct {
	buf [BufSize]byte
	req srvtps.Request
	res srvtps.Response
	sp  srvtps.SendParam
}

func (c *fakeConn) Buffer() []byte               { return c.buf[:] }
func (c *fakeConn) Request() *srvtps.Request     { return &c.req }
func (c *fakeConn) Response() *srvtps.Response   { return &c.res }
func (c *fakeConn) SendParam() *srvtps.SendParam { return &c.sp }
func (c *fakeConn) Root() fsroot.Root            { return nil }
func (c *fakeConn) Index() fsroot.File           { return nil }

func TestMatchMethodFindsRegisteredToken(t *testing.T) {
	reg := &Registry{Methods: []srvtps.Method{{Token: "GET"}, {Token: "POST"}}}

	m, adv := reg.MatchMethod([]byte("POST /form.cgi HTTP/1.1"))
	require.NotNil(t, m)
	require.Equal(t, "POST", m.Token)
	require.Equal(t, len("POST")+1, adv)
}

func TestMatchMethodRejectsPartialToken(t *testing.T) {
	reg := &Registry{Methods: []srvtps.Method{{Token: "GET"}}}
	m, _ := reg.MatchMethod([]byte("GETFOO /x HTTP/1.1"))
	require.Nil(t, m)
}

func TestFileHandlerForUsesDefaultOnMiss(t *testing.T) {
	def := srvtps.FileHandler{Extension: ""}
	reg := &Registry{Default: def}

	fh, ct := reg.FileHandlerFor(srvtps.URI{Path: []byte("/unknown.xyz"), Extension: []byte("xyz")})
	require.Equal(t, &reg.Default, fh)
	require.Nil(t, ct)
}

func TestFileHandlerForResolvesIndexOnSlash(t *testing.T) {
	idx := srvtps.FileHandler{Extension: "html"}
	ct := srvtps.ContentType{Extension: "html", MIME: "text/html"}
	reg := &Registry{Index: idx, IndexType: &ct}

	fh, gotCT := reg.FileHandlerFor(srvtps.URI{Path: []byte("/")})
	require.Equal(t, &reg.Index, fh)
	require.Equal(t, &ct, gotCT)
}

func TestGETMethodHandleSetsResponseFile(t *testing.T) {
	called := false
	fh := srvtps.FileHandler{
		Extension: "txt",
		Handle: func(c srvtps.Conn, uri srvtps.URI) int {
			called = true
			return srvtps.OK
		},
	}
	reg := &Registry{Files: []srvtps.FileHandler{fh}}
	get := reg.GETMethod()

	conn := &fakeConn{}
	status := get.Handle(conn, srvtps.URI{Path: []byte("/a.txt"), Extension: []byte("txt")})

	require.True(t, called)
	require.Equal(t, srvtps.OK, status)
	require.Equal(t, "txt", conn.res.File.Extension)
}

func TestGETMethodSendSetsEOFOnZero(t *testing.T) {
	fh := srvtps.FileHandler{
		Send: func(c srvtps.Conn, buf []byte) int { return 0 },
	}
	reg := &Registry{}
	get := reg.GETMethod()

	conn := &fakeConn{}
	conn.res.File = &fh

	n := get.Send(conn, make([]byte, 16))
	require.Equal(t, 0, n)
	require.True(t, conn.res.SendEOF)
}

func TestGETMethodSendPassesThroughNonZero(t *testing.T) {
	fh := srvtps.FileHandler{
		Send: func(c srvtps.Conn, buf []byte) int { return copy(buf, "hi") },
	}
	reg := &Registry{}
	get := reg.GETMethod()

	conn := &fakeConn{}
	conn.res.File = &fh

	buf := make([]byte, 16)
	n := get.Send(conn, buf)
	require.Equal(t, 2, n)
	require.False(t, conn.res.SendEOF)
}
