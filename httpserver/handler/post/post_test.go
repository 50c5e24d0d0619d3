package post

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imjustmatthew/fnet-lpc/fsroot"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

type fakeConn struct {
	buf [512]byte
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

type fakeRegistry struct {
	fh *srvtps.FileHandler
	ct *srvtps.ContentType
}

func (r *fakeRegistry) FileHandlerFor(uri srvtps.URI) (*srvtps.FileHandler, *srvtps.ContentType) {
	return r.fh, r.ct
}

type recordingSink struct {
	chunks [][]byte
	status int
	err    error
}

func (s *recordingSink) Receive(chunk []byte) (int, error) {
	cp := append([]byte(nil), chunk...)
	s.chunks = append(s.chunks, cp)
	return s.status, s.err
}

func TestMethodReceiveDelegatesToSink(t *testing.T) {
	sink := &recordingSink{status: srvtps.OK}
	m := Method(&fakeRegistry{}, sink)

	status := m.Receive(&fakeConn{}, []byte("body-chunk"))
	require.Equal(t, srvtps.OK, status)
	require.Len(t, sink.chunks, 1)
	require.Equal(t, "body-chunk", string(sink.chunks[0]))
}

func TestMethodReceiveWithNilSinkIs501(t *testing.T) {
	m := Method(&fakeRegistry{}, nil)
	status := m.Receive(&fakeConn{}, []byte("x"))
	require.Equal(t, 501, status)
}

func TestMethodReceivePropagatesSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("boom")}
	m := Method(&fakeRegistry{}, sink)
	status := m.Receive(&fakeConn{}, []byte("x"))
	require.Equal(t, 500, status)
}

func TestMethodHandleDelegatesToResolvedFileHandler(t *testing.T) {
	called := false
	fh := &srvtps.FileHandler{
		Handle: func(c srvtps.Conn, uri srvtps.URI) int {
			called = true
			return srvtps.OK
		},
	}
	m := Method(&fakeRegistry{fh: fh}, nil)

	status := m.Handle(&fakeConn{}, srvtps.URI{})
	require.True(t, called)
	require.Equal(t, srvtps.OK, status)
}

func TestMethodSendSetsEOFAtZero(t *testing.T) {
	fh := &srvtps.FileHandler{Send: func(c srvtps.Conn, buf []byte) int { return 0 }}
	m := Method(&fakeRegistry{}, nil)

	conn := &fakeConn{}
	conn.res.File = fh

	n := m.Send(conn, make([]byte, 8))
	require.Equal(t, 0, n)
	require.True(t, conn.res.SendEOF)
}
