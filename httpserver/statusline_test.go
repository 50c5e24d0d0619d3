package httpserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

func TestStatusLineSegmentStatusLine(t *testing.T) {
	resp := &srvtps.Response{StatusCode: 200, Version: srvtps.Version{Major: 1, Minor: 1}}
	require.Equal(t, "HTTP/1.1 200 OK\r\n", statusLineSegment(resp))
}

func TestStatusLineSegmentAuthChallenge(t *testing.T) {
	resp := &srvtps.Response{StatusCode: 401, StatusLine: 1, AuthEntry: &srvtps.AuthEntry{Realm: "area"}}
	seg := statusLineSegment(resp)
	require.Equal(t, "WWW-Authenticate: Basic realm=\"area\"\r\n", seg)
	require.Equal(t, int64(-1), resp.ContentLength)
}

func TestStatusLineSegmentSkipsAuthWhenNotRequired(t *testing.T) {
	resp := &srvtps.Response{StatusCode: 200, StatusLine: 1}
	require.Equal(t, "", statusLineSegment(resp))
}

func TestStatusLineSegmentContentLength(t *testing.T) {
	resp := &srvtps.Response{StatusLine: 2, ContentLength: 42}
	require.Equal(t, "Content-Length: 42\r\n", statusLineSegment(resp))
}

func TestStatusLineSegmentContentType(t *testing.T) {
	ct := &srvtps.ContentType{MIME: "text/html"}
	resp := &srvtps.Response{StatusLine: 3, ContentType: ct}
	require.Equal(t, "Content-Type: text/html\r\n", statusLineSegment(resp))
}

func TestStatusLineFullSuccessfulEmission(t *testing.T) {
	conn := &fakeConn{}
	conn.res = srvtps.Response{
		StatusCode:    200,
		Version:       srvtps.Version{Major: 1, Minor: 0},
		ContentLength: 5,
		ContentType:   &srvtps.ContentType{MIME: "text/plain"},
	}

	n := StatusLine(conn)
	out := string(conn.buf[:n])

	require.True(t, strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n"))
	require.Contains(t, out, "Content-Length: 5\r\n")
	require.Contains(t, out, "Content-Type: text/plain\r\n")
	require.True(t, strings.HasSuffix(out, "\r\n\r\n"))
	require.False(t, conn.res.SendEOF)
}

func TestStatusLineOversizedRealmIsDroppedNotTruncated(t *testing.T) {
	conn := &fakeConn{}
	conn.res = srvtps.Response{
		StatusCode: 401,
		Version:    srvtps.Version{Major: 1, Minor: 1},
		StatusLine: 1, // land directly on the auth-challenge sub-state
		AuthEntry:  &srvtps.AuthEntry{Realm: strings.Repeat("x", BufSize)},
	}

	n := StatusLine(conn)

	// Oversized first segment of the call: nothing is sent this tick,
	// not a truncated/corrupted partial line, and the sub-state still
	// advances so the next tick moves on.
	require.Equal(t, 0, n)
	require.Equal(t, 2, conn.res.StatusLine)
}

func TestStatusLineOversizedContentTypeKeepsPriorSegments(t *testing.T) {
	conn := &fakeConn{}
	conn.res = srvtps.Response{
		StatusCode:    200,
		Version:       srvtps.Version{Major: 1, Minor: 1},
		ContentLength: -1, // skip sub-state 2 so sub-state 3 overflows with n > 0
		ContentType:   &srvtps.ContentType{MIME: strings.Repeat("y", BufSize)},
	}

	n := StatusLine(conn)

	// Prior sub-states (the status line) already accumulated in buf are
	// kept and cleanly CRLF-terminated; only the oversized Content-Type
	// sub-state itself is dropped.
	require.Equal(t, "HTTP/1.1 200 OK\r\n", string(conn.buf[:n]))
	require.Equal(t, 4, conn.res.StatusLine)
}

func TestStatusLineSetsSendEOFOnNonOKStatus(t *testing.T) {
	conn := &fakeConn{}
	conn.res = srvtps.Response{StatusCode: 404, Version: srvtps.Version{Major: 1, Minor: 1}}

	_ = StatusLine(conn)
	require.True(t, conn.res.SendEOF)
}

func TestMethodSendForwardsToRequestMethod(t *testing.T) {
	conn := &fakeConn{}
	conn.req.Method = &srvtps.Method{
		Send: func(c srvtps.Conn, buf []byte) int { return copy(buf, "ok") },
	}

	buf := conn.Buffer()
	n := methodSend(conn)
	require.Equal(t, 2, n)
	require.Equal(t, "ok", string(buf[:n]))
}

func TestMethodSendReturnsErrWithNoMethod(t *testing.T) {
	conn := &fakeConn{}
	require.Equal(t, srvtps.StatusErr, methodSend(conn))
}
