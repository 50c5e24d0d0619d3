/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package types holds the shared, allocation-free value types the
// connection state machine, the handler registry, and every file/method
// handler exchange: URI, Version, Request, Response, SendParam, and the
// three handler-table record shapes.
package types

import (
	"io"

	"github.com/imjustmatthew/fnet-lpc/fsroot"
)

// StatusErr is the generic error sentinel a method or file handler may
// return from Handle/Send when it has no specific HTTP status to report;
// the state machine maps it to 500 (spec §4.3).
const StatusErr = -1

// OK is the specific, non-HTTP success sentinel a method Handle returns
// to mean "continue, no header override" (distinct from any 2xx code it
// might return instead).
const OK = 0

// URI is path/query/extension views into the connection's line buffer.
// Go expresses the C implementation's in-place NUL-terminated pointers
// as byte-slice views over the same backing array: no allocation, and
// the same "only valid while the buffer is not reused" discipline.
type URI struct {
	Path      []byte
	Query     []byte
	Extension []byte
}

// Version is the parsed HTTP major/minor pair (spec §4.2). Bounded to
// one byte each per spec; the state machine compares them as a single
// 16-bit composite when capping to the server maximum.
type Version struct {
	Major uint8
	Minor uint8
}

// Less16 returns the 16-bit composite ordering used to cap a client's
// requested version at the server's maximum supported version.
func (v Version) Less16() uint16 {
	return uint16(v.Major)<<8 | uint16(v.Minor)
}

// Method is one method-table entry (spec §4.3). Handle is invoked once
// per request after the URI is parsed; Receive streams POST-style body
// bytes; Send produces one buffer's worth of response body per call;
// Close runs once per connection on the way to CLOSING.
type Method struct {
	Token string

	// Handle returns OK, a positive HTTP status code to surface as an
	// error status, or StatusErr (mapped to 500 by the state machine).
	Handle func(c Conn, uri URI) int

	// Receive is invoked while POST body bytes accumulate in the
	// connection buffer; nil means this method never expects a body.
	Receive func(c Conn, chunk []byte) int

	// Send produces one chunk of response body per call; returns the
	// byte count written into the connection buffer, or StatusErr.
	Send func(c Conn, buf []byte) int

	// Close is invoked once per connection on the way to CLOSING, if
	// not nil.
	Close func(c Conn)
}

// FileHandler is one file-handler-table entry (spec §4.3), matched
// against URI.Extension; the empty-token entry is the default handler.
type FileHandler struct {
	Extension string
	Handle    func(c Conn, uri URI) int
	Send      func(c Conn, buf []byte) int
	Close     func(c Conn)
}

// ContentType is one content-type-table entry (spec §4.3/§6).
type ContentType struct {
	Extension string
	MIME      string
}

// Request is the parsed incoming request state (spec §3). Method is
// nil until the request line is parsed.
type Request struct {
	Method        *Method
	URI           URI
	SkipLine      bool
	ContentLength int64
}

// Response is the outgoing response state (spec §3).
type Response struct {
	File          *FileHandler
	ContentType   *ContentType
	Version       Version
	StatusCode    int
	Reason        string
	ContentLength int64 // -1 means "unknown / omit header"
	StatusLine    int   // 0..4, sub-state of the status-line emitter
	SendEOF       bool
	TxData        func(c Conn) int
	BufferSent    int
	AuthEntry     *AuthEntry
}

// AuthEntry is the matched HTTP Basic auth table entry for the current
// URI, cleared once authenticated or when no auth is required.
type AuthEntry struct {
	Realm string
}

// SendParam bundles the currently open file descriptor the default
// handler streams bytes from (spec §3): at most one of a freshly opened
// file or the shared index file is referenced at a time.
//
// Data/Produced (ADDED) let a handler that must transform a file's
// contents before streaming — SSI include substitution being the
// motivating case — render once into an in-memory buffer at handle time
// and have Send hand it out BufSize bytes per call exactly like a raw
// file would, without adding a second producer abstraction.
type SendParam struct {
	File     fsroot.File
	IsIndex  bool
	Size     int64
	Produced int64
	Data     []byte

	// Proc (ADDED) is a live external-process producer (the CGI
	// handler's stdout pipe, wrapped so Close also reaps the process).
	Proc io.ReadCloser
}

// Conn is the subset of the connection state machine that handlers may
// touch: the shared line buffer, the root filesystem, and the
// request/response/send-param state. Defined here (rather than in
// package httpserver) so handler packages depend only on types and never
// import httpserver, avoiding an import cycle.
type Conn interface {
	Buffer() []byte
	Request() *Request
	Response() *Response
	SendParam() *SendParam
	Root() fsroot.Root
	Index() fsroot.File
}
