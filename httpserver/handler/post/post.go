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

// Package post is the optional POST method-table entry: receive
// delegates body chunks to a host-supplied Sink, while handle/send
// reuse the same file-handler dispatch GET uses (spec §4.3's "receive
// is invoked while POST body bytes accumulate in B").
package post

import (
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// Sink receives POST body bytes one RX chunk at a time. Receive returns
// types.OK (or a 2xx) to keep accumulating, or any other status to
// abort the body with that status.
type Sink interface {
	Receive(chunk []byte) (status int, err error)
}

// Registry is the subset of httpserver.Registry that Method needs to
// resolve the file handler, defined locally to avoid importing
// httpserver (handler packages depend only on types).
type Registry interface {
	FileHandlerFor(uri srvtps.URI) (*srvtps.FileHandler, *srvtps.ContentType)
}

// Method builds the POST method-table entry. A nil sink still builds a
// valid entry whose receive rejects every chunk with 501, so a host
// that forgets to wire a sink fails loudly at request time rather than
// panicking.
func Method(reg Registry, sink Sink) srvtps.Method {
	return srvtps.Method{
		Token: "POST",
		Handle: func(c srvtps.Conn, uri srvtps.URI) int {
			fh, ct := reg.FileHandlerFor(uri)
			resp := c.Response()
			resp.File = fh
			resp.ContentType = ct
			if fh.Handle == nil {
				return srvtps.StatusErr
			}
			return fh.Handle(c, uri)
		},
		Receive: func(c srvtps.Conn, chunk []byte) int {
			if sink == nil {
				return 501
			}
			status, err := sink.Receive(chunk)
			if err != nil {
				return 500
			}
			return status
		},
		Send: func(c srvtps.Conn, buf []byte) int {
			fh := c.Response().File
			if fh == nil || fh.Send == nil {
				return srvtps.StatusErr
			}
			n := fh.Send(c, buf)
			if n == 0 {
				c.Response().SendEOF = true
			}
			return n
		},
		Close: func(c srvtps.Conn) {
			fh := c.Response().File
			if fh != nil && fh.Close != nil {
				fh.Close(c)
			}
		},
	}
}
