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

package httpserver

import (
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// Registry holds the three parallel, ordered tables of spec §4.3: the
// method table, the file-handler table (matched by extension), and the
// content-type table. Lookup is linear and case-sensitive, matching the
// spec's "counts are tiny" rationale.
type Registry struct {
	Methods      []srvtps.Method
	Files        []srvtps.FileHandler
	ContentTypes []srvtps.ContentType
	Default      srvtps.FileHandler
	Index        srvtps.FileHandler
	IndexType    *srvtps.ContentType
}

// MatchMethod returns the method entry whose token is a prefix of buf
// followed by a space, and the index just past the token (spec §4.4:
// "token is a prefix of the buffer and the following byte is a space").
func (r *Registry) MatchMethod(buf []byte) (*srvtps.Method, int) {
	for i := range r.Methods {
		m := &r.Methods[i]
		t := m.Token
		if len(buf) > len(t) && string(buf[:len(t)]) == t && buf[len(t)] == ' ' {
			return m, len(t) + 1
		}
	}
	return nil, 0
}

// FileHandlerFor resolves the file handler for a URI: the pre-resolved
// index handler for path "/", otherwise a table lookup by extension with
// the default handler on miss (spec §4.3/§4.4).
func (r *Registry) FileHandlerFor(uri srvtps.URI) (*srvtps.FileHandler, *srvtps.ContentType) {
	if string(uri.Path) == "/" {
		return &r.Index, r.IndexType
	}
	return r.FileHandlerForExtension(string(uri.Extension))
}

// FileHandlerForExtension is the generic by-extension table lookup,
// also used at init time (httpserver/pool) to pre-resolve the index
// path's own handler and content type before any "/" request arrives.
func (r *Registry) FileHandlerForExtension(ext string) (*srvtps.FileHandler, *srvtps.ContentType) {
	for i := range r.Files {
		if r.Files[i].Extension == ext {
			return &r.Files[i], r.contentTypeFor(ext)
		}
	}
	return &r.Default, r.contentTypeFor(ext)
}

func (r *Registry) contentTypeFor(ext string) *srvtps.ContentType {
	for i := range r.ContentTypes {
		if r.ContentTypes[i].Extension == ext {
			return &r.ContentTypes[i]
		}
	}
	return nil
}

// GETMethod builds the generic GET method-table entry that resolves a
// file handler from the registry and delegates handle/send/close to it
// (spec §4.3's "selected file-handler entry" flowing into §4.4's TX
// producer and CLOSING cleanup).
func (r *Registry) GETMethod() srvtps.Method {
	return srvtps.Method{
		Token: "GET",
		Handle: func(c srvtps.Conn, uri srvtps.URI) int {
			fh, ct := r.FileHandlerFor(uri)
			resp := c.Response()
			resp.File = fh
			resp.ContentType = ct
			if fh.Handle == nil {
				return srvtps.StatusErr
			}
			return fh.Handle(c, uri)
		},
		Send: func(c srvtps.Conn, buf []byte) int {
			fh := c.Response().File
			if fh == nil || fh.Send == nil {
				return srvtps.StatusErr
			}
			// The file-handler Send reports plain bytes-read; this
			// wrapper is what turns a 0 return into end-of-stream for
			// the TX loop (spec §4.4: "0 at EOF signals the state
			// machine to set send_eof via the tx wrapper").
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
