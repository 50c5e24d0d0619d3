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

// Package ssi is the optional server-side-include file handler for
// .shtml/.ssi extensions: it substitutes
// `<!--#include virtual="path"-->` directives by resolving path through
// the same rooted filesystem as the static handler and inlining its
// bytes.
package ssi

import (
	"bytes"
	"io"

	"github.com/imjustmatthew/fnet-lpc/fsroot"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

var (
	directiveOpen  = []byte(`<!--#include virtual="`)
	directiveClose = []byte(`"-->`)
)

// Handlers returns the .shtml and .ssi file-handler-table entries; both
// share the same render logic.
func Handlers() []srvtps.FileHandler {
	return []srvtps.FileHandler{
		{Extension: "shtml", Handle: handle, Send: send, Close: closeFile},
		{Extension: "ssi", Handle: handle, Send: send, Close: closeFile},
	}
}

func handle(c srvtps.Conn, uri srvtps.URI) int {
	f, err := c.Root().Open(string(uri.Path))
	if err != nil {
		return 404
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return 500
	}

	rendered := render(c.Root(), raw)

	sp := c.SendParam()
	sp.Data = rendered
	sp.Produced = 0
	c.Response().ContentLength = int64(len(rendered))
	return srvtps.OK
}

// render performs one substitution pass; it does not recurse into
// included files, avoiding include cycles by construction.
func render(root fsroot.Root, raw []byte) []byte {
	var out bytes.Buffer
	rest := raw

	for {
		i := bytes.Index(rest, directiveOpen)
		if i < 0 {
			out.Write(rest)
			break
		}
		out.Write(rest[:i])
		rest = rest[i+len(directiveOpen):]

		j := bytes.Index(rest, directiveClose)
		if j < 0 {
			// Unterminated directive: emit the opening token verbatim
			// and stop scanning.
			out.Write(directiveOpen)
			out.Write(rest)
			break
		}

		path := string(rest[:j])
		rest = rest[j+len(directiveClose):]

		if inc, err := root.Open(path); err == nil {
			if b, err := io.ReadAll(inc); err == nil {
				out.Write(b)
			}
			_ = inc.Close()
		}
	}

	return out.Bytes()
}

func send(c srvtps.Conn, buf []byte) int {
	sp := c.SendParam()
	remaining := sp.Data[sp.Produced:]
	if len(remaining) == 0 {
		return 0
	}

	n := copy(buf, remaining)
	sp.Produced += int64(n)
	return n
}

func closeFile(c srvtps.Conn) {
	sp := c.SendParam()
	sp.Data = nil
}
