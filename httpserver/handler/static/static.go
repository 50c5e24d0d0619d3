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

// Package static is the default file handler of spec §4.4: serves a
// file opened relative to the server's root directory, or the shared,
// always-rewound index file for path "/".
package static

import (
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// Handler builds the default file-handler-table entry (the empty
// extension token, matched on miss).
func Handler() srvtps.FileHandler {
	return srvtps.FileHandler{
		Extension: "",
		Handle:    handle,
		Send:      send,
		Close:     closeFile,
	}
}

func handle(c srvtps.Conn, uri srvtps.URI) int {
	sp := c.SendParam()

	if string(uri.Path) == "/" {
		idx := c.Index()
		if idx == nil {
			return 404
		}
		if err := idx.Rewind(); err != nil {
			return 404
		}
		size, err := idx.Size()
		if err != nil {
			return 404
		}
		sp.File = idx
		sp.IsIndex = true
		sp.Size = size
		sp.Produced = 0
		c.Response().ContentLength = size
		return srvtps.OK
	}

	f, err := c.Root().Open(string(uri.Path))
	if err != nil {
		return 404
	}

	size, err := f.Size()
	if err != nil {
		_ = f.Close()
		return 404
	}

	sp.File = f
	sp.IsIndex = false
	sp.Size = size
	sp.Produced = 0
	c.Response().ContentLength = size
	return srvtps.OK
}

func send(c srvtps.Conn, buf []byte) int {
	sp := c.SendParam()
	if sp.File == nil {
		return 0
	}

	n, _ := sp.File.Read(buf)
	if n > 0 {
		sp.Produced += int64(n)
	}
	return n
}

func closeFile(c srvtps.Conn) {
	sp := c.SendParam()
	if sp.File == nil || sp.IsIndex {
		return
	}
	_ = sp.File.Close()
	sp.File = nil
}
