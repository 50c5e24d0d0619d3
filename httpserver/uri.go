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
	"bytes"

	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// ParseURI splits a request-target in place (spec §4.1). buf is
// terminated by either a space or a NUL; the returned cursor is the
// index just past the parsed target, which the caller (the request-line
// parser) uses to continue with the version token.
//
// ParseURI never allocates: URI.Path/Query/Extension are sub-slices of
// buf, and the terminating bytes within buf are overwritten with 0 so
// every returned field is itself a valid, independently NUL-terminated
// C-style string for any consumer that wants one.
func ParseURI(buf []byte) (srvtps.URI, int) {
	i := 0
	for i < len(buf) && buf[i] == ' ' {
		i++
	}

	start := i
	var uri srvtps.URI

	for uri.Path == nil && i < len(buf) {
		switch buf[i] {
		case ' ':
			uri.Path = buf[start:i]
			buf[i] = 0
			i++
		case '?':
			uri.Path = buf[start:i]
			buf[i] = 0
			i++
			qs := i
			for i < len(buf) && buf[i] != ' ' && buf[i] != 0 {
				i++
			}
			uri.Query = buf[qs:i]
			if i < len(buf) {
				buf[i] = 0
				i++
			}
		case 0:
			uri.Path = buf[start:i]
		default:
			i++
		}
	}
	if uri.Path == nil {
		uri.Path = buf[start:i]
	}

	if uri.Query == nil {
		// Missing query: point at the final NUL so consumers always see
		// a valid (empty) string, never a nil slice (spec §4.1).
		end := len(uri.Path)
		uri.Query = uri.Path[end:end]
	}

	if dot := bytes.LastIndexByte(uri.Path, '.'); dot >= 0 {
		uri.Extension = uri.Path[dot+1:]
	} else {
		end := len(uri.Path)
		uri.Extension = uri.Path[end:end]
	}

	return uri, i
}
