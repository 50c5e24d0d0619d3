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

// Package content is the content-type table of spec §4.3/§6: extension to
// MIME type, with the handful of entries the spec calls out built in and
// Register for anything a deployment wants to add.
package content

import srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"

// Defaults returns a fresh copy of the built-in extension/MIME table, so
// callers can append or override entries without mutating shared state.
func Defaults() []srvtps.ContentType {
	return []srvtps.ContentType{
		{Extension: "css", MIME: "text/css"},
		{Extension: "jpg", MIME: "image/jpeg"},
		{Extension: "gif", MIME: "image/gif"},
		{Extension: "js", MIME: "application/javascript"},
	}
}

// Register appends an extension/MIME pair, or overwrites it in place if
// the extension is already present.
func Register(table []srvtps.ContentType, ext, mime string) []srvtps.ContentType {
	for i := range table {
		if table[i].Extension == ext {
			table[i].MIME = mime
			return table
		}
	}
	return append(table, srvtps.ContentType{Extension: ext, MIME: mime})
}
