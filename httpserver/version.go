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

const versionPrefix = "HTTP/"

// ParseVersion extracts {major, minor} from an "HTTP/x.y" token (spec
// §4.2). Absence of the literal prefix, or any malformed component,
// yields {0, 9} (HTTP/0.9).
func ParseVersion(buf []byte) srvtps.Version {
	idx := bytes.Index(buf, []byte(versionPrefix))
	if idx < 0 {
		return srvtps.Version{Major: 0, Minor: 9}
	}

	rest := buf[idx+len(versionPrefix):]

	major, n, ok := readDecimalByte(rest)
	if !ok {
		return srvtps.Version{Major: 0, Minor: 9}
	}
	rest = rest[n:]

	if len(rest) == 0 || rest[0] != '.' {
		return srvtps.Version{Major: 0, Minor: 9}
	}
	rest = rest[1:]

	minor, _, ok := readDecimalByte(rest)
	if !ok {
		return srvtps.Version{Major: 0, Minor: 9}
	}

	return srvtps.Version{Major: major, Minor: minor}
}

// readDecimalByte reads a run of decimal digits bounded to a single
// byte's worth of value (spec §4.2: "numbers are bounded to one byte
// each"), returning how many bytes were consumed.
func readDecimalByte(buf []byte) (v uint8, n int, ok bool) {
	var val int

	for n < len(buf) && buf[n] >= '0' && buf[n] <= '9' {
		val = val*10 + int(buf[n]-'0')
		if val > 255 {
			val = 255
		}
		n++
	}

	if n == 0 {
		return 0, 0, false
	}

	return uint8(val), n, true
}
