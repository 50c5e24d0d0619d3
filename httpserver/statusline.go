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
	"strconv"

	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// BufSize is BUF from spec §3: the fixed per-connection line buffer
// capacity. 512 sits in the spec's suggested 256-1024 byte range.
const BufSize = 512

// statusLineSegment returns the text sub-state s of resp would emit, or
// "" if that sub-state contributes nothing this time around (spec §4.4
// sub-states 1-3 are conditional).
func statusLineSegment(resp *srvtps.Response) string {
	switch resp.StatusLine {
	case 0:
		reason := reasonFor(resp.StatusCode)
		return "HTTP/" + strconv.Itoa(int(resp.Version.Major)) + "." +
			strconv.Itoa(int(resp.Version.Minor)) + " " +
			strconv.Itoa(resp.StatusCode) + " " + reason + "\r\n"
	case 1:
		if resp.StatusCode == 401 && resp.AuthEntry != nil {
			resp.ContentLength = -1
			return "WWW-Authenticate: Basic realm=\"" + resp.AuthEntry.Realm + "\"\r\n"
		}
	case 2:
		if resp.ContentLength >= 0 {
			return "Content-Length: " + strconv.FormatInt(resp.ContentLength, 10) + "\r\n"
		}
	case 3:
		if resp.ContentType != nil {
			return "Content-Type: " + resp.ContentType.MIME + "\r\n"
		}
	case 4:
		return "\r\n"
	}
	return ""
}

// StatusLine is the tx_data variant of spec §4.4: produces the status
// line and selected headers across up to five sub-states, each able to
// yield mid-buffer. On the terminating sub-state it swaps
// resp.TxData to the matched method's body producer.
func StatusLine(c srvtps.Conn) int {
	resp := c.Response()
	buf := c.Buffer()
	n := 0

	for resp.StatusLine <= 4 {
		seg := statusLineSegment(resp)
		if seg == "" {
			resp.StatusLine++
			continue
		}

		if n+len(seg) >= BufSize-1 {
			// Buffer overload: per spec §9(a) / original_source fnet_http.c
			// (status_line_state overload path), the oversized sub-state's
			// content is dropped outright rather than split or truncated
			// across ticks. If something had already accumulated this
			// call, keep it and force a clean CRLF terminator; otherwise
			// nothing is sent this call at all (n stays 0) and the
			// sub-state still advances for the next tick.
			if n > 0 {
				buf[n-2], buf[n-1] = '\r', '\n'
			} else {
				n = 0
			}
			resp.StatusLine++
			return n
		}

		n += copy(buf[n:], seg)
		resp.StatusLine++

		if resp.StatusLine > 4 {
			if resp.StatusCode != 200 {
				resp.SendEOF = true
			}
			resp.TxData = methodSend
			return n
		}
	}

	return n
}

// methodSend is the default tx_data successor once the status line and
// headers are fully emitted: it simply forwards to the matched method's
// own Send (spec §4.4: "swap response.tx_data to method.send").
func methodSend(c srvtps.Conn) int {
	m := c.Request().Method
	if m == nil || m.Send == nil {
		return srvtps.StatusErr
	}
	return m.Send(c, c.Buffer())
}
