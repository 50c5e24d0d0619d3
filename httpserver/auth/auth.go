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

// Package auth is the optional, compiled-in HTTP Basic authentication
// subsystem: a longest-URI-prefix-matched credential table and the
// Authorization header validator the connection state machine consults
// while reading request headers, after the method handler has run.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// Entry is one row of the auth table: every URI whose path has URIPrefix
// as a prefix requires one of Credentials under Realm.
type Entry struct {
	URIPrefix   string
	Realm       string
	Credentials map[string]string // user -> password, plaintext by design: embedded-device scale
}

// Table is an ordered list of Entry; Match always returns the entry with
// the longest matching URIPrefix, not the first match, so a deployment
// can layer a specific sub-path's credentials over a broader one.
type Table []Entry

// Match returns the entry guarding path, or nil if none applies.
func (t Table) Match(path string) *Entry {
	var best *Entry
	for i := range t {
		e := &t[i]
		if strings.HasPrefix(path, e.URIPrefix) {
			if best == nil || len(e.URIPrefix) > len(best.URIPrefix) {
				best = e
			}
		}
	}
	return best
}

// Challenge formats the WWW-Authenticate header value for e, emitted by
// the status-line emitter's header sub-state on a 401.
func (e *Entry) Challenge() string {
	return `Basic realm="` + e.Realm + `"`
}

// Validate reports whether authorizationHeader (the verbatim value of an
// incoming Authorization header, or "" if absent) satisfies e.
func (e *Entry) Validate(authorizationHeader string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(authorizationHeader, prefix) {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(authorizationHeader[len(prefix):])
	if err != nil {
		return false
	}

	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return false
	}

	want, ok := e.Credentials[user]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(want)) == 1
}

// Required builds the response-side AuthEntry the state machine attaches
// to a Response when a table entry guards uri and the incoming request
// did not satisfy it; nil means no auth is required or it already
// passed.
func Required(table Table, uri srvtps.URI, authorizationHeader string) *srvtps.AuthEntry {
	e := table.Match(string(uri.Path))
	if e == nil {
		return nil
	}
	if e.Validate(authorizationHeader) {
		return nil
	}
	return &srvtps.AuthEntry{Realm: e.Realm}
}
