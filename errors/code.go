/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errors provides numeric error-code classification on top of the
// standard error interface, the way an embedded HTTP stack needs to carry
// an HTTP status code (501, 404, 500, ...) alongside a Go error value.
package errors

import (
	"strconv"
)

// idMsgFct stores the mapping between error codes and their message functions.
var idMsgFct = make(map[CodeError]Message)

// Message is a function type that generates error messages based on error codes.
type Message func(code CodeError) (message string)

// CodeError is a numeric error code, similar in spirit to an HTTP status
// code: each core sub-package registers its own block of codes (see
// modules.go) and a Message function to render them.
type CodeError uint16

const (
	// UnknownError is the fallback code when none was registered.
	UnknownError CodeError = 0
	// UnknownMessage is the default message for UnknownError.
	UnknownMessage = "unknown error"
)

// Uint16 returns the CodeError value as a uint16.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// String returns the decimal representation of the code.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Message returns the registered message for this code, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error value from this code, optionally wrapping
// parent errors.
func (c CodeError) Error(p ...error) Error {
	return New(c, c.Message(), p...)
}

// findCodeErrorInMapMessage finds the registered namespace a code belongs
// to even when the caller passes a code offset from a namespace base
// rather than the base itself (message functions are registered once per
// namespace minimum, see RegisterIdFctMessage).
func findCodeErrorInMapMessage(code CodeError) CodeError {
	if _, ok := idMsgFct[code]; ok {
		return code
	}

	var best CodeError = UnknownError
	var found bool

	for k := range idMsgFct {
		if k <= code && (!found || k > best) {
			best = k
			found = true
		}
	}

	if found {
		return best
	}

	return code
}

// ExistInMapMessage reports whether a message function is already
// registered for the given namespace-base code.
func ExistInMapMessage(code CodeError) bool {
	_, ok := idMsgFct[code]
	return ok
}

// RegisterIdFctMessage registers the message function for every code
// belonging to the namespace starting at code. Each core sub-package
// calls this once, from its own init(), with its own getMessage switch.
func RegisterIdFctMessage(code CodeError, fct Message) {
	idMsgFct[code] = fct
}
