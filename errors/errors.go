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

package errors

import (
	"errors"
	"fmt"
)

// Error extends the standard error with a numeric CodeError and an
// optional parent chain, so a caller three layers down (e.g. a file
// handler's open failure) can surface a concrete HTTP status code to
// the connection state machine without the state machine knowing
// anything about files.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError
	// Unwrap exposes the parent chain to errors.Is/errors.As.
	Unwrap() []error
}

type ers struct {
	c CodeError
	m string
	p []error
}

// New builds an Error with the given code and message, wrapping any
// non-nil parents.
func New(code CodeError, msg string, parent ...error) Error {
	e := &ers{c: code, m: msg}

	for _, p := range parent {
		if p != nil {
			e.p = append(e.p, p)
		}
	}

	return e
}

// Newf is New with fmt.Sprintf-style formatting of msg.
func Newf(code CodeError, msg string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(msg, args...))
}

func (e *ers) IsCode(code CodeError) bool {
	return e.c == code
}

func (e *ers) GetCode() CodeError {
	return e.c
}

func (e *ers) Unwrap() []error {
	return e.p
}

func (e *ers) Error() string {
	if e.m == "" {
		return e.c.Message()
	}
	return e.m
}

// Is implements errors.Is compatibility: two Errors match if their
// codes match.
func (e *ers) Is(target error) bool {
	var o *ers
	if errors.As(target, &o) {
		return o.c == e.c
	}
	return false
}
