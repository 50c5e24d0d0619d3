/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package atomic provides a minimal type-safe wrapper around sync/atomic.Value,
// used by the server instance table to hold per-slot in-use flags so that
// Release (called, e.g., from a signal handler) never needs to take a lock
// on the poller's hot path.
package atomic

import (
	"sync/atomic"
)

// Value is a type-safe atomic holder for T.
type Value[T comparable] interface {
	Load() T
	Store(v T)
	Swap(new T) (old T)
	CompareAndSwap(old, new T) bool
}

// boxed wraps T in a concrete struct so sync/atomic.Value (which panics on
// inconsistent concrete types across calls) always sees the same type
// regardless of what T is.
type boxed[T comparable] struct {
	v T
}

type val[T comparable] struct {
	av atomic.Value
}

// NewValue returns a Value[T] initialized to the zero value of T.
func NewValue[T comparable]() Value[T] {
	v := &val[T]{}
	var zero T
	v.av.Store(boxed[T]{v: zero})
	return v
}

func (o *val[T]) Load() T {
	if b, ok := o.av.Load().(boxed[T]); ok {
		return b.v
	}
	var zero T
	return zero
}

func (o *val[T]) Store(v T) {
	o.av.Store(boxed[T]{v: v})
}

func (o *val[T]) Swap(new T) (old T) {
	if b, ok := o.av.Swap(boxed[T]{v: new}).(boxed[T]); ok {
		return b.v
	}
	var zero T
	return zero
}

func (o *val[T]) CompareAndSwap(old, new T) bool {
	return o.av.CompareAndSwap(boxed[T]{v: old}, boxed[T]{v: new})
}
