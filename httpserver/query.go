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

// DecodeQuery decodes %HH escapes and +-to-space substitution from src
// into dst in place, returning the decoded length (spec §6). dst may
// alias src. An invalid percent escape is replaced by a single '?' and
// the scan resumes right after its first non-hex byte (or at the end of
// src), so "a%zzb" decodes to "a?zb".
func DecodeQuery(dst, src []byte) int {
	w := 0
	for r := 0; r < len(src); {
		switch src[r] {
		case '+':
			dst[w] = ' '
			w++
			r++
		case '%':
			// Walk up to two bytes past '%', stopping at the first
			// non-hex byte; a short or invalid escape yields '?' and
			// resumes right after that non-hex byte, which is consumed
			// with the escape; any bytes after it are decoded as
			// ordinary characters (matches the reference decoder's
			// src++-then-check ordering).
			cur := r
			var val byte
			i := 0
			for i < 2 {
				cur++
				if cur >= len(src) {
					break
				}
				h, ok := hexVal(src[cur])
				if !ok {
					break
				}
				val = val<<4 | h
				i++
			}
			if i == 2 {
				dst[w] = val
			} else {
				dst[w] = '?'
			}
			w++
			r = cur + 1
		default:
			dst[w] = src[r]
			w++
			r++
		}
	}
	return w
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
