/*
 * litton1600 - Hex formatting helpers.
 *
 * Copyright 2025
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package hexfmt formats the on-disk representations used by drum
// images: 10-digit 40-bit words and 3-digit 12-bit addresses.
package hexfmt

import "strings"

var digits = "0123456789ABCDEF"

// Word formats a 40-bit word as 10 uppercase hex digits, MSB first.
func Word(w uint64) string {
	var b strings.Builder
	b.Grow(10)
	for shift := 36; shift >= 0; shift -= 4 {
		b.WriteByte(digits[(w>>uint(shift))&0xF])
	}
	return b.String()
}

// Addr formats a 12-bit drum location as 3 uppercase hex digits.
func Addr(a uint16) string {
	var b strings.Builder
	b.Grow(3)
	for shift := 8; shift >= 0; shift -= 4 {
		b.WriteByte(digits[(a>>uint(shift))&0xF])
	}
	return b.String()
}

// Byte formats a single byte as 2 uppercase hex digits.
func Byte(v uint8) string {
	return string([]byte{digits[(v>>4)&0xF], digits[v&0xF]})
}
