/*
   Tape: paper-tape reader and punch device variants.

   Copyright 2025

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
*/

package device

import (
	"bufio"
	"io"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/word"
)

// TapeReader is an input-only device that streams bytes decoded
// through a charset codec from an io.Reader (typically a file opened
// by the CLI's -r flag), one device code per Input call.
type TapeReader struct {
	id      uint8
	charset charset.Charset
	data    []byte
	pos     int
}

// NewTapeReader creates a reader bound to the full contents of r.
func NewTapeReader(id uint8, cs charset.Charset, r io.Reader) (*TapeReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &TapeReader{id: id, charset: cs, data: data}, nil
}

func (t *TapeReader) ID() uint8            { return t.id }
func (t *TapeReader) SupportsInput() bool  { return true }
func (t *TapeReader) SupportsOutput() bool { return false }
func (t *TapeReader) Select()              {}
func (t *TapeReader) Deselect()            {}
func (t *TapeReader) IsBusy() bool         { return false }
func (t *TapeReader) Close()               {}
func (t *TapeReader) Output(uint8, word.Parity) {}
func (t *TapeReader) Status() (uint8, bool)     { return 0, false }

func (t *TapeReader) Input(parity word.Parity) (value uint8, ok bool) {
	if t.pos >= len(t.data) {
		return 0, false
	}
	code, consumed := charset.ToDevice(string(t.data), &t.pos, t.charset)
	if !consumed {
		t.pos++
		return 0, false
	}
	return word.AddParity(code, parity), true
}

// TapePunch is an output-only device that renders bytes through a
// charset codec onto an io.Writer (typically a file opened by the
// CLI's -p flag).
type TapePunch struct {
	id      uint8
	charset charset.Charset
	w       *bufio.Writer
}

// NewTapePunch creates a punch writing rendered output to w.
func NewTapePunch(id uint8, cs charset.Charset, w io.Writer) *TapePunch {
	return &TapePunch{id: id, charset: cs, w: bufio.NewWriter(w)}
}

func (t *TapePunch) ID() uint8            { return t.id }
func (t *TapePunch) SupportsInput() bool  { return false }
func (t *TapePunch) SupportsOutput() bool { return true }
func (t *TapePunch) Select()              {}
func (t *TapePunch) Deselect()            {}
func (t *TapePunch) IsBusy() bool         { return false }
func (t *TapePunch) Close()               { t.w.Flush() }
func (t *TapePunch) Input(word.Parity) (uint8, bool) { return 0, false }
func (t *TapePunch) Status() (uint8, bool)           { return 0, false }

func (t *TapePunch) Output(value uint8, parity word.Parity) {
	value = word.RemoveParity(value, parity)
	switch t.charset {
	case charset.EBS1231:
		ch, text, multi := charset.FromDevice(value, t.charset)
		if multi {
			t.w.WriteString(text)
		} else {
			t.w.WriteByte(ch)
		}
	case charset.Hex:
		t.w.WriteString(hexByte(value))
	default:
		t.w.WriteByte(value)
	}
	t.w.Flush()
}
