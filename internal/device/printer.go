/*
   Printer: line-printer/teleprinter device variant.

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

// Printer is an output-only device that renders bytes through a
// charset codec onto an io.Writer, tracking print-head column so that
// EBS1231 print-wheel-position codes can be rendered as the spacing
// they represent rather than literal text.
type Printer struct {
	id       uint8
	charset  charset.Charset
	w        *bufio.Writer
	position int
}

// NewPrinter creates a printer with the given select code and
// charset, writing rendered output to w.
func NewPrinter(id uint8, cs charset.Charset, w io.Writer) *Printer {
	return &Printer{id: id, charset: cs, w: bufio.NewWriter(w)}
}

func (p *Printer) ID() uint8            { return p.id }
func (p *Printer) SupportsInput() bool  { return false }
func (p *Printer) SupportsOutput() bool { return true }
func (p *Printer) Select()              {}
func (p *Printer) Deselect()            {}
func (p *Printer) IsBusy() bool         { return false }
func (p *Printer) Close()               { p.w.Flush() }

func (p *Printer) Input(word.Parity) (uint8, bool) { return 0, false }
func (p *Printer) Status() (uint8, bool)           { return 0, false }

// Output renders value according to the device's charset, matching
// the original printer_output: special-cased wheel-position spacing
// and line-feed/carriage-return codes for EBS1231, plain space-pair
// hex dump for Hex, and a straight byte otherwise.
func (p *Printer) Output(value uint8, parity word.Parity) {
	if p.charset != charset.Hex {
		value = word.RemoveParity(value, parity)
	}
	switch p.charset {
	case charset.EBS1231:
		if pos := int(charset.PrintWheelPosition(value)); pos != 0 {
			target := pos - 1
			for p.position < target {
				p.w.WriteByte(' ')
				p.position++
			}
			for p.position > target {
				p.w.WriteByte('\b')
				p.position--
			}
			p.w.Flush()
			return
		}
		switch value {
		case 075, 055, 054: // line feed left/right/both
			p.w.WriteByte('\n')
			p.w.Flush()
			return
		}
		ch, text, multi := charset.FromDevice(value, p.charset)
		switch {
		case !multi && (ch == '\n' || ch == '\f'):
			p.w.WriteByte('\r')
			p.w.WriteByte('\n')
			p.position = 0
		case !multi && ch == '\r':
			p.w.WriteByte(ch)
			p.position = 0
		case !multi && ch == '\b':
			p.w.WriteByte('\b')
			if p.position > 0 {
				p.position--
			}
		case !multi:
			p.w.WriteByte(ch)
		case multi:
			p.w.WriteString(text)
			p.position += len(text)
		}
	case charset.Hex:
		if p.position > 0 {
			p.w.WriteByte(' ')
		}
		p.w.WriteString(hexByte(value))
		p.position++
		if p.position >= 16 {
			p.w.WriteByte('\n')
			p.position = 0
		}
	default:
		p.w.WriteByte(value)
	}
	p.w.Flush()
}

var hexDigits = "0123456789ABCDEF"

func hexByte(v uint8) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0xF]})
}
