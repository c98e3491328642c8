/*
   Image: drum-image and tape-image text loaders, and the drum-image
   saver.

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

// Package image loads and saves the two Litton 1600 drum text formats:
// the canonical address-indexed drum image, and the legacy
// slash/CRLF/hash tape image. The format is auto-detected from the
// first four bytes. A drum image collects malformed lines as per-line
// diagnostics and keeps loading; a tape image stops at its first
// structural error.
package image

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/device"
	"github.com/vacuumtube/litton1600/internal/hexfmt"
	"github.com/vacuumtube/litton1600/internal/machine"
	"github.com/vacuumtube/litton1600/internal/word"
)

// LoadError is one diagnostic produced while scanning an image. A
// drum-image load continues with the next line after one; a
// tape-image load ends at it.
type LoadError struct {
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Result reports the image title and the diagnostics accumulated
// during a Load.
type Result struct {
	Title  string
	Errors []LoadError
}

func (r *Result) add(line int, format string, args ...any) {
	r.Errors = append(r.Errors, LoadError{Line: line, Message: fmt.Sprintf(format, args...)})
}

const drumImageMarker = "#Litton-Drum-Image"

// Load reads r into m, auto-detecting drum-image vs tape-image format
// from the first four bytes of input, and returns the title and the
// accumulated per-line diagnostics.
func Load(r io.Reader, m *machine.Machine) (*Result, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if isTapeHeader(first) {
		return loadTape(br, m)
	}
	return loadDrumImage(br, m)
}

// isTapeHeader reports whether the first four bytes of an image look
// like a tape image's leading address field: three hex digits
// immediately followed by '#'.
func isTapeHeader(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	for i := 0; i < 3; i++ {
		if !isHexDigit(b[i]) {
			return false
		}
	}
	return b[3] == '#'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func loadDrumImage(r io.Reader, m *machine.Machine) (*Result, error) {
	result := &Result{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == drumImageMarker {
			continue
		}
		if strings.HasPrefix(line, "#") {
			parseMetadataLine(line, m, result, lineNo)
			continue
		}
		addr, w, err := parseDataLine(line)
		if err != nil {
			result.add(lineNo, "%v", err)
			continue
		}
		m.Drum.Set(addr, w)
	}
	return result, scanner.Err()
}

func parseMetadataLine(line string, m *machine.Machine, result *Result, lineNo int) {
	key, value, ok := strings.Cut(line[1:], ":")
	if !ok {
		result.add(lineNo, "malformed metadata line %q", line)
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "Title":
		// The machine itself has no title field; it is returned in
		// Result.Title.
		result.Title = value

	case "Drum-Size":
		n, err := strconv.Atoi(value)
		if err != nil {
			result.add(lineNo, "bad drum size %q", value)
			return
		}
		m.Drum.SetSize(n)

	case "Entry-Point":
		addr, err := strconv.ParseUint(value, 16, 12)
		if err != nil {
			result.add(lineNo, "bad entry point %q", value)
			return
		}
		m.SetEntryPoint(word.Loc(addr))

	case "Printer-Character-Set":
		cs, ok := charset.FromName(value)
		if !ok {
			result.add(lineNo, "unknown character set %q", value)
			return
		}
		m.PrinterCharset = cs

	case "Printer-Device":
		id, err := strconv.ParseUint(value, 16, 8)
		if err != nil || !device.IsValidID(uint8(id)) {
			result.add(lineNo, "invalid printer device id %q", value)
			return
		}
		m.PrinterID = uint8(id)

	case "Keyboard-Character-Set":
		cs, ok := charset.FromName(value)
		if !ok {
			result.add(lineNo, "unknown character set %q", value)
			return
		}
		m.KeyboardCharset = cs

	case "Keyboard-Device":
		id, err := strconv.ParseUint(value, 16, 8)
		if err != nil || !device.IsValidID(uint8(id)) {
			result.add(lineNo, "invalid keyboard device id %q", value)
			return
		}
		m.KeyboardID = uint8(id)

	default:
		// Unknown metadata keys are silently ignored, the way an
		// optional header field should be to stay forward compatible.
	}
}

func parseDataLine(line string) (word.Loc, word.Word, error) {
	addrPart, wordPart, ok := strings.Cut(line, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed data line %q", line)
	}
	addr, err := strconv.ParseUint(strings.TrimSpace(addrPart), 16, 12)
	if err != nil {
		return 0, 0, fmt.Errorf("bad address %q", addrPart)
	}
	w, err := strconv.ParseUint(strings.TrimSpace(wordPart), 16, 40)
	if err != nil {
		return 0, 0, fmt.Errorf("bad word %q", wordPart)
	}
	return word.Loc(addr), word.Word(w), nil
}

// tapeScanner walks a tape image as runs of hex digits, each decided
// by its terminator: '#' makes the run just read an absolute address
// reload, '/' or a line break stores the run as a word and advances
// the address, and ',' (or end of input) stores the final word and
// finishes the tape.
type tapeScanner struct {
	data   []byte
	pos    int
	lineNo int
}

const tapeEnd = -1

// next skips whitespace, reads one run of hex digits, and returns its
// value together with the terminator byte that followed it (tapeEnd
// at end of input). ok is false when no hex digit was found where a
// word was expected.
func (ts *tapeScanner) next() (value uint64, terminator int, ok bool) {
	for ts.pos < len(ts.data) {
		c := ts.data[ts.pos]
		if c != ' ' && c != '\r' && c != '\n' {
			break
		}
		if c == '\n' {
			ts.lineNo++
		}
		ts.pos++
	}
	start := ts.pos
	for ts.pos < len(ts.data) && isHexDigit(ts.data[ts.pos]) {
		ts.pos++
	}
	if ts.pos == start {
		return 0, tapeEnd, false
	}
	value, err := strconv.ParseUint(string(ts.data[start:ts.pos]), 16, 64)
	if err != nil {
		return 0, tapeEnd, false
	}
	if ts.pos >= len(ts.data) {
		return value, tapeEnd, true
	}
	terminator = int(ts.data[ts.pos])
	ts.pos++
	if terminator == '\n' {
		ts.lineNo++
	}
	return value, terminator, true
}

func loadTape(r io.Reader, m *machine.Machine) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	ts := &tapeScanner{data: data, lineNo: 1}
	addr := word.Loc(0)

	for {
		value, terminator, ok := ts.next()
		if !ok {
			result.add(ts.lineNo, "invalid tape image")
			return result, nil
		}
		if terminator != '#' && addr >= word.MaxDrumSize {
			result.add(ts.lineNo, "tape overruns the drum")
			return result, nil
		}
		switch terminator {
		case tapeEnd, ',':
			m.Drum.Set(addr, word.Word(value))
			return result, nil

		case '/', '\r', '\n':
			m.Drum.Set(addr, word.Word(value))
			addr++

		case '#':
			if value >= uint64(word.MaxDrumSize) {
				result.add(ts.lineNo, "address reload %X out of range", value)
				return result, nil
			}
			addr = word.Loc(value)

		default:
			result.add(ts.lineNo, "invalid terminator %q", terminator)
			return result, nil
		}
	}
}

// Save writes m's drum to w in the canonical address-indexed drum
// image format, with a metadata header recording everything Load
// needs to restore the machine losslessly: title, drum size, entry
// point, and the printer/keyboard device and character-set bindings.
func Save(w io.Writer, m *machine.Machine, title string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, drumImageMarker)
	if title != "" {
		fmt.Fprintf(bw, "#Title: %s\n", title)
	}
	fmt.Fprintf(bw, "#Drum-Size: %d\n", m.Drum.Size())
	fmt.Fprintf(bw, "#Entry-Point: %s\n", hexfmt.Addr(uint16(m.EntryPoint)))
	fmt.Fprintf(bw, "#Printer-Device: %02X\n", m.PrinterID)
	fmt.Fprintf(bw, "#Printer-Character-Set: %s\n", m.PrinterCharset.Name())
	fmt.Fprintf(bw, "#Keyboard-Device: %02X\n", m.KeyboardID)
	fmt.Fprintf(bw, "#Keyboard-Character-Set: %s\n", m.KeyboardCharset.Name())

	for addr := word.Loc(0); addr < m.Drum.Size(); addr++ {
		if !m.Drum.IsUsed(addr) {
			continue
		}
		fmt.Fprintf(bw, "%s:%s\n", hexfmt.Addr(uint16(addr)), hexfmt.Word(uint64(m.Drum.Get(addr))))
	}

	return bw.Flush()
}
