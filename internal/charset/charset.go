/*
   Charset: Litton 1600 character-set codecs (ASCII, UASCII, EBS1231, HEX).

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

// Package charset converts between the 7-bit device codes carried on
// the Litton's serial I/O instructions and the host's text
// representation. Four charsets are supported: ASCII and UASCII
// (upper-cased ASCII) for plain teleprinter traffic, EBS1231 for the
// EBS/1231 print-wheel code table (Appendix V of the System
// Programming Manual), and HEX for raw byte dumps.
package charset

import (
	"strconv"
	"strings"
)

// Charset identifies one of the four supported device code mappings.
type Charset int

const (
	ASCII Charset = iota
	UASCII
	EBS1231
	Hex
)

// FromName parses a charset name (case-sensitive, as found in image
// file headers and CLI flags). It reports ok=false for unknown names.
func FromName(name string) (cs Charset, ok bool) {
	switch name {
	case "ASCII":
		return ASCII, true
	case "UASCII":
		return UASCII, true
	case "EBS1231":
		return EBS1231, true
	case "HEX":
		return Hex, true
	default:
		return ASCII, false
	}
}

// Name returns the canonical name of a charset.
func (cs Charset) Name() string {
	switch cs {
	case ASCII:
		return "ASCII"
	case UASCII:
		return "UASCII"
	case EBS1231:
		return "EBS1231"
	case Hex:
		return "HEX"
	default:
		return "ASCII"
	}
}

// ebs1231ToASCII is the Appendix V mapping from Litton EBS/1231 print
// codes (octal 000-177) to their ASCII rendering. Single-character
// entries pass straight through; multi-character entries (print-wheel
// positions, named keys, named control functions) render as bracketed
// or braced escape sequences.
var ebs1231ToASCII = [128]string{
	/* 000 */ " ",
	/* 001 */ "1",
	/* 002 */ "2",
	/* 003 */ "3",
	/* 004 */ "4",
	/* 005 */ "5",
	/* 006 */ "6",
	/* 007 */ "7",
	/* 010 */ "8",
	/* 011 */ "9",
	/* 012 */ "@", // also the CLEAR key
	/* 013 */ "#", // also the P0 key
	/* 014 */ "[P1]",
	/* 015 */ "[P2]",
	/* 016 */ "[P3]",
	/* 017 */ "[P4]",
	/* 020 */ "0",
	/* 021 */ "/",
	/* 022 */ "S",
	/* 023 */ "T",
	/* 024 */ "U",
	/* 025 */ "V",
	/* 026 */ "W",
	/* 027 */ "X",
	/* 030 */ "Y",
	/* 031 */ "Z",
	/* 032 */ "*",
	/* 033 */ ",",
	/* 034 */ "[I]",
	/* 035 */ "[II]",
	/* 036 */ "[III]",
	/* 037 */ "[IIII]",
	/* 040 */ "-", // also the diamond key
	/* 041 */ "J",
	/* 042 */ "K",
	/* 043 */ "L",
	/* 044 */ "M",
	/* 045 */ "N",
	/* 046 */ "O",
	/* 047 */ "P",
	/* 050 */ "Q",
	/* 051 */ "R",
	/* 052 */ "%",
	/* 053 */ "$",
	/* 054 */ "[LFB]", // line feed both
	/* 055 */ "[LFR]", // line feed right
	/* 056 */ "[BR]",  // black ribbon print
	/* 057 */ "\f",    // form up
	/* 060 */ "&",
	/* 061 */ "A",
	/* 062 */ "B",
	/* 063 */ "C",
	/* 064 */ "D",
	/* 065 */ "E",
	/* 066 */ "F",
	/* 067 */ "G",
	/* 070 */ "H",
	/* 071 */ "I",
	/* 072 */ "[072]", // not used
	/* 073 */ ".",
	/* 074 */ "[RR]", // red ribbon print
	/* 075 */ "\n",   // line feed left
	/* 076 */ "\b",   // backspace
	/* 077 */ "[TL]", // carriage open/close, tape leader
	/* 100 */ "\r",   // return printer to position 1
	/* 101 */ "{4}",  // printer wheel positions
	/* 102 */ "{7}",
	/* 103 */ "{10}",
	/* 104 */ "{13}",
	/* 105 */ "{16}",
	/* 106 */ "{19}",
	/* 107 */ "{22}",
	/* 110 */ "{25}",
	/* 111 */ "{28}",
	/* 112 */ "{31}",
	/* 113 */ "{34}",
	/* 114 */ "{37}",
	/* 115 */ "{40}",
	/* 116 */ "{43}",
	/* 117 */ "{46}",
	/* 120 */ "{49}",
	/* 121 */ "{52}",
	/* 122 */ "{55}",
	/* 123 */ "{58}",
	/* 124 */ "{61}",
	/* 125 */ "{64}",
	/* 126 */ "{67}",
	/* 127 */ "{70}",
	/* 130 */ "{73}",
	/* 131 */ "{76}",
	/* 132 */ "{79}",
	/* 133 */ "{82}",
	/* 134 */ "{85}",
	/* 135 */ "{88}",
	/* 136 */ "{91}",
	/* 137 */ "{94}",
	/* 140 */ "{97}",
	/* 141 */ "{100}",
	/* 142 */ "{103}",
	/* 143 */ "{106}",
	/* 144 */ "{109}",
	/* 145 */ "{112}",
	/* 146 */ "{115}",
	/* 147 */ "{118}",
	/* 150 */ "{121}",
	/* 151 */ "{124}",
	/* 152 */ "{127}",
	/* 153 */ "{130}",
	/* 154 */ "{133}",
	/* 155 */ "{136}",
	/* 156 */ "{139}",
	/* 157 */ "{142}",
	/* 160 */ "{145}",
	/* 161 */ "{148}",
	/* 162 */ "{151}",
	/* 163 */ "{154}",
	/* 164 */ "{157}",
	/* 165 */ "{160}",
	/* 166 */ "{163}",
	/* 167 */ "{166}",
	/* 170 */ "{169}",
	/* 171 */ "{172}",
	/* 172 */ "{175}",
	/* 173 */ "{178}",
	/* 174 */ "{181}",
	/* 175 */ "{184}",
	/* 176 */ "{187}",
	/* 177 */ "{190}",
}

var hexBytes [256]string

func init() {
	for i := range hexBytes {
		hexBytes[i] = strings.ToUpper(strconv.FormatInt(int64(i), 16))
		if len(hexBytes[i]) < 2 {
			hexBytes[i] = "0" + hexBytes[i]
		}
	}
}

// ToDevice converts a single rune from the host side into the
// charset's 7-bit device code, consuming it from s starting at *pos.
// It reports ok=false if no code matches at that position (the rune
// at *pos is left unconsumed).
//
// EBS1231 and Hex both scan the EBS1231 table for a literal match of
// its escape text. Matching is a linear scan in code order; no table
// entry is a prefix of another, the closing brace or bracket always
// disambiguates, so scan order cannot shadow a longer escape.
func ToDevice(s string, pos *int, cs Charset) (code uint8, ok bool) {
	if *pos >= len(s) {
		return 0, false
	}
	switch cs {
	case ASCII:
		code = uint8(s[*pos])
		*pos++
		return code, true
	case UASCII:
		ch := s[*pos]
		if ch >= 'a' && ch <= 'z' {
			ch = ch - 'a' + 'A'
		}
		*pos++
		return uint8(ch), true
	case EBS1231, Hex:
		for c := 0; c < 128; c++ {
			if matchAt(s, pos, ebs1231ToASCII[c]) {
				return uint8(c), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

func matchAt(s string, pos *int, seq string) bool {
	if *pos+len(seq) > len(s) {
		return false
	}
	if s[*pos:*pos+len(seq)] != seq {
		return false
	}
	*pos += len(seq)
	return true
}

// FromDevice converts a 7-bit device code into its host rendering.
// For the single-character ASCII/UASCII charsets it returns the
// plain byte. For EBS1231 and Hex, single-character table entries
// return directly; multi-character entries (escape sequences, wheel
// positions, hex byte pairs) are reported via the second return value
// with multi set, and the caller should emit the full string rather
// than a single byte.
func FromDevice(code uint8, cs Charset) (ch byte, text string, multi bool) {
	switch cs {
	case ASCII, UASCII:
		return code, "", false
	case EBS1231:
		s := ebs1231ToASCII[code&0x7F]
		if len(s) == 1 {
			return s[0], "", false
		}
		return 0, s, true
	case Hex:
		return 0, hexBytes[code], true
	default:
		return code, "", false
	}
}

// PrintWheelPosition returns the physical print-wheel index (4-190 in
// steps of 3) for an EBS1231 wheel-position code (octal 101-177), or
// 0 for codes outside that range.
func PrintWheelPosition(code uint8) uint8 {
	if code >= 0101 && code <= 0177 {
		return (code-0101)*3 + 4
	}
	return 0
}
