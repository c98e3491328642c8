/*
   Word: 40-bit word, 12-bit drum location, and parity primitives for
   the Litton 1600.

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

// Package word holds the bit-level primitives shared by every other
// package in the emulator: the 40-bit Word type, 12-bit drum
// addresses split into track/sector, and the odd/even/none parity
// helpers used by the serial I/O instructions.
package word

// Word is a 40-bit magnitude packed into the low bits of a uint64.
type Word uint64

const (
	// Bits is the number of significant bits in a Word.
	Bits = 40

	// Mask clears every bit above bit 39.
	Mask Word = 0x000000FFFFFFFFFF

	// MSB is the sign/top bit of a 40-bit word.
	MSB Word = 0x0000008000000000
)

// Negate returns (2^40 - w) mod 2^40, and whether K should be set to
// 1 prior to the negation (i.e. whether w was non-zero).
func Negate(w Word) (result Word, kBeforeNegate bool) {
	kBeforeNegate = w != 0
	return (-w) & Mask, kBeforeNegate
}

// Drum address layout: 5-bit track (high), 7-bit sector (low).
const (
	NumTracks       = 32
	NumSectors      = 128
	MaxDrumSize     = NumTracks * NumSectors // 4096
	SealedTrack1    = 30
	SealedTrack2    = 31
	ReservedSectors = 8 // scratchpad loop size, also BIL size
)

// Loc is a 12-bit drum location: track (high 5 bits) and sector (low
// 7 bits).
type Loc uint16

// NewLoc packs a track and sector into a Loc.
func NewLoc(track, sector uint8) Loc {
	return Loc((uint16(track)&0x1F)<<7 | uint16(sector)&0x7F)
}

// Track returns the 5-bit track number of a location.
func (l Loc) Track() uint8 {
	return uint8((l >> 7) & 0x1F)
}

// Sector returns the 7-bit sector number of a location.
func (l Loc) Sector() uint8 {
	return uint8(l & 0x7F)
}

// IsScratchpad reports whether a location aliases the scratchpad loop
// (drum addresses 0..7).
func (l Loc) IsScratchpad() bool {
	return l < ReservedSectors
}

// IsSealed reports whether a location lies on one of the read-only
// OPUS tracks (30 or 31).
func (l Loc) IsSealed() bool {
	t := l.Track()
	return t == SealedTrack1 || t == SealedTrack2
}

// Parity identifies the kind of parity check or synthesis an I/O
// instruction requests.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func popcount7(v uint8) int {
	count := 0
	for bit := 0; bit < 7; bit++ {
		if v&(1<<uint(bit)) != 0 {
			count++
		}
	}
	return count
}

// AddParity sets or clears bit 7 of value so that the byte carries
// the requested parity over its low 7 bits.
//
// The reference manual's wording implies the parity bit is the least
// significant bit, but the historical implementation uses the most
// significant bit for ease of integration with RS232-style framing.
// This emulator preserves that choice rather than the literal manual
// reading.
func AddParity(value uint8, parity Parity) uint8 {
	switch parity {
	case ParityOdd:
		if popcount7(value)&1 == 0 {
			return value | 0x80
		}
		return value & 0x7F
	case ParityEven:
		if popcount7(value)&1 != 0 {
			return value | 0x80
		}
		return value & 0x7F
	default:
		return value
	}
}

// RemoveParity strips the parity bit, leaving the 7-bit payload
// (unless parity is ParityNone, in which case value passes through).
func RemoveParity(value uint8, parity Parity) uint8 {
	if parity == ParityNone {
		return value
	}
	return value & 0x7F
}

// CheckParity reports whether value carries correct parity over its
// low 7 bits for the requested parity kind.
func CheckParity(value uint8, parity Parity) bool {
	return AddParity(value&0x7F, parity) == value
}
