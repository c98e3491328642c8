/*
   Drum: the Litton 1600's rotating magnetic-drum memory model.

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

// Package drum models the 4096-word magnetic drum: a linear array
// indexed by 12-bit location, with reserved scratchpad sectors, the
// OPUS tracks 30-31 (Set does not block writes to them), and a
// used-word bit-mask that the image saver consults.
package drum

import "github.com/vacuumtube/litton1600/internal/word"

// DefaultSize is the drum size used when none is configured.
const DefaultSize = word.MaxDrumSize

// Drum is the linear array of up to 4096 40-bit words.
type Drum struct {
	words [word.MaxDrumSize]word.Word
	used  [word.MaxDrumSize]bool
	size  word.Loc
}

// New creates a drum sized to size words; sizes outside
// [1, MaxDrumSize] select MaxDrumSize.
func New(size int) *Drum {
	d := &Drum{}
	d.SetSize(size)
	return d
}

// SetSize changes the drum's logical size. Sizes outside
// [1, MaxDrumSize] clamp to MaxDrumSize.
func (d *Drum) SetSize(size int) {
	if size <= 0 || size > word.MaxDrumSize {
		size = word.MaxDrumSize
	}
	d.size = word.Loc(size)
}

// Size returns the drum's logical word count.
func (d *Drum) Size() word.Loc {
	return d.size
}

// Get returns the word at addr, masked to 40 bits.
func (d *Drum) Get(addr word.Loc) word.Word {
	return d.words[addr&0x0FFF] & word.Mask
}

// Set stores w (masked to 40 bits) at addr and marks addr as used.
func (d *Drum) Set(addr word.Loc, w word.Word) {
	d.words[addr&0x0FFF] = w & word.Mask
	d.used[addr&0x0FFF] = true
}

// SetRaw stores w without marking addr as used; used by the engine's
// internal register traffic (scratchpad, BIL) where "used" tracking
// is meaningless.
func (d *Drum) SetRaw(addr word.Loc, w word.Word) {
	d.words[addr&0x0FFF] = w & word.Mask
}

// IsUsed reports whether addr has ever been written via Set (i.e. was
// populated by a loader, as opposed to simply read as zero).
func (d *Drum) IsUsed(addr word.Loc) bool {
	return d.used[addr&0x0FFF]
}

// Clear zeroes every word and used bit, and resets the size to
// MaxDrumSize.
func (d *Drum) Clear() {
	for i := range d.words {
		d.words[i] = 0
		d.used[i] = false
	}
	d.size = word.MaxDrumSize
}

// Scratchpad returns the value of scratchpad register s (0..7), which
// aliases drum address s.
func (d *Drum) Scratchpad(s uint8) word.Word {
	return d.Get(word.Loc(s & 0x07))
}

// SetScratchpad sets scratchpad register s (0..7) to v.
func (d *Drum) SetScratchpad(s uint8, v word.Word) {
	d.SetRaw(word.Loc(s&0x07), v)
}
