/*
   Timing: the drum rotation/timing model.

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

package machine

import "github.com/vacuumtube/litton1600/internal/word"

// cyclesPerWordTime is 40 bit times at approximately 1 microsecond
// per bit.
const cyclesPerWordTime = 40

// baudWordTimes is the serialization cost of one output byte at 300
// baud: roughly 833 word times.
const baudWordTimes = 833

// accumulateTime folds n elapsed word times into the rotation
// predictor and the cycle counter. It is the only place either is
// mutated, so every instruction path reports its cost through its
// return value rather than touching these fields directly.
func (m *Machine) accumulateTime(n int) {
	if n < 0 {
		n = 0
	}
	m.RotationPredictor = (m.RotationPredictor + uint32(n)) % word.NumSectors
	m.CycleCounter += uint64(n) * cyclesPerWordTime
}

// costMemory returns the word-time cost of touching addr: the seek
// latency to bring that sector under the head, plus one word time for
// the read or write itself.
//
// Scratchpad addresses (the reserved sectors 0..7) recirculate on
// their own 8-sector cycle rather than the full 128-sector drum;
// costMemory projects forward to the next occurrence of the
// requested index within that cycle instead of using the full-track
// seek formula.
func (m *Machine) costMemory(addr word.Loc) int {
	if addr.IsScratchpad() {
		idx := uint32(addr.Sector())
		offset := m.RotationPredictor % word.ReservedSectors
		var wait uint32
		if offset <= idx {
			wait = idx - offset
		} else {
			wait = word.ReservedSectors - offset + idx
		}
		return int(wait) + 1
	}
	target := uint32(addr.Sector())
	wait := (target + word.NumSectors - m.RotationPredictor%word.NumSectors) % word.NumSectors
	return int(wait) + 1
}

// outputCost returns the word-time cost of emitting one output byte,
// honoring the 300-baud serialization model: if the device's last
// emission hasn't finished draining yet, the shortfall (rounded up to
// whole word times) is charged as wait time; otherwise the minimum
// one word time applies. It also sets LastIOCounter to the cycle at
// which this instruction ends, from which the next emission's
// drain window is measured.
func (m *Machine) outputCost() int {
	readyAtCycle := m.LastIOCounter + uint64(baudWordTimes)*cyclesPerWordTime
	var cost int
	if readyAtCycle > m.CycleCounter {
		shortfall := readyAtCycle - m.CycleCounter
		cost = int((shortfall + cyclesPerWordTime - 1) / cyclesPerWordTime)
	} else {
		cost = 1
	}
	m.LastIOCounter = m.CycleCounter + uint64(cost)*cyclesPerWordTime
	return cost
}

// ioBusyCost is the short busy cost an I/O instruction pays when it
// cannot complete immediately, so the program's retry loop still
// advances real time.
const ioBusyCost = 3

// shiftCostSingle is the word-time cost of a single-word shift of N
// positions on the accumulator.
func shiftCostSingle(n int) int {
	return n + 3
}

// shiftCostDouble is the word-time cost of a double-word shift of N
// positions on the S0/S1 pair.
func shiftCostDouble(n int) int {
	return (n+1)*8 - 3
}

// shiftCostScratchpad is the word-time cost of a scratchpad-only
// single-step shift: a small fixed overhead (4 word times without
// carry-in, 5 with, since folding K in costs one extra cycle of
// setup) plus the memory timing to reach the scratchpad register
// itself.
func (m *Machine) shiftCostScratchpad(s uint8, withCarry bool) int {
	base := 4
	if withCarry {
		base = 5
	}
	return base + m.costMemory(word.Loc(s))
}
