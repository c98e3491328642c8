/*
   Shifts: binary and decimal shift instructions.

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

import (
	"github.com/vacuumtube/litton1600/internal/opcodes"
	"github.com/vacuumtube/litton1600/internal/word"
)

// availableScratchpad picks the scratchpad register used by the
// "on scratchpad" shift variants. Which register the hardware
// actually picks is not documented anywhere reachable; register 0 is
// used unconditionally, matching the one known implementation of
// this engine.
func (m *Machine) availableScratchpad() uint8 {
	return 0
}

func singleLeftShift(a word.Word, k word.Word, n int) (word.Word, word.Word) {
	for n > 0 {
		a = (a << 1) | k
		k = a >> word.Bits
		a &= word.Mask
		n--
	}
	return a, k
}

func doubleLeftShift(hi, lo word.Word, k word.Word, n int) (word.Word, word.Word, word.Word) {
	for n > 0 {
		lo = (lo << 1) | k
		k = lo >> word.Bits
		lo &= word.Mask
		hi = (hi << 1) | k
		k = hi >> word.Bits
		hi &= word.Mask
		n--
	}
	return hi, lo, k
}

func singleRightShift(a word.Word, k word.Word, n int) (word.Word, word.Word) {
	for n > 0 {
		next := a & 1
		a = (a >> 1) | (k << (word.Bits - 1))
		k = next
		n--
	}
	return a, k
}

func doubleRightShift(hi, lo word.Word, k word.Word, n int) (word.Word, word.Word, word.Word) {
	for n > 0 {
		next := hi & 1
		hi = (hi >> 1) | (k << (word.Bits - 1))
		k = next
		next = lo & 1
		lo = (lo >> 1) | (k << (word.Bits - 1))
		k = next
		n--
	}
	return hi, lo, k
}

// binaryShift dispatches the eight binary shift mnemonics on A, on
// S0/S1, and the scratchpad-only single-step variants.
func (m *Machine) binaryShift(insn uint16) (StepResult, int) {
	s := m.availableScratchpad()
	var k word.Word
	if insn&0x0080 != 0 {
		k = word.Word(m.K)
	}
	n := int(insn&0x7F) + 1

	switch insn &^ 0x0080 &^ 0x007F {
	case opcodes.BLS:
		var carry word.Word
		m.A, carry = singleLeftShift(m.A, k, n)
		m.K = uint8(carry)
		return StepOK, shiftCostSingle(n - 1)

	case opcodes.BLSS:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		a := m.scratchpad(s)
		var carry word.Word
		a, carry = singleLeftShift(a, k, 1)
		m.setScratchpad(s, a)
		m.K = uint8(carry)
		return StepOK, m.shiftCostScratchpad(s, insn&0x0080 != 0)

	case opcodes.BLD:
		hi, lo := m.scratchpad(0), m.scratchpad(1)
		var carry word.Word
		hi, lo, carry = doubleLeftShift(hi, lo, k, n)
		m.setScratchpad(0, hi)
		m.setScratchpad(1, lo)
		m.K = uint8(carry)
		return StepOK, shiftCostDouble(n - 1)

	case opcodes.BLDS:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		next := (s + 1) & 0x07
		hi, lo := m.scratchpad(s), m.scratchpad(next)
		var carry word.Word
		hi, lo, carry = doubleLeftShift(hi, lo, k, 1)
		m.setScratchpad(s, hi)
		m.setScratchpad(next, lo)
		m.K = uint8(carry)
		return StepOK, m.shiftCostScratchpad(s, insn&0x0080 != 0)

	case opcodes.BRS:
		var carry word.Word
		m.A, carry = singleRightShift(m.A, k, n)
		m.K = uint8(carry)
		return StepOK, shiftCostSingle(n - 1)

	case opcodes.BRSS:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		a := m.scratchpad(s)
		var carry word.Word
		a, carry = singleRightShift(a, k, 1)
		m.setScratchpad(s, a)
		m.K = uint8(carry)
		return StepOK, m.shiftCostScratchpad(s, insn&0x0080 != 0)

	case opcodes.BRD:
		hi, lo := m.scratchpad(0), m.scratchpad(1)
		var carry word.Word
		hi, lo, carry = doubleRightShift(hi, lo, k, n)
		m.setScratchpad(0, hi)
		m.setScratchpad(1, lo)
		m.K = uint8(carry)
		return StepOK, shiftCostDouble(n - 1)

	case opcodes.BRDS:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		next := (s + 1) & 0x07
		hi, lo := m.scratchpad(s), m.scratchpad(next)
		var carry word.Word
		hi, lo, carry = doubleRightShift(hi, lo, k, 1)
		m.setScratchpad(s, hi)
		m.setScratchpad(next, lo)
		m.K = uint8(carry)
		return StepOK, m.shiftCostScratchpad(s, insn&0x0080 != 0)
	}

	return StepIllegal, 1
}

func singleDecimalLeftShift(a word.Word, k word.Word, n int) word.Word {
	for n > 0 {
		a = (a*10 + k) & word.Mask
		k = 0
		n--
	}
	return a
}

func singleDecimalRightShift(a word.Word, n int) word.Word {
	for n > 0 {
		a /= 10
		n--
	}
	return a
}

func doubleTimes2(hi, lo word.Word) (word.Word, word.Word) {
	hi <<= 1
	lo <<= 1
	hi += lo >> word.Bits
	return hi & word.Mask, lo & word.Mask
}

func doubleMul10(hi, lo word.Word) (word.Word, word.Word) {
	hi, lo = doubleTimes2(hi, lo)
	tHi, tLo := hi, lo
	hi, lo = doubleTimes2(hi, lo)
	hi, lo = doubleTimes2(hi, lo)
	hi += tHi
	lo += tLo
	hi += lo >> word.Bits
	return hi & word.Mask, lo & word.Mask
}

func doubleDecimalLeftShift(hi, lo word.Word, k word.Word, n int) (word.Word, word.Word) {
	for n > 0 {
		hi, lo = doubleMul10(hi, lo)
		lo += k
		k = 0
		n--
	}
	return hi, lo
}

// doubleDiv10 divides the 80-bit magnitude (hi:lo) by 10 using
// bit-by-bit long division with a running 4-bit remainder, since
// shift-and-add (the technique used for the ×10 direction) has no
// direct division analogue.
func doubleDiv10(hi, lo word.Word) (word.Word, word.Word) {
	var qHi, qLo word.Word
	var remainder word.Word
	for bit := word.Bits - 1; bit >= 0; bit-- {
		remainder = (remainder << 1) | ((hi >> uint(bit)) & 1)
		var q word.Word
		if remainder >= 10 {
			remainder -= 10
			q = 1
		}
		qHi = (qHi << 1) | q
	}
	qHi &= word.Mask
	for bit := word.Bits - 1; bit >= 0; bit-- {
		remainder = (remainder << 1) | ((lo >> uint(bit)) & 1)
		var q word.Word
		if remainder >= 10 {
			remainder -= 10
			q = 1
		}
		qLo = (qLo << 1) | q
	}
	qLo &= word.Mask
	return qHi, qLo
}

func doubleDecimalRightShift(hi, lo word.Word, n int) (word.Word, word.Word) {
	for n > 0 {
		hi, lo = doubleDiv10(hi, lo)
		n--
	}
	return hi, lo
}

// decimalShift dispatches the decimal shift family: ×10 (with or
// without an added constant of 1) and ÷10, single and double word,
// plus their scratchpad-only variants.
func (m *Machine) decimalShift(insn uint16) (StepResult, int) {
	s := m.availableScratchpad()
	n := int(insn&0x7F) + 1

	switch insn &^ 0x007F {
	case opcodes.DLS:
		m.A = singleDecimalLeftShift(m.A, 0, n)
		m.K = 0
		return StepOK, shiftCostSingle(n - 1)

	case opcodes.DLSC:
		m.A = singleDecimalLeftShift(m.A, 1, n)
		m.K = 0
		return StepOK, shiftCostSingle(n - 1)

	case opcodes.DLSS:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		m.setScratchpad(s, singleDecimalLeftShift(m.scratchpad(s), 0, 1))
		m.K = 0
		return StepOK, m.shiftCostScratchpad(s, false)

	case opcodes.DLSSC:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		m.setScratchpad(s, singleDecimalLeftShift(m.scratchpad(s), 1, 1))
		m.K = 0
		return StepOK, m.shiftCostScratchpad(s, true)

	case opcodes.DLD:
		hi, lo := doubleDecimalLeftShift(m.scratchpad(0), m.scratchpad(1), 0, n)
		m.setScratchpad(0, hi)
		m.setScratchpad(1, lo)
		m.K = 0
		return StepOK, shiftCostDouble(n - 1)

	case opcodes.DLDC:
		hi, lo := doubleDecimalLeftShift(m.scratchpad(0), m.scratchpad(1), 1, n)
		m.setScratchpad(0, hi)
		m.setScratchpad(1, lo)
		m.K = 0
		return StepOK, shiftCostDouble(n - 1)

	case opcodes.DLDS:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		next := (s + 1) & 0x07
		hi, lo := doubleDecimalLeftShift(m.scratchpad(s), m.scratchpad(next), 0, 1)
		m.setScratchpad(s, hi)
		m.setScratchpad(next, lo)
		m.K = 0
		return StepOK, m.shiftCostScratchpad(s, false)

	case opcodes.DLDSC:
		if insn&0x7F != 0 {
			return StepIllegal, 1
		}
		next := (s + 1) & 0x07
		hi, lo := doubleDecimalLeftShift(m.scratchpad(s), m.scratchpad(next), 1, 1)
		m.setScratchpad(s, hi)
		m.setScratchpad(next, lo)
		m.K = 0
		return StepOK, m.shiftCostScratchpad(s, true)

	case opcodes.DRS:
		m.A = singleDecimalRightShift(m.A, n)
		m.K = 0
		return StepOK, shiftCostSingle(n - 1)

	case opcodes.DRD:
		hi, lo := doubleDecimalRightShift(m.scratchpad(0), m.scratchpad(1), n)
		m.setScratchpad(0, hi)
		m.setScratchpad(1, lo)
		m.K = 0
		return StepOK, shiftCostDouble(n - 1)
	}

	return StepIllegal, 1
}
