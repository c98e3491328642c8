/*
   Machine: the Litton 1600 instruction engine.

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

// Package machine implements the Litton 1600's instruction engine: the
// register file, the two-tier opcode dispatch on CR/I, the drum-timing
// model, and the glue between I/O instructions and the device fabric.
// A Machine is not safe for concurrent use; callers that share one
// across goroutines (a run loop and a UI thread) must guard it with
// their own mutex, as the runloop package's Loop does.
package machine

import (
	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/device"
	"github.com/vacuumtube/litton1600/internal/disasm"
	"github.com/vacuumtube/litton1600/internal/drum"
	"github.com/vacuumtube/litton1600/internal/opcodes"
	"github.com/vacuumtube/litton1600/internal/word"
)

// StepResult reports the outcome of executing a single instruction.
type StepResult int

const (
	StepOK StepResult = iota
	StepHalt
	StepIllegal
	StepSpinning
)

func (r StepResult) String() string {
	switch r {
	case StepOK:
		return "ok"
	case StepHalt:
		return "halt"
	case StepIllegal:
		return "illegal"
	case StepSpinning:
		return "spinning"
	default:
		return "unknown"
	}
}

// Machine holds the complete state of one Litton 1600: registers,
// drum, block-interchange loop, device fabric, and the bookkeeping
// the rotation/timing model needs.
type Machine struct {
	CR uint8
	B  uint8
	K  uint8 // 0 or 1
	P  uint8 // 0 or 1
	I  word.Word
	A  word.Word

	Drum *drum.Drum
	BIL  [word.ReservedSectors]word.Word

	HaltCode    uint8
	PC          word.Loc
	EntryPoint  word.Loc
	LastAddress word.Loc

	Devices *device.Fabric

	CycleCounter        uint64
	LastIOCounter       uint64
	RotationPredictor   uint32
	SpinCounter         uint32
	AccelerationCounter uint32

	PrinterID       uint8
	PrinterCharset  charset.Charset
	KeyboardID      uint8
	KeyboardCharset charset.Charset

	// Trace, when non-nil, receives one line per executed instruction
	// (the verbose disassembly the run loop's -v flag asks for).
	Trace func(line string)
}

// New creates a Machine with a drum of the given size (sizes outside
// [1, MaxDrumSize] select MaxDrumSize) and the default
// printer/keyboard bindings.
func New(drumSize int) *Machine {
	m := &Machine{
		Drum:            drum.New(drumSize),
		Devices:         device.NewFabric(),
		PrinterID:       device.PrinterID,
		PrinterCharset:  charset.EBS1231,
		KeyboardID:      device.KeyboardID,
		KeyboardCharset: charset.EBS1231,
	}
	m.EntryPoint = m.Drum.Size() - 1
	m.Reset()
	return m
}

// SetEntryPoint records the reset jump target, clamped to the last
// valid drum address.
func (m *Machine) SetEntryPoint(entry word.Loc) {
	if entry >= m.Drum.Size() {
		entry = m.Drum.Size() - 1
	}
	m.EntryPoint = entry
}

// Reset loads CR:I with the bit pattern for a conditional jump to
// EntryPoint (operand byte low(EntryPoint), remainder of I set to all
// ones), sets A to all ones and K to 1, and fakes PC as though the
// reset jump itself originated from the last drum address. The first
// step after Reset therefore executes that conditional jump: since K
// is 1 the jump is taken, loading drum[EntryPoint] into I and
// beginning ordinary execution.
func (m *Machine) Reset() {
	entry := m.EntryPoint
	m.CR = 0xF0 | uint8(entry>>8)
	m.I = word.Word(uint8(entry)) << 32
	m.I |= 0xFFFFFFFF
	m.LastAddress = entry
	m.PC = m.Drum.Size() - 1
	m.A = word.Mask
	m.K = 1
	m.SpinCounter = 0
}

// IsUsed reports whether addr has been written through Drum.Set since
// the drum was created or last cleared.
func (m *Machine) IsUsed(addr word.Loc) bool {
	return m.Drum.IsUsed(addr)
}

// scratchpad returns scratchpad register s (0..7), aliasing drum
// address s.
func (m *Machine) scratchpad(s uint8) word.Word {
	return m.Drum.Scratchpad(s)
}

func (m *Machine) setScratchpad(s uint8, v word.Word) {
	m.Drum.SetScratchpad(s, v)
}

// Step executes exactly one instruction: fetch (decode CR/I),
// execute, account for elapsed drum-rotation time, and rotate CR/I to
// expose the next instruction. It never blocks; I/O that cannot
// complete immediately reports K=0 and the step still returns StepOK.
func (m *Machine) Step() StepResult {
	if m.SpinCounter > uint32(word.MaxDrumSize) {
		return StepSpinning
	}
	m.SpinCounter++

	result := StepOK
	var wordTimes int

	if m.CR < 0x40 {
		if m.Trace != nil {
			m.Trace(disasm.Instruction(uint16(m.PC), uint16(m.CR)))
		}
		result, wordTimes = m.stepSingleByte()
		m.rotate(8)
	} else {
		insn := uint16(m.CR)<<8 | uint16(m.I>>32)
		if m.Trace != nil {
			m.Trace(disasm.Instruction(uint16(m.PC), insn))
		}
		result, wordTimes = m.stepTwoByte(insn)
		m.rotate(16)
	}

	m.accumulateTime(wordTimes)
	return result
}

// rotate shifts I left by n bits, folding the vacated high bits of I
// into CR, matching the original's two-step 8-bit rotation repeated
// for 16-bit instructions.
func (m *Machine) rotate(n int) {
	for n > 0 {
		m.I = (m.I << 8) | word.Word(m.CR)
		m.CR = uint8(m.I >> word.Bits)
		m.I &= word.Mask
		n -= 8
	}
}

func (m *Machine) stepSingleByte() (StepResult, int) {
	switch m.CR &^ 0x07 {
	case opcodes.HH:
		m.HaltCode = m.CR & 0x07
		return StepHalt, 1

	case opcodes.LA:
		m.A &= m.scratchpad(m.CR & 0x07)
		m.K = boolBit(m.A == 0)
		return StepOK, m.costMemory(word.Loc(m.CR & 0x07))

	case opcodes.XC:
		s := m.CR & 0x07
		old := m.scratchpad(s)
		m.setScratchpad(s, m.A)
		m.A = old
		return StepOK, m.costMemory(word.Loc(s))

	case opcodes.XT:
		s := m.CR & 0x07
		old := m.scratchpad(s)
		m.setScratchpad(s, old&^m.A)
		m.A &= old
		return StepOK, m.costMemory(word.Loc(s))

	case opcodes.TE:
		s := m.CR & 0x07
		m.K = boolBit(m.A == m.scratchpad(s))
		return StepOK, m.costMemory(word.Loc(s))

	case opcodes.TG:
		s := m.CR & 0x07
		m.K = boolBit(m.A >= m.scratchpad(s))
		return StepOK, m.costMemory(word.Loc(s))
	}

	switch m.CR {
	case opcodes.AK:
		m.A += word.Word(m.K)
		if m.A >= word.Mask {
			m.A = 0
			m.K = 1
		} else {
			m.K = 0
		}
		return StepOK, 1

	case opcodes.CL:
		m.A = 0
		return StepOK, 1

	case opcodes.NN:
		return StepOK, 1

	case opcodes.CM:
		var nonZero bool
		m.A, nonZero = word.Negate(m.A)
		m.K = boolBit(nonZero)
		return StepOK, 1

	case opcodes.JA:
		m.I = m.A
		return StepOK, 1

	case opcodes.BI:
		for addr := uint8(0); addr < word.ReservedSectors; addr++ {
			old := m.scratchpad(addr)
			m.Drum.SetRaw(word.Loc(addr), m.BIL[addr])
			m.BIL[addr] = old
		}
		// Ready bit: always 1, since no external block-interchange
		// device is emulated.
		m.K = 1
		return StepOK, 8

	case opcodes.SK:
		m.K = 1
		return StepOK, 1

	case opcodes.TZ:
		m.K = boolBit(m.A == 0)
		return StepOK, 1

	case opcodes.TH:
		m.K = boolBit(m.A&word.MSB != 0)
		return StepOK, 1

	case opcodes.RK:
		m.K = 0
		return StepOK, 1

	case opcodes.TP:
		m.K = m.P
		m.P = 0
		return StepOK, 1
	}

	return StepIllegal, 1
}

func (m *Machine) stepTwoByte(insn uint16) (StepResult, int) {
	addr := word.Loc(insn & 0x0FFF)

	switch m.CR & 0xF0 {
	case 0x40:
		return m.binaryShift(insn)

	case 0x50, 0x70:
		return m.performIO(insn)

	case 0x60:
		return m.decimalShift(insn)

	case 0x80: // CA
		m.A = m.Drum.Get(addr)
		m.LastAddress = addr
		return StepOK, m.costMemory(addr)

	case 0x90: // AD
		m.A += m.Drum.Get(addr)
		m.K = boolBit(m.A >= word.Mask)
		m.A &= word.Mask
		m.LastAddress = addr
		return StepOK, m.costMemory(addr)

	case 0xB0: // ST
		m.Drum.Set(addr, m.A)
		m.LastAddress = addr
		return StepOK, m.costMemory(addr)

	case 0xC0: // JM
		m.CR = 0xE0 | (m.CR & 0x0F)
		m.A = m.I & word.Mask
		m.I = m.Drum.Get(addr)
		m.PC = addr
		m.LastAddress = addr
		m.SpinCounter = 0
		return StepOK, m.costMemory(addr)

	case 0xD0: // AC
		if m.K != 0 {
			m.A += m.Drum.Get(addr)
			m.K = boolBit(m.A >= word.Mask)
			m.A &= word.Mask
			m.LastAddress = addr
			return StepOK, m.costMemory(addr)
		}
		return StepOK, 1

	case 0xE0: // JU
		m.I = m.Drum.Get(addr)
		m.PC = addr
		m.LastAddress = addr
		m.SpinCounter = 0
		return StepOK, m.costMemory(addr)

	case 0xF0: // JC
		if m.K != 0 {
			m.I = m.Drum.Get(addr)
			m.PC = addr
			m.LastAddress = addr
			m.SpinCounter = 0
			m.CR = 0xE0 | (m.CR & 0x0F)
			return StepOK, m.costMemory(addr)
		}
		return StepOK, 1
	}

	return StepIllegal, 1
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
