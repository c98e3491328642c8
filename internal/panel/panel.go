/*
   Panel: the operator front-panel state machine.

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

// Package panel implements the operator front panel that the SDL
// rendering layer (out of scope here) would otherwise drive directly:
// the power/ready/run/halt lamps, the register-selector knob, and the
// press_button arbitration that decides which operations are legal in
// each mode. It wraps a *machine.Machine rather than embedding its
// lamp state inside it, so the instruction engine stays free of
// presentation concerns.
package panel

import (
	"github.com/vacuumtube/litton1600/internal/machine"
	"github.com/vacuumtube/litton1600/internal/opcodes"
	"github.com/vacuumtube/litton1600/internal/word"
)

// Button identifies one front-panel control.
type Button int

const (
	Power Button = iota
	Ready
	Run
	Halt
	KSet
	KReset
	Reset
	Bit0
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
	Knob
)

// Register identifies the knob position: Control Up/Down shows CR,
// otherwise one of the five-byte slices of I or A.
type Register int

const (
	ControlUp Register = iota
	ControlDown
	Inst0
	Inst8
	Inst16
	Inst24
	Inst32
	Accum0
	Accum8
	Accum16
	Accum24
	Accum32
)

func (r Register) isControl() bool {
	return r == ControlUp || r == ControlDown
}

// byteShift returns the bit shift for the byte slice this register
// names, and false for the control positions.
func (r Register) byteShift() (shift uint, isInst bool, ok bool) {
	switch r {
	case Inst0:
		return 0, true, true
	case Inst8:
		return 8, true, true
	case Inst16:
		return 16, true, true
	case Inst24:
		return 24, true, true
	case Inst32:
		return 32, true, true
	case Accum0:
		return 0, false, true
	case Accum8:
		return 8, false, true
	case Accum16:
		return 16, false, true
	case Accum24:
		return 24, false, true
	case Accum32:
		return 32, false, true
	}
	return 0, false, false
}

// Lamps is the bitmask of indicator lights, recomputed after every
// accepted button press.
type Lamps uint32

const (
	LampPower Lamps = 1 << iota
	LampReady
	LampRun
	LampHalt
	LampHaltCode
	LampK
	LampTrack
	LampInst
	LampAccum
)

const lampDisplayShift = 9 // display byte occupies the next 8 bits

const lampDisplayMask = Lamps(0xFF) << lampDisplayShift

// Display returns the 8-bit register display value carried in lamps.
func (l Lamps) Display() uint8 {
	return uint8((l & lampDisplayMask) >> lampDisplayShift)
}

func withDisplay(l Lamps, value uint8) Lamps {
	return (l &^ lampDisplayMask) | (Lamps(value) << lampDisplayShift)
}

// Panel is the front-panel state machine wrapping one machine.
type Panel struct {
	m *machine.Machine

	powered bool
	ready   bool
	running bool
	halted  bool

	haltCodeDisplay bool
	selected        Register

	lamps Lamps
}

// New creates a Panel over m, powered off.
func New(m *machine.Machine) *Panel {
	return &Panel{m: m, selected: ControlUp}
}

// Machine returns the wrapped machine.
func (p *Panel) Machine() *machine.Machine {
	return p.m
}

// Lamps returns the current lamp bitmask.
func (p *Panel) Lamps() Lamps {
	return p.lamps
}

// Selected returns the knob's current register position.
func (p *Panel) Selected() Register {
	return p.selected
}

// Press applies one button press (with bit N's index for Bit0..Bit7,
// and the requested knob position when button is Knob), and returns
// whether the press was accepted.
func (p *Panel) Press(button Button, knobTarget Register) bool {
	if !p.powered {
		if button == Power {
			p.powerOn()
			p.recompute()
			return true
		}
		p.selected = ControlUp
		return false
	}

	// Cleared on every press attempt, accepted or not: a rejected press
	// still tells the operator the halt-code readout is stale.
	p.haltCodeDisplay = false

	switch button {
	case Power:
		p.powerOff()
		p.recompute()
		return true

	case Ready:
		if !p.ready {
			p.ready = true
			p.reset()
		} else if !p.running {
			// READY on an already-ready, halted machine resets it again.
			p.reset()
		} else {
			p.recompute()
			return false
		}
		p.recompute()
		return true

	case Run:
		if !p.ready {
			return false
		}
		if p.running {
			p.recompute()
			return true
		}
		if p.m.CR&^0x07 == opcodes.HH {
			p.m.CR = opcodes.NN // so the machine doesn't immediately re-halt on RUN
		}
		p.running = true
		p.halted = false
		// The knob cannot sit on a register slice while running.
		if p.selected != ControlDown {
			p.selected = ControlUp
		}
		p.recompute()
		return true

	case Halt:
		if !p.selected.isControl() {
			return false
		}
		if !p.ready {
			return false
		}
		if p.running {
			p.running = false
			p.halted = true
			p.m.Devices.ClearInputBuffers()
			p.recompute()
			return true
		}
		if p.halted {
			result := p.m.Step()
			if result == machine.StepHalt {
				p.haltCodeDisplay = true
				p.m.Devices.ClearInputBuffers()
			}
			p.recompute()
			return true
		}
		return false

	case KSet:
		if !p.requireHaltedReady() {
			return false
		}
		p.m.K = 1
		p.recompute()
		return true

	case KReset:
		if !p.requireHaltedReady() {
			return false
		}
		p.m.K = 0
		p.recompute()
		return true

	case Reset:
		if !p.requireHaltedReady() {
			return false
		}
		p.modify(func(v uint8) uint8 { return 0 }, true)
		p.recompute()
		return true

	case Bit0, Bit1, Bit2, Bit3, Bit4, Bit5, Bit6, Bit7:
		if !p.requireHaltedReady() {
			return false
		}
		bit := uint8(button - Bit0)
		p.modify(func(v uint8) uint8 { return v | (1 << bit) }, false)
		p.recompute()
		return true

	case Knob:
		if !p.halted || !p.ready {
			return false
		}
		p.selected = knobTarget
		p.recompute()
		return true
	}

	return false
}

func (p *Panel) requireHaltedReady() bool {
	return p.halted && p.ready
}

func (p *Panel) powerOn() {
	p.powered = true
	p.ready = false
	p.running = false
	p.halted = true
	p.selected = ControlUp
	p.reset()
}

func (p *Panel) powerOff() {
	p.powered = false
	p.ready = false
	p.running = false
	p.halted = false
	p.selected = ControlUp
}

func (p *Panel) reset() {
	p.m.Reset()
	p.m.Devices.ClearInputBuffers()
	p.halted = true
	p.running = false
}

// modify applies fn to the selected 8-bit slice (CR, or a byte of I or
// A); forceAll, when set (RESET), writes the same value to every bit
// rather than OR-ing one bit in. Since fn already returns the complete
// new value, forceAll only matters for documentation; both paths set
// the slice to fn's result.
func (p *Panel) modify(fn func(uint8) uint8, forceAll bool) {
	if p.selected.isControl() {
		p.m.CR = fn(p.m.CR)
		return
	}
	shift, isInst, ok := p.selected.byteShift()
	if !ok {
		return
	}
	mask := word.Word(0xFF) << shift
	if isInst {
		cur := uint8(p.m.I >> shift)
		p.m.I = (p.m.I &^ mask) | (word.Word(fn(cur)) << shift)
	} else {
		cur := uint8(p.m.A >> shift)
		p.m.A = (p.m.A &^ mask) | (word.Word(fn(cur)) << shift)
	}
}

func (p *Panel) recompute() {
	if !p.powered {
		p.lamps = 0
		return
	}
	l := LampPower
	if p.ready {
		l |= LampReady
	}
	if p.running {
		l |= LampRun
	}
	if p.halted {
		l |= LampHalt
	}
	if p.m.K != 0 {
		l |= LampK
	}
	if p.m.LastAddress&0x80 != 0 {
		l |= LampTrack
	}

	var display uint8
	switch {
	case p.haltCodeDisplay:
		l |= LampHaltCode
		display = p.m.HaltCode
	case p.running:
		display = p.m.CR
	case p.selected.isControl():
		display = p.m.CR
	default:
		shift, isInst, ok := p.selected.byteShift()
		if ok {
			if isInst {
				l |= LampInst
				display = uint8(p.m.I >> shift)
			} else {
				l |= LampAccum
				display = uint8(p.m.A >> shift)
			}
		}
	}

	p.lamps = withDisplay(l, display)
}
