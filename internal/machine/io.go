/*
   IO: serial I/O instructions and their device-fabric wiring.

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

// performIO dispatches the eleven fixed I/O opcodes and the three
// immediate-operand select/output opcodes (OI, IST, IS).
func (m *Machine) performIO(insn uint16) (StepResult, int) {
	switch insn {
	case opcodes.SI:
		// The manual implies parity errors are possible here, but
		// gives no way to specify which parity is expected; no
		// parity check is performed.
		if v, ok := m.Devices.Input(word.ParityNone); ok {
			m.A = (m.A << 8) | word.Word(v)
			m.B = uint8(m.A >> word.Bits)
			m.A &= word.Mask
			m.K = 1
			return StepOK, 1
		}
		m.K = 0
		return StepOK, ioBusyCost

	case opcodes.RS:
		if v, ok := m.Devices.Status(); ok {
			m.A = (m.A << 8) | word.Word(v)
			m.B = uint8(m.A >> word.Bits)
			m.A &= word.Mask
			m.K = 1
			return StepOK, 1
		}
		m.K = 0
		return StepOK, ioBusyCost

	case opcodes.CIO:
		return m.clearInputCheck(word.ParityOdd, false)

	case opcodes.CIE:
		return m.clearInputCheck(word.ParityEven, false)

	case opcodes.CIOP:
		return m.clearInputCheck(word.ParityOdd, true)

	case opcodes.CIEP:
		return m.clearInputCheck(word.ParityEven, true)

	case opcodes.OAO:
		return m.outputAccumulator(word.ParityOdd)

	case opcodes.OAE:
		return m.outputAccumulator(word.ParityEven)

	case opcodes.OA:
		return m.outputAccumulator(word.ParityNone)

	case opcodes.AST:
		if m.Devices.IsOutputBusy() {
			m.K = 0
			return StepOK, ioBusyCost
		}
		m.B = uint8(m.A >> 32)
		m.Devices.Select(m.B)
		m.A = (m.A << 8) & word.Mask
		m.K = 1
		return StepOK, 1

	case opcodes.AS:
		m.B = uint8(m.A >> 32)
		m.Devices.Select(m.B)
		m.A = (m.A << 8) & word.Mask
		m.K = 1
		return StepOK, 1
	}

	switch insn & 0xFF00 {
	case opcodes.OI:
		if m.Devices.IsOutputBusy() {
			m.K = 0
			return StepOK, ioBusyCost
		}
		m.B = uint8(insn & 0xFF)
		m.Devices.Output(m.B, word.ParityNone)
		m.K = 1
		return StepOK, m.outputCost()

	case opcodes.IST:
		if m.Devices.IsOutputBusy() {
			m.K = 0
			return StepOK, ioBusyCost
		}
		m.B = uint8(insn & 0xFF)
		m.Devices.Select(m.B)
		m.K = 1
		return StepOK, 1

	case opcodes.IS:
		m.B = uint8(insn & 0xFF)
		m.Devices.Select(m.B)
		m.K = 1
		return StepOK, 1
	}

	return StepIllegal, 1
}

func (m *Machine) clearInputCheck(parity word.Parity, intoA bool) (StepResult, int) {
	v, ok := m.Devices.Input(parity)
	if !ok {
		m.K = 0
		return StepOK, ioBusyCost
	}
	if !word.CheckParity(v, parity) {
		m.P = 1
	}
	m.A = word.Word(word.RemoveParity(v, parity))
	if intoA && m.P != 0 {
		m.A |= word.MSB
	}
	m.B = 0
	m.K = 1
	return StepOK, 1
}

// outputAccumulator implements OAO/OAE/OA: emit the top byte of A
// (with the requested parity synthesis), then shift A left eight bits
// within its 40-bit width so the low byte becomes zero.
func (m *Machine) outputAccumulator(parity word.Parity) (StepResult, int) {
	if m.Devices.IsOutputBusy() {
		m.K = 0
		return StepOK, ioBusyCost
	}
	top := uint8(m.A >> 32)
	if parity != word.ParityNone {
		top = word.AddParity(top, parity)
	}
	m.B = top
	m.Devices.Output(m.B, parity)
	m.A = (m.A << 8) & word.Mask
	m.K = 1
	return StepOK, m.outputCost()
}
