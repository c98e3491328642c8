/*
   Disasm: one-line trace disassembly of Litton 1600 instructions.

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

// Package disasm renders a single instruction as the trace line
// emitted by the run loop's -v flag: address, raw opcode bytes,
// mnemonic, and operand.
package disasm

import (
	"fmt"

	"github.com/vacuumtube/litton1600/internal/opcodes"
)

// Instruction formats one instruction the way the original's trace
// printer does: a 3-digit address, the raw opcode field (2 hex digits
// for an 8-bit instruction, 4 for a 16-bit one), the mnemonic, and any
// operand. Unknown opcodes print with a blank mnemonic rather than
// failing, since a trace must never abort a run.
func Instruction(addr uint16, insn uint16) string {
	info := opcodes.ByNumber(insn)
	var raw string
	if insn < 0x0100 {
		raw = fmt.Sprintf("%02X  ", insn)
	} else {
		raw = fmt.Sprintf("%04X", insn)
	}
	if info == nil {
		return fmt.Sprintf("%03X: %s", addr, raw)
	}
	operand := insn & info.OperandMask
	var operandStr string
	switch info.OperandType {
	case opcodes.OperandNone:
		operandStr = ""
	case opcodes.OperandMemory:
		operandStr = fmt.Sprintf("$%03X", operand)
	case opcodes.OperandScratchpad, opcodes.OperandHalt:
		operandStr = fmt.Sprintf("%d", operand)
	case opcodes.OperandShift:
		operandStr = fmt.Sprintf("%d", operand+1)
	case opcodes.OperandDevice, opcodes.OperandChar:
		operandStr = fmt.Sprintf("$%02X", operand)
	}
	return fmt.Sprintf("%03X: %s   %-6s%s", addr, raw, info.Name, operandStr)
}
