/*
   Opcodes: the Litton 1600's instruction table.

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

// Package opcodes holds the opcode table shared by the instruction
// engine and the trace disassembler: each entry names an opcode,
// gives its fixed bit pattern, the mask of bits that instead carry an
// operand, and the operand's kind (for formatting). Opcodes below
// 0x0100 are 8-bit instructions; everything else is 16-bit.
package opcodes

// OperandType classifies how an instruction's operand bits should be
// interpreted when formatting a trace line.
type OperandType int

const (
	OperandNone OperandType = iota
	OperandMemory
	OperandScratchpad
	OperandShift
	OperandDevice
	OperandChar
	OperandHalt
)

// Info describes one opcode.
type Info struct {
	Name        string
	Opcode      uint16
	OperandMask uint16
	OperandType OperandType
}

// Fixed 8-bit opcodes (CR < 0x40), keyed directly on the byte.
const (
	HH = 0x00 // Halt, operand X
	AK = 0x08 // Add K
	CL = 0x09 // Clear A
	NN = 0x0A // No operation
	CM = 0x0B // Complement
	JA = 0x0D // Jump to A
	BI = 0x0F // Block interchange
	SK = 0x10 // Set K to 1
	TZ = 0x11 // Test for zero
	TH = 0x12 // Test high order A bit (TN is an alias)
	RK = 0x13 // Reset K to 0
	TP = 0x14 // Test parity failure
	LA = 0x18 // Logical AND, operand S
	XC = 0x20 // Exchange, operand S
	XT = 0x28 // Extract, operand S
	TE = 0x30 // Test equal, operand S
	TG = 0x38 // Test equal or greater, operand S
)

// 16-bit opcodes (CR >= 0x40), keyed on the full two-byte instruction
// with its operand bits cleared.
const (
	BLS    = 0x4000 // Binary left single shift, operand N
	BLSK   = 0x4080 // ...incl. K
	BLSS   = 0x4100 // ...on scratchpad
	BLSSK  = 0x4180 // ...on scratchpad, incl. K
	BLD    = 0x4200 // Binary left double shift, operand N
	BLDK   = 0x4280
	BLDS   = 0x4300
	BLDSK  = 0x4380
	BRS    = 0x4800 // Binary right single shift, operand N
	BRSK   = 0x4880
	BRSS   = 0x4900
	BRSSK  = 0x4980
	BRD    = 0x4A00 // Binary right double shift, operand N
	BRDK   = 0x4A80
	BRDS   = 0x4B00
	BRDSK  = 0x4B80
	SI     = 0x5000 // Shift input
	RS     = 0x5080 // Read status
	CIO    = 0x5800 // Clear, input, check odd parity
	CIE    = 0x5840 // Clear, input, check even parity
	CIOP   = 0x5C00 // ...into A
	CIEP   = 0x5C40
	DLS    = 0x6000 // Decimal left single shift, operand N
	DLSC   = 0x6080 // ...plus constant
	DLSS   = 0x6100 // ...on scratchpad
	DLSSC  = 0x6180
	DLD    = 0x6200 // Decimal left double shift, operand N
	DLDC   = 0x6280
	DLDS   = 0x6300
	DLDSC  = 0x6380
	DRS    = 0x6800 // Decimal right single shift, operand N
	DRD    = 0x6A00 // Decimal right double shift, operand N
	OAO    = 0x7000 // Output accumulator with odd parity
	OAE    = 0x7040 // Output accumulator with even parity
	OA     = 0x70C0 // Output accumulator
	AST    = 0x74C0 // Accumulator select on test
	AS     = 0x76C0 // Accumulator select
	OI     = 0x7800 // Output immediate, operand C
	IST    = 0x7C00 // Immediate select on test, operand D
	IS     = 0x7E00 // Immediate select, operand D
	CA     = 0x8000 // Clear and add / load, operand M
	AD     = 0x9000 // Add, operand M
	ST     = 0xB000 // Store, operand M
	JM     = 0xC000 // Jump mark, operand M
	AC     = 0xD000 // Add conditional, operand M
	JU     = 0xE000 // Jump unconditional, operand M
	JC     = 0xF000 // Jump conditional, operand M
)

// Table lists every opcode in decode-priority order: the disassembler
// scans it and takes the first entry whose fixed bits match (the
// engine decodes with its own switches on the opcode constants). Multi-name opcodes (TH/TN) appear once per name, since
// a disassembler needs the name under which to print; decode only
// ever needs the first hit, which is the primary mnemonic.
var Table = []Info{
	{"HH", HH, 0x0007, OperandHalt},
	{"AK", AK, 0x0000, OperandNone},
	{"CL", CL, 0x0000, OperandNone},
	{"NN", NN, 0x0000, OperandNone},
	{"CM", CM, 0x0000, OperandNone},
	{"JA", JA, 0x0000, OperandNone},
	{"BI", BI, 0x0000, OperandNone},
	{"SK", SK, 0x0000, OperandNone},
	{"TZ", TZ, 0x0000, OperandNone},
	{"TH", TH, 0x0000, OperandNone},
	{"TN", TH, 0x0000, OperandNone}, // alias for TH
	{"RK", RK, 0x0000, OperandNone},
	{"TP", TP, 0x0000, OperandNone},

	{"LA", LA, 0x0007, OperandScratchpad},
	{"XC", XC, 0x0007, OperandScratchpad},
	{"XT", XT, 0x0007, OperandScratchpad},
	{"TE", TE, 0x0007, OperandScratchpad},
	{"TG", TG, 0x0007, OperandScratchpad},

	{"BLS", BLS, 0x007F, OperandShift},
	{"BLSK", BLSK, 0x007F, OperandShift},
	{"BLSS", BLSS, 0x0000, OperandNone},
	{"BLSSK", BLSSK, 0x0000, OperandNone},
	{"BLD", BLD, 0x007F, OperandShift},
	{"BLDK", BLDK, 0x007F, OperandShift},
	{"BLDS", BLDS, 0x0000, OperandNone},
	{"BLDSK", BLDSK, 0x0000, OperandNone},
	{"BRS", BRS, 0x007F, OperandShift},
	{"BRSK", BRSK, 0x007F, OperandShift},
	{"BRSS", BRSS, 0x0000, OperandNone},
	{"BRSSK", BRSSK, 0x0000, OperandNone},
	{"BRD", BRD, 0x007F, OperandShift},
	{"BRDK", BRDK, 0x007F, OperandShift},
	{"BRDS", BRDS, 0x0000, OperandNone},
	{"BRDSK", BRDSK, 0x0000, OperandNone},

	{"SI", SI, 0x0000, OperandNone},
	{"RS", RS, 0x0000, OperandNone},
	{"CIO", CIO, 0x0000, OperandNone},
	{"CIE", CIE, 0x0000, OperandNone},
	{"CIOP", CIOP, 0x0000, OperandNone},
	{"CIEP", CIEP, 0x0000, OperandNone},

	{"DLS", DLS, 0x007F, OperandShift},
	{"DLSC", DLSC, 0x007F, OperandShift},
	{"DLSS", DLSS, 0x0000, OperandNone},
	{"DLSSC", DLSSC, 0x0000, OperandNone},
	{"DLD", DLD, 0x007F, OperandShift},
	{"DLDC", DLDC, 0x007F, OperandShift},
	{"DLDS", DLDS, 0x0000, OperandNone},
	{"DLDSC", DLDSC, 0x0000, OperandNone},
	{"DRS", DRS, 0x007F, OperandShift},
	{"DRD", DRD, 0x007F, OperandShift},

	{"OAO", OAO, 0x0000, OperandNone},
	{"OAE", OAE, 0x0000, OperandNone},
	{"OA", OA, 0x0000, OperandNone},
	{"AST", AST, 0x0000, OperandNone},
	{"AS", AS, 0x0000, OperandNone},
	{"OI", OI, 0x00FF, OperandChar},
	{"IST", IST, 0x00FF, OperandDevice},
	{"IS", IS, 0x00FF, OperandDevice},

	{"CA", CA, 0x0FFF, OperandMemory},
	{"AD", AD, 0x0FFF, OperandMemory},
	{"ST", ST, 0x0FFF, OperandMemory},
	{"JM", JM, 0x0FFF, OperandMemory},
	{"AC", AC, 0x0FFF, OperandMemory},
	{"JU", JU, 0x0FFF, OperandMemory},
	{"JC", JC, 0x0FFF, OperandMemory},
}

// ByNumber returns the table entry whose fixed bits match insn, or
// nil if insn does not correspond to a known opcode. Table order
// matters: the first structural match wins, exactly as the hardware's
// two-tier CR decode always resolves to a single instruction.
func ByNumber(insn uint16) *Info {
	for i := range Table {
		info := &Table[i]
		if insn&^info.OperandMask == info.Opcode {
			return info
		}
	}
	return nil
}

// ByName returns the table entry with the given mnemonic (case
// sensitive, as mnemonics are always upper case), or nil.
func ByName(name string) *Info {
	for i := range Table {
		if Table[i].Name == name {
			return &Table[i]
		}
	}
	return nil
}
