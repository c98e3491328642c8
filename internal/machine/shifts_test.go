package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vacuumtube/litton1600/internal/opcodes"
	"github.com/vacuumtube/litton1600/internal/word"
)

// shiftInsn builds a two-byte shift instruction: base opcode, shift
// count (encoded as count-1), and whether K participates.
func shiftInsn(op uint16, count int, withK bool) uint16 {
	insn := op | uint16(count-1)
	if withK {
		insn |= 0x0080
	}
	return insn
}

func TestBinaryLeftSingleShift(t *testing.T) {
	m := newTestMachine()
	m.A = 1
	result, cost := m.binaryShift(shiftInsn(opcodes.BLS, 4, false))
	assert.Equal(t, StepOK, result)
	assert.Equal(t, word.Word(0x10), m.A)
	assert.Equal(t, uint8(0), m.K)
	assert.Equal(t, 3+3, cost) // N+3 word times, N encoded as count-1
}

func TestBinaryLeftSingleShiftWithCarryIn(t *testing.T) {
	m := newTestMachine()
	m.A = 0
	m.K = 1
	result, _ := m.binaryShift(shiftInsn(opcodes.BLS, 1, true))
	assert.Equal(t, StepOK, result)
	assert.Equal(t, word.Word(1), m.A)
	assert.Equal(t, uint8(0), m.K)
}

func TestBinaryLeftShiftCarriesTopBitOut(t *testing.T) {
	m := newTestMachine()
	m.A = word.MSB
	_, _ = m.binaryShift(shiftInsn(opcodes.BLS, 1, false))
	assert.Equal(t, word.Word(0), m.A)
	assert.Equal(t, uint8(1), m.K)
}

func TestBinaryRightSingleShift(t *testing.T) {
	m := newTestMachine()
	m.A = 0x3
	m.K = 1
	result, _ := m.binaryShift(shiftInsn(opcodes.BRS, 1, true))
	assert.Equal(t, StepOK, result)
	// K shifts in at the top, the low bit shifts out into K.
	assert.Equal(t, word.MSB|0x1, m.A)
	assert.Equal(t, uint8(1), m.K)
}

func TestBinaryLeftDoubleShiftCouplesTheWordPair(t *testing.T) {
	m := newTestMachine()
	m.Drum.SetScratchpad(0, 0)
	m.Drum.SetScratchpad(1, word.MSB)
	result, cost := m.binaryShift(shiftInsn(opcodes.BLD, 1, false))
	assert.Equal(t, StepOK, result)
	// The bit shifted out of the low word shifts into the high word.
	assert.Equal(t, word.Word(1), m.Drum.Scratchpad(0))
	assert.Equal(t, word.Word(0), m.Drum.Scratchpad(1))
	assert.Equal(t, (0+1)*8-3, cost)
}

func TestBinaryRightDoubleShiftCouplesTheWordPair(t *testing.T) {
	m := newTestMachine()
	m.Drum.SetScratchpad(0, 1)
	m.Drum.SetScratchpad(1, 0)
	_, _ = m.binaryShift(shiftInsn(opcodes.BRD, 1, false))
	assert.Equal(t, word.Word(0), m.Drum.Scratchpad(0))
	assert.Equal(t, word.MSB, m.Drum.Scratchpad(1))
	assert.Equal(t, uint8(0), m.K)
}

func TestScratchpadShiftRejectsNonUnitCount(t *testing.T) {
	m := newTestMachine()
	result, _ := m.binaryShift(opcodes.BLSS | 0x01)
	assert.Equal(t, StepIllegal, result)

	result, _ = m.decimalShift(opcodes.DLSS | 0x01)
	assert.Equal(t, StepIllegal, result)
}

func TestScratchpadShiftActsOnRegisterZero(t *testing.T) {
	m := newTestMachine()
	m.Drum.SetScratchpad(0, 0x21)
	result, _ := m.binaryShift(uint16(opcodes.BLSS))
	assert.Equal(t, StepOK, result)
	assert.Equal(t, word.Word(0x42), m.Drum.Scratchpad(0))
}

func TestDecimalLeftShiftMultipliesByTen(t *testing.T) {
	m := newTestMachine()
	m.A = 123
	result, _ := m.decimalShift(shiftInsn(opcodes.DLS, 2, false))
	assert.Equal(t, StepOK, result)
	assert.Equal(t, word.Word(12300), m.A)
	assert.Equal(t, uint8(0), m.K)
}

func TestDecimalLeftShiftWithConstant(t *testing.T) {
	m := newTestMachine()
	m.A = 7
	result, _ := m.decimalShift(opcodes.DLSC) // count field 0 = one shift
	assert.Equal(t, StepOK, result)
	assert.Equal(t, word.Word(71), m.A)
	assert.Equal(t, uint8(0), m.K)
}

func TestDecimalRightShiftDividesByTen(t *testing.T) {
	m := newTestMachine()
	m.A = 12345
	result, _ := m.decimalShift(shiftInsn(opcodes.DRS, 2, false))
	assert.Equal(t, StepOK, result)
	assert.Equal(t, word.Word(123), m.A)
}

func TestDecimalDoubleShiftRoundTripsThroughDivide(t *testing.T) {
	m := newTestMachine()
	m.Drum.SetScratchpad(0, 0x12)
	m.Drum.SetScratchpad(1, 0x3456789ABC)
	_, _ = m.decimalShift(uint16(opcodes.DLD)) // one x10
	_, _ = m.decimalShift(uint16(opcodes.DRD)) // one /10
	assert.Equal(t, word.Word(0x12), m.Drum.Scratchpad(0))
	assert.Equal(t, word.Word(0x3456789ABC), m.Drum.Scratchpad(1))
}

func TestDecimalDoubleShiftCarriesAcrossWords(t *testing.T) {
	m := newTestMachine()
	m.Drum.SetScratchpad(0, 0)
	m.Drum.SetScratchpad(1, word.Mask) // x10 overflows the low word
	_, _ = m.decimalShift(uint16(opcodes.DLD))

	// 10 * (2^40 - 1) split across an 80-bit pair.
	product := uint64(10) * uint64(word.Mask)
	assert.Equal(t, word.Word(product>>40), m.Drum.Scratchpad(0))
	assert.Equal(t, word.Word(product)&word.Mask, m.Drum.Scratchpad(1))
}

func TestExchangeTwiceIsIdentity(t *testing.T) {
	m := newTestMachine()
	m.A = 0x1111
	m.Drum.SetScratchpad(3, 0x2222)

	m.CR = opcodes.XC | 3
	_, _ = m.stepSingleByte()
	assert.Equal(t, word.Word(0x2222), m.A)

	m.CR = opcodes.XC | 3
	_, _ = m.stepSingleByte()
	assert.Equal(t, word.Word(0x1111), m.A)
	assert.Equal(t, word.Word(0x2222), m.Drum.Scratchpad(3))
}

func TestComplementTwiceIsIdentity(t *testing.T) {
	m := newTestMachine()
	m.A = 0x1234

	m.CR = opcodes.CM
	_, _ = m.stepSingleByte()
	m.CR = opcodes.CM
	_, _ = m.stepSingleByte()

	assert.Equal(t, word.Word(0x1234), m.A)
	assert.Equal(t, uint8(1), m.K)
}

func TestExtractReadsScratchpadBeforeWriting(t *testing.T) {
	m := newTestMachine()
	m.A = 0xF0F0
	m.Drum.SetScratchpad(2, 0xFF00)

	m.CR = opcodes.XT | 2
	_, _ = m.stepSingleByte()

	// A' = S & A, S' = S & ~A, both computed from the original S.
	assert.Equal(t, word.Word(0xF000), m.A)
	assert.Equal(t, word.Word(0x0F00), m.Drum.Scratchpad(2))
}
