package disasm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vacuumtube/litton1600/internal/opcodes"
)

func TestInstructionFormatsMemoryOperand(t *testing.T) {
	line := Instruction(0x010, uint16(opcodes.CA)|0x020)
	assert.True(t, strings.Contains(line, "CA"))
	assert.True(t, strings.Contains(line, "$020"))
	assert.True(t, strings.HasPrefix(line, "010:"))
}

func TestInstructionFormatsShiftOperandOffByOne(t *testing.T) {
	line := Instruction(0, uint16(opcodes.BLS)|5)
	assert.True(t, strings.Contains(line, "BLS"))
	assert.True(t, strings.Contains(line, "6")) // operand+1
}

func TestInstructionFormatsHaltOperand(t *testing.T) {
	line := Instruction(0, opcodes.HH|3)
	assert.True(t, strings.Contains(line, "HH"))
	assert.True(t, strings.Contains(line, "3"))
}

func TestInstructionUnknownOpcodePrintsNoMnemonic(t *testing.T) {
	line := Instruction(0x001, 0x0015) // unused fixed-opcode slot
	assert.Equal(t, "001: 15  ", line)
}

func TestInstructionNoOperandOpcode(t *testing.T) {
	line := Instruction(0, opcodes.NN)
	assert.True(t, strings.Contains(line, "NN"))
}
