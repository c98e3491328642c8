package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vacuumtube/litton1600/internal/opcodes"
	"github.com/vacuumtube/litton1600/internal/word"
)

// fakeInput is a minimal input-capable device that returns one
// preloaded byte per Input/Status call.
type fakeInput struct {
	id       uint8
	busy     bool
	value    uint8
	hasValue bool
	sunk     []uint8
}

func (f *fakeInput) ID() uint8            { return f.id }
func (f *fakeInput) SupportsInput() bool  { return true }
func (f *fakeInput) SupportsOutput() bool { return true }
func (f *fakeInput) Select()              {}
func (f *fakeInput) Deselect()            {}
func (f *fakeInput) IsBusy() bool         { return f.busy }
func (f *fakeInput) Close()               {}

func (f *fakeInput) Output(value uint8, _ word.Parity) {
	f.sunk = append(f.sunk, value)
}

func (f *fakeInput) Input(word.Parity) (uint8, bool) {
	if !f.hasValue {
		return 0, false
	}
	f.hasValue = false
	return f.value, true
}

func (f *fakeInput) Status() (uint8, bool) {
	return f.Input(word.ParityNone)
}

func newIOMachine(d *fakeInput) *Machine {
	m := newTestMachine()
	m.Devices.Add(d)
	m.Devices.Select(d.id)
	return m
}

func TestClearInputCheckOddParityOK(t *testing.T) {
	d := &fakeInput{id: 0x41, value: word.AddParity(0x55, word.ParityOdd), hasValue: true}
	m := newIOMachine(d)

	result, cost := m.performIO(opcodes.CIO)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, 1, cost)
	assert.Equal(t, word.Word(0x55), m.A)
	assert.Equal(t, uint8(1), m.K)
	assert.Equal(t, uint8(0), m.P)
}

func TestClearInputCheckFlagsBadParity(t *testing.T) {
	bad := word.AddParity(0x55, word.ParityOdd) ^ 0x80
	d := &fakeInput{id: 0x41, value: bad, hasValue: true}
	m := newIOMachine(d)

	_, _ = m.performIO(opcodes.CIO)
	assert.Equal(t, uint8(1), m.P)
}

func TestClearInputIntoAFoldsParityFlagIntoMSB(t *testing.T) {
	bad := word.AddParity(0x55, word.ParityOdd) ^ 0x80
	d := &fakeInput{id: 0x41, value: bad, hasValue: true}
	m := newIOMachine(d)

	_, _ = m.performIO(opcodes.CIOP)
	assert.NotZero(t, m.A&word.MSB)
}

func TestClearInputWhenNoDeviceHasDataSetsKZero(t *testing.T) {
	d := &fakeInput{id: 0x41}
	m := newIOMachine(d)

	result, cost := m.performIO(opcodes.CIO)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, ioBusyCost, cost)
	assert.Equal(t, uint8(0), m.K)
}

func TestOutputAccumulatorEmitsTopByteAndShifts(t *testing.T) {
	d := &fakeInput{id: 0x41}
	m := newIOMachine(d)
	m.A = 0x12_00000001

	result, _ := m.performIO(opcodes.OA)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, []uint8{0x12}, d.sunk)
	assert.Equal(t, word.Word(0x00_00000100), m.A)
	assert.Equal(t, uint8(1), m.K)
}

func TestOutputAccumulatorBusyDeviceSetsKZero(t *testing.T) {
	d := &fakeInput{id: 0x41, busy: true}
	m := newIOMachine(d)
	m.A = 0xFF_00000000

	result, cost := m.performIO(opcodes.OA)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, ioBusyCost, cost)
	assert.Equal(t, uint8(0), m.K)
	assert.Empty(t, d.sunk)
}

func TestAccumulatorSelectChoosesDeviceFromTopByteOfA(t *testing.T) {
	d := &fakeInput{id: 0x41, value: 0x5, hasValue: true}
	m := newTestMachine()
	m.Devices.Add(d)
	m.A = word.Word(0x41) << 32

	result, _ := m.performIO(opcodes.AS)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, uint8(1), m.K)

	v, ok := m.Devices.Input(word.ParityNone)
	assert.True(t, ok)
	assert.Equal(t, uint8(0x5), v)
}

func TestOutputImmediateWritesLiteralOperand(t *testing.T) {
	d := &fakeInput{id: 0x41}
	m := newIOMachine(d)

	insn := uint16(opcodes.OI) | 0x7A
	result, _ := m.performIO(insn)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, []uint8{0x7A}, d.sunk)
}

func TestImmediateSelectChoosesDeviceFromOperand(t *testing.T) {
	d := &fakeInput{id: 0x41, value: 0x9, hasValue: true}
	m := newTestMachine()
	m.Devices.Add(d)

	insn := uint16(opcodes.IS) | 0x41
	result, _ := m.performIO(insn)
	assert.Equal(t, StepOK, result)
	assert.Equal(t, uint8(1), m.K)

	v, ok := m.Devices.Input(word.ParityNone)
	assert.True(t, ok)
	assert.Equal(t, uint8(0x9), v)
}

func TestUnknownIOOpcodeIsIllegal(t *testing.T) {
	d := &fakeInput{id: 0x41}
	m := newIOMachine(d)
	result, _ := m.performIO(0x5CC0) // inside the 0x50/0x70 range but unassigned
	assert.Equal(t, StepIllegal, result)
}
