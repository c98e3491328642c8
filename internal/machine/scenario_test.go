package machine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/device"
	"github.com/vacuumtube/litton1600/internal/word"
)

// runToHalt steps m until it halts, failing the test if it doesn't
// stop within a generous instruction budget.
func runToHalt(t *testing.T, m *Machine) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		switch m.Step() {
		case StepHalt:
			return
		case StepIllegal, StepSpinning:
			t.Fatal("program did not reach a clean halt")
		}
	}
	t.Fatal("program did not halt within budget")
}

func TestResetToHaltOnEmptyDrum(t *testing.T) {
	m := newTestMachine()
	m.Drum.Set(0xFFF, 0)
	m.Reset()

	// The first step takes the implicit conditional jump to the entry
	// point (K is 1 after reset); the second lands on the all-zero
	// word and halts with code 0.
	assert.Equal(t, StepOK, m.Step())
	assert.Equal(t, word.Loc(0xFFF), m.PC)
	assert.Equal(t, StepHalt, m.Step())
	assert.Equal(t, uint8(0), m.HaltCode)
}

func TestLoadStoreProgram(t *testing.T) {
	m := newTestMachine()
	m.Drum.Set(0x100, 0x1234567890)
	// CA $100; ST $101; implicit jump to FFE; HH 0 there.
	m.Drum.Set(0xFFF, 0xFE8100B101)
	m.Drum.Set(0xFFE, 0)
	m.Reset()

	runToHalt(t, m)
	assert.Equal(t, word.Word(0x1234567890), m.Drum.Get(0x101))
	assert.Equal(t, word.Word(0x1234567890), m.A)
	assert.Equal(t, uint8(0), m.HaltCode)
}

func TestAddWithCarryProgram(t *testing.T) {
	m := newTestMachine()
	m.Drum.Set(0x201, 0xFFFFFFFFFE)
	m.Drum.Set(0x200, 0x0000000003)
	// CA $201; AD $200; implicit jump to FFE; HH 0 there.
	m.Drum.Set(0xFFF, 0xFE82019200)
	m.Drum.Set(0xFFE, 0)
	m.Reset()

	runToHalt(t, m)
	assert.Equal(t, word.Word(0x0000000001), m.A)
	assert.Equal(t, uint8(1), m.K)
}

func TestDeviceSelectAndOutputProgram(t *testing.T) {
	var out bytes.Buffer
	m := newTestMachine()
	m.Devices.Add(device.NewPrinter(0x41, charset.ASCII, &out))

	// IS $41; OI 'H'; implicit jump to FFE.
	m.Drum.Set(0xFFF, 0xFE7E417848)
	// OI 'I'; HH 0.
	m.Drum.Set(0xFFE, 0xFD78490000)
	m.Reset()

	runToHalt(t, m)
	assert.Equal(t, "HI", out.String())
	assert.Equal(t, uint8(0), m.HaltCode)
}

func TestOutputAccumulatorParityProgram(t *testing.T) {
	sink := &fakeInput{id: 0x41}
	m := newTestMachine()
	m.Devices.Add(sink)
	m.Devices.Select(0x41)

	m.A = word.Word('E') << 32
	_, _ = m.performIO(0x7000) // OAO
	m.A = word.Word('B') << 32
	_, _ = m.performIO(0x7040) // OAE
	m.A = word.Word('S') << 32
	_, _ = m.performIO(0x70C0) // OA

	require.Len(t, sink.sunk, 3)
	assert.Equal(t, word.AddParity('E', word.ParityOdd), sink.sunk[0])
	assert.Equal(t, word.AddParity('B', word.ParityEven), sink.sunk[1])
	assert.Equal(t, uint8('S'), sink.sunk[2])
}

func TestSetKThenTestParityLeavesKWhenPClear(t *testing.T) {
	m := newTestMachine()
	m.P = 0
	m.CR = 0x10 // SK
	_, _ = m.stepSingleByte()
	assert.Equal(t, uint8(1), m.K)

	m.CR = 0x14 // TP
	_, _ = m.stepSingleByte()
	assert.Equal(t, uint8(0), m.K) // K takes P's value, which was 0
	assert.Equal(t, uint8(0), m.P)
}

func TestJumpMarkSavesReturnContinuation(t *testing.T) {
	m := newTestMachine()
	// Caller at FFF: JM $10A, then HH 0 once the callee returns. The
	// saved continuation's first byte is the JM operand's low byte,
	// which gets re-executed on return; a subroutine therefore lives
	// at an address whose low byte is a harmless opcode (here 0A, a
	// no-op).
	m.Drum.Set(0xFFF, 0xFEC10A0000)
	m.Drum.Set(0x10A, 0x000D000000) // callee: JA straight back
	m.Reset()

	// Step 1: reset jump. Step 2: JM saves the continuation into A.
	assert.Equal(t, StepOK, m.Step())
	assert.Equal(t, StepOK, m.Step())
	assert.Equal(t, word.Loc(0x10A), m.PC)

	// Step 3: JA loads the continuation back into I. Steps 4-5: the
	// re-executed operand byte (NN) and then the caller's halt.
	assert.Equal(t, StepOK, m.Step())
	assert.Equal(t, StepOK, m.Step())
	assert.Equal(t, StepHalt, m.Step())
	assert.Equal(t, uint8(0), m.HaltCode)
}
