package device

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/word"
)

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID(PrinterID))
	assert.True(t, IsValidID(KeyboardID))
	assert.False(t, IsValidID(0x00))
	assert.False(t, IsValidID(0x01)) // no group bits set
	assert.False(t, IsValidID(0xC0)) // no member bits set
}

func TestFabricSelectMatchesSubsetOfBits(t *testing.T) {
	f := NewFabric()
	kb := NewKeyboard(0x48, charset.ASCII)
	f.Add(kb)

	f.Select(0x48)
	v, ok := f.Input(word.ParityNone)
	assert.False(t, ok, "nothing typed yet")
	_ = v

	f.Select(0x08) // missing the group bit 0x40, shouldn't match
	kb.PushText("x")
	_, ok = f.Input(word.ParityNone)
	assert.False(t, ok, "keyboard deselected, should not be polled")
}

func TestFabricBroadcastsToEverySelectedDevice(t *testing.T) {
	f := NewFabric()
	var buf1, buf2 bytes.Buffer
	p1 := NewPrinter(0x41, charset.ASCII, &buf1)
	p2 := NewPrinter(0x41, charset.ASCII, &buf2)
	f.Add(p1)
	f.Add(p2)

	f.Select(0x41)
	f.Output('Q', word.ParityNone)

	assert.Equal(t, "Q", buf1.String())
	assert.Equal(t, "Q", buf2.String())
}

func TestFabricSelectIsEdgeTriggered(t *testing.T) {
	selectCount := 0
	d := &countingDevice{onSelect: func() { selectCount++ }}
	f := NewFabric()
	f.Add(d)

	f.Select(d.ID())
	f.Select(d.ID())
	f.Select(d.ID())

	assert.Equal(t, 1, selectCount)
}

func TestClearInputBuffers(t *testing.T) {
	f := NewFabric()
	kb := NewKeyboard(KeyboardID, charset.ASCII)
	f.Add(kb)
	f.Select(KeyboardID)
	kb.PushText("hello")

	f.ClearInputBuffers()

	_, ok := kb.Input(word.ParityNone)
	assert.False(t, ok)
}

// countingDevice is a minimal Device used to test Select's
// edge-triggering in isolation from any real peripheral.
type countingDevice struct {
	onSelect func()
}

func (c *countingDevice) ID() uint8            { return 0x41 }
func (c *countingDevice) SupportsInput() bool  { return false }
func (c *countingDevice) SupportsOutput() bool { return false }
func (c *countingDevice) Select()              { c.onSelect() }
func (c *countingDevice) Deselect()            {}
func (c *countingDevice) IsBusy() bool         { return false }
func (c *countingDevice) Output(uint8, word.Parity) {}
func (c *countingDevice) Input(word.Parity) (uint8, bool) { return 0, false }
func (c *countingDevice) Status() (uint8, bool)           { return 0, false }
func (c *countingDevice) Close()                          {}
