package device

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/word"
)

func TestPrinterASCIIPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(PrinterID, charset.ASCII, &buf)
	p.Output('A', word.ParityNone)
	p.Output('B', word.ParityNone)
	assert.Equal(t, "AB", buf.String())
}

func TestPrinterHexFormatsPairs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(PrinterID, charset.Hex, &buf)
	p.Output(0x0A, word.ParityNone)
	p.Output(0xFF, word.ParityNone)
	assert.Equal(t, "0A FF", buf.String())
}

func TestPrinterStripsParityExceptForHex(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(PrinterID, charset.ASCII, &buf)
	coded := word.AddParity('Z', word.ParityOdd)
	p.Output(coded, word.ParityOdd)
	assert.Equal(t, "Z", buf.String())
}

func TestPrinterIsOutputOnly(t *testing.T) {
	p := NewPrinter(PrinterID, charset.ASCII, &bytes.Buffer{})
	assert.True(t, p.SupportsOutput())
	assert.False(t, p.SupportsInput())
	_, ok := p.Input(word.ParityNone)
	assert.False(t, ok)
}
