package image

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuumtube/litton1600/internal/machine"
	"github.com/vacuumtube/litton1600/internal/word"
)

func TestLoadDrumImageParsesDataAndMetadata(t *testing.T) {
	input := "#Litton-Drum-Image\n" +
		"#Title: test\n" +
		"#Entry-Point: 010\n" +
		"010:00000000AB\n" +
		"011:FFFFFFFFFF\n"

	m := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, word.Word(0xAB), m.Drum.Get(0x010))
	assert.Equal(t, word.Mask, m.Drum.Get(0x011))
	assert.Equal(t, word.Loc(0x010), m.EntryPoint)
}

func TestLoadDrumImageReportsBadLinesWithoutAborting(t *testing.T) {
	input := "#Litton-Drum-Image\n" +
		"not-a-valid-line\n" +
		"010:00000000AB\n"

	m := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Equal(t, word.Word(0xAB), m.Drum.Get(0x010))
}

func TestLoadDrumImageAppliesDeviceAndCharsetMetadata(t *testing.T) {
	input := "#Litton-Drum-Image\n" +
		"#Printer-Device: 42\n" +
		"#Printer-Character-Set: HEX\n" +
		"#Keyboard-Device: 50\n" +
		"#Keyboard-Character-Set: UASCII\n"

	m := machine.New(word.MaxDrumSize)
	_, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), m.PrinterID)
	assert.Equal(t, uint8(0x50), m.KeyboardID)
}

func TestLoadDrumImageRejectsInvalidDeviceID(t *testing.T) {
	input := "#Litton-Drum-Image\n#Printer-Device: 00\n"
	m := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.Len(t, result.Errors, 1)
}

func TestLoadTapeImage(t *testing.T) {
	input := "010#00000000AB/FFFFFFFFFF,"
	m := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, word.Word(0xAB), m.Drum.Get(0x010))
	assert.Equal(t, word.Mask, m.Drum.Get(0x011))
}

func TestLoadTapeImageAbsoluteAddressReload(t *testing.T) {
	// A line break stores-and-advances like '/'; a run ending in '#'
	// reloads the address for the next range.
	input := "000#0000000001/0000000002\n0AA#0000000003,"
	m := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, word.Word(1), m.Drum.Get(0x000))
	assert.Equal(t, word.Word(2), m.Drum.Get(0x001))
	assert.Equal(t, word.Word(3), m.Drum.Get(0x0AA))
}

func TestLoadTapeImageReportsStructuralError(t *testing.T) {
	input := "010#00000000AB/zz,"
	m := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(input), m)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
}

func TestSaveRoundTripsThroughLoad(t *testing.T) {
	m := machine.New(word.MaxDrumSize)
	m.Drum.Set(5, 0x1234567890)
	m.Drum.Set(100, word.Mask)
	m.SetEntryPoint(42)

	var buf strings.Builder
	require.NoError(t, Save(&buf, m, "roundtrip"))

	m2 := machine.New(word.MaxDrumSize)
	result, err := Load(strings.NewReader(buf.String()), m2)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, word.Word(0x1234567890), m2.Drum.Get(5))
	assert.Equal(t, word.Mask, m2.Drum.Get(100))
	assert.Equal(t, word.Loc(42), m2.EntryPoint)
	assert.Equal(t, m.PrinterID, m2.PrinterID)
	assert.Equal(t, m.KeyboardCharset, m2.KeyboardCharset)
}

func TestSaveOmitsUnusedAddresses(t *testing.T) {
	m := machine.New(word.MaxDrumSize)
	m.Drum.Set(1, 1)

	var buf strings.Builder
	require.NoError(t, Save(&buf, m, ""))
	// Six metadata header lines carry a colon (no Title line for an
	// empty title), plus one data line for the single used word.
	assert.Equal(t, 7, strings.Count(buf.String(), ":"))
}
