package device

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuumtube/litton1600/internal/charset"
	"github.com/vacuumtube/litton1600/internal/word"
)

func TestTapeReaderStreamsDecodedCodes(t *testing.T) {
	r, err := NewTapeReader(Reader, charset.ASCII, strings.NewReader("AB"))
	require.NoError(t, err)

	v, ok := r.Input(word.ParityNone)
	assert.True(t, ok)
	assert.Equal(t, uint8('A'), v)

	v, ok = r.Input(word.ParityNone)
	assert.True(t, ok)
	assert.Equal(t, uint8('B'), v)

	_, ok = r.Input(word.ParityNone)
	assert.False(t, ok, "tape exhausted")
}

func TestTapeReaderAppliesRequestedParity(t *testing.T) {
	r, err := NewTapeReader(Reader, charset.ASCII, strings.NewReader("Z"))
	require.NoError(t, err)

	v, ok := r.Input(word.ParityOdd)
	assert.True(t, ok)
	assert.Equal(t, word.AddParity('Z', word.ParityOdd), v)
}

func TestTapeReaderDecodesEBS1231Escapes(t *testing.T) {
	r, err := NewTapeReader(Reader, charset.EBS1231, strings.NewReader("[P1]1"))
	require.NoError(t, err)

	v, ok := r.Input(word.ParityNone)
	assert.True(t, ok)
	assert.Equal(t, uint8(014), v)

	v, ok = r.Input(word.ParityNone)
	assert.True(t, ok)
	assert.Equal(t, uint8(01), v)
}

func TestTapePunchRendersThroughCharset(t *testing.T) {
	var buf bytes.Buffer
	p := NewTapePunch(Punch, charset.EBS1231, &buf)
	p.Output(014, word.ParityNone) // [P1]
	p.Output(01, word.ParityNone)  // 1
	assert.Equal(t, "[P1]1", buf.String())
}

func TestTapePunchStripsParity(t *testing.T) {
	var buf bytes.Buffer
	p := NewTapePunch(Punch, charset.ASCII, &buf)
	p.Output(word.AddParity('Q', word.ParityEven), word.ParityEven)
	assert.Equal(t, "Q", buf.String())
}
