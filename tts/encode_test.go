package tts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFrameReadsFullFrames(t *testing.T) {
	// Two samples per frame, little endian: 1, -1, 2, -2.
	r := bytes.NewReader([]byte{0x01, 0x00, 0xff, 0xff, 0x02, 0x00, 0xfe, 0xff})
	buf := make([]byte, 4)
	pcm := make([]int16, 2)

	ok, err := nextFrame(r, buf, pcm)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int16{1, -1}, pcm)

	ok, err = nextFrame(r, buf, pcm)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int16{2, -2}, pcm)

	ok, err = nextFrame(r, buf, pcm)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextFrameZeroPadsShortTail(t *testing.T) {
	// One full sample followed by a truncated stream.
	r := bytes.NewReader([]byte{0x05, 0x00, 0xaa})
	buf := make([]byte, 4)
	pcm := []int16{7, 7}

	ok, err := nextFrame(r, buf, pcm)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int16(5), pcm[0])
	assert.Equal(t, int16(0xaa), pcm[1]) // high byte padded with zero

	ok, err = nextFrame(r, buf, pcm)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextFrameEmptyStream(t *testing.T) {
	ok, err := nextFrame(bytes.NewReader(nil), make([]byte, 4), make([]int16, 2))
	require.NoError(t, err)
	assert.False(t, ok)
}
