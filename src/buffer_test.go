package rf103

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSampleBufferFillAdvanceInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(t, "capacity")
		buf := newSampleBuffer(capacity)

		fills := rapid.IntRange(0, 200).Draw(t, "fills")
		for i := 0; i < fills; i++ {
			chunk := rapid.IntRange(0, capacity*2).Draw(t, "chunk")
			src := NewBenchStream(make([]float32, chunk))
			buf.fill(src)

			assert.GreaterOrEqual(t, buf.nValid, 0)
			assert.LessOrEqual(t, buf.nValid, buf.capacity())

			advance := rapid.IntRange(0, buf.nValid).Draw(t, "advance")
			ok := buf.advanceBy(advance)
			assert.True(t, ok)
			assert.GreaterOrEqual(t, buf.nValid, 0)
			assert.LessOrEqual(t, buf.nValid, buf.capacity())
		}
	})
}

func TestSampleBufferAdvanceBeyondValidFails(t *testing.T) {
	buf := newSampleBuffer(8)
	src := NewBenchStream([]float32{1, 2, 3})
	n, err := buf.fill(src)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.False(t, buf.advanceBy(4))
}

func TestSampleBufferAdvancePreservesOrder(t *testing.T) {
	buf := newSampleBuffer(8)
	src := NewBenchStream([]float32{1, 2, 3, 4})
	_, err := buf.fill(src)
	require.NoError(t, err)

	require.True(t, buf.advanceBy(2))
	assert.Equal(t, []float32{3, 4}, buf.valid())
}

func TestSampleBufferFillReportsEOF(t *testing.T) {
	buf := newSampleBuffer(8)
	src := NewBenchStream([]float32{1, 2})
	_, err := buf.fill(src)
	require.NoError(t, err)

	_, err = buf.fill(src)
	assert.ErrorIs(t, err, io.EOF)
}
