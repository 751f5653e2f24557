package rf103

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchStreamReadReturnsAllSamplesThenEOF(t *testing.T) {
	s := NewBenchStream([]float32{1, 2, 3})

	buf := make([]float32, 2)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{1, 2}, buf)

	n, err = s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBenchStreamWriteAccumulates(t *testing.T) {
	s := NewBenchStream(nil)
	require.NoError(t, s.Write([]float32{1, 2}))
	require.NoError(t, s.Write([]float32{3}))

	assert.Equal(t, []float32{1, 2, 3}, s.Written)
}

func TestBenchBackendOpenGivesIndependentStreams(t *testing.T) {
	backend := NewBenchBackend([]float32{1, 2})

	s1, err := backend.Open(DirectionRecord, FormatF32, 48000, 1)
	require.NoError(t, err)
	s2, err := backend.Open(DirectionRecord, FormatF32, 48000, 1)
	require.NoError(t, err)

	buf := make([]float32, 2)
	_, err = s1.Read(buf)
	require.NoError(t, err)

	_, err = s2.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, buf, "second stream should see its own copy of the backend's samples")
}
