package rf103

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendRoundTripsThroughWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	backend := NewFileBackend(path)

	written := sineWave(4800, 48000, 440)

	out, err := backend.Open(DirectionPlayback, FormatF32, 48000, 1)
	require.NoError(t, err)
	require.NoError(t, out.Write(written))
	require.NoError(t, out.Close())

	in, err := backend.Open(DirectionRecord, FormatF32, 48000, 1)
	require.NoError(t, err)
	defer in.Close()

	buf := make([]float32, len(written))
	total := 0
	for total < len(buf) {
		n, err := in.Read(buf[total:])
		total += n
		if err != nil {
			break
		}
	}

	require.Equal(t, len(written), total)
	for i := range written {
		assert.InDelta(t, written[i], buf[i], 1.0/math.MaxInt16*4, "sample %d should survive 16-bit PCM round trip", i)
	}
}

func TestFileBackendRejectsNonF32Receive(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "x.wav"))
	_, err := backend.Open(DirectionRecord, FormatS16, 48000, 1)
	assert.Error(t, err)
}
