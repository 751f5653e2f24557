package rf103

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthesizeFrame writes one full frame (prev_stop=1, start=0, D data
// bits, stop=1) as mark/space tones into a buffer, padded on both sides
// by halfWindow samples of the adjacent bit's tone so every bit cell's
// FFT analysis window has enough lead-in/lead-out context -- the same
// margin the receive loop's larger sliding buffer naturally provides.
// Returns the buffer, the per-bit sample count, and the sample offset
// of the frame's first bit (prev_stop) within the buffer.
func synthesizeFrame(t *testing.T, plan *Plan, baud float64, data uint32, dataBits int) ([]float32, float64, int) {
	t.Helper()
	nsamplesPerBit := float64(plan.SampleRate) / baud
	frameBits := dataBits + 2
	halfWindow := plan.FFTSize / 2

	bits := make([]int, frameBits+1)
	bits[0] = 1 // prev_stop
	bits[1] = 0 // start
	for i := 0; i < dataBits; i++ {
		if data&(1<<uint(i)) != 0 {
			bits[2+i] = 1
		}
	}
	bits[frameBits] = 1 // stop

	frameTotal := int(math.Round(nsamplesPerBit * float64(frameBits+1)))
	total := frameTotal + 2*halfWindow
	buf := make([]float32, total)

	hzFor := func(bit int) float64 {
		if bit == 1 {
			return plan.markHz()
		}
		return plan.spaceHz()
	}

	for s := 0; s < halfWindow; s++ {
		buf[s] = float32(math.Sin(2 * math.Pi * hzFor(bits[0]) * float64(s) / float64(plan.SampleRate)))
	}
	for i, bit := range bits {
		start := halfWindow + int(math.Round(float64(i)*nsamplesPerBit))
		end := halfWindow + int(math.Round(float64(i+1)*nsamplesPerBit))
		hz := hzFor(bit)
		for s := start; s < end && s < total; s++ {
			buf[s] = float32(math.Sin(2 * math.Pi * hz * float64(s) / float64(plan.SampleRate)))
		}
	}
	for s := halfWindow + frameTotal; s < total; s++ {
		buf[s] = float32(math.Sin(2 * math.Pi * hzFor(bits[frameBits]) * float64(s) / float64(plan.SampleRate)))
	}

	return buf, nsamplesPerBit, halfWindow
}

func TestFindFrameLocatesExactFrame(t *testing.T) {
	plan, err := NewPlan(48000, 1270, 1070, 200, 8)
	require.NoError(t, err)

	buf, nsamplesPerBit, frameStart := synthesizeFrame(t, plan, 300, 0b01001000, 8)
	frameNSamples := int(math.Round(nsamplesPerBit * float64(plan.FrameBits)))

	bits, confidence, start, ok := findFrame(plan, buf, frameNSamples, 0, frameStart*2, 1, NoSearchLimit)
	require.True(t, ok)
	assert.Equal(t, frameStart, start)
	assert.Greater(t, confidence, 0.0)

	data := frameDataBits(bits, plan.DataBits)
	assert.Equal(t, uint32(0b01001000), data)
}

func TestFindFrameRejectsBadFraming(t *testing.T) {
	plan, err := NewPlan(48000, 1270, 1070, 200, 8)
	require.NoError(t, err)

	nsamplesPerBit := float64(plan.SampleRate) / 300
	frameNSamples := int(math.Round(nsamplesPerBit * float64(plan.FrameBits)))
	buf := sineWave(frameNSamples+plan.FFTSize, plan.SampleRate, plan.spaceHz()) // all-space: prev_stop never 1

	_, _, _, ok := findFrame(plan, buf, frameNSamples, 0, frameNSamples, 1, NoSearchLimit)
	assert.False(t, ok)
}

func TestFindFrameEarlyExitOnSearchLimit(t *testing.T) {
	plan, err := NewPlan(48000, 1270, 1070, 200, 8)
	require.NoError(t, err)

	buf, nsamplesPerBit, frameStart := synthesizeFrame(t, plan, 300, 0xAA, 8)
	frameNSamples := int(math.Round(nsamplesPerBit * float64(plan.FrameBits)))

	_, confidence, start, ok := findFrame(plan, buf, frameNSamples, 0, frameStart*2, 1, 0.01)
	require.True(t, ok)
	// The 0.01 limit is met by the first candidate that passes framing:
	// the first one whose prev_stop window fits in buf (starting at
	// sample 0), half a bit ahead of the true frame start.
	assert.Equal(t, frameStart-int(math.Round(nsamplesPerBit/2)), start)
	assert.GreaterOrEqual(t, confidence, 0.01)
}

func TestFrameDataBitsMasksCorrectly(t *testing.T) {
	var bits uint32 = 1 | 0<<1 | 0b10110101<<2 | 1<<10
	assert.Equal(t, uint32(0b10110101), frameDataBits(bits, 8))
}
