package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Transmit path.  Encodes a byte stream into framed FSK
 *		tones: leader, one frame per codec output word, trailer,
 *		and an idle flush timer standing in for the source's
 *		signal-driven behavior.
 *
 *---------------------------------------------------------------*/

import "math"

// defaultSineLUTSize is the default sine lookup table length; --lut 0 disables
// the LUT in favor of a direct math.Sin call per sample.
const defaultSineLUTSize = 4096

// TransmitConfig bundles the parameters the transmit loop needs beyond
// the FSK plan.
type TransmitConfig struct {
	Baud        float64
	StopBits    float64 // fractional stop bits, default 1.0
	LeaderBits  int     // leading mark-tone bits before the first frame
	TrailerBits int     // trailing mark-tone bits after the last frame
	LUTSize     int     // 0 disables the lookup table
}

// TransmitLoop synthesizes tones for a byte stream using codec to split
// bytes into DataBits-wide frame words.
type TransmitLoop struct {
	plan  *Plan
	cfg   TransmitConfig
	codec Codec

	phase float64 // radians, carried across calls so tones splice cleanly
	lut   []float32
}

// NewTransmitLoop builds a loop ready to call Send.
func NewTransmitLoop(plan *Plan, cfg TransmitConfig, codec Codec) *TransmitLoop {
	t := &TransmitLoop{plan: plan, cfg: cfg, codec: codec}
	if cfg.LUTSize > 0 {
		t.lut = buildSineLUT(cfg.LUTSize)
	}
	return t
}

func buildSineLUT(n int) []float32 {
	lut := make([]float32, n)
	for i := range lut {
		lut[i] = float32(math.Sin(2 * math.Pi * float64(i) / float64(n)))
	}
	return lut
}

// Send drains bytes one at a time via next until next reports done=true,
// writing a leader, one frame per encoded word, and a trailer to dst.
// next returns ok=false to signal no more bytes are currently available
// without ending the session (the caller's idle timer decides whether to
// flush a trailer); it returns done=true to end the session outright.
func (t *TransmitLoop) Send(dst AudioStream, next func() (b byte, ok bool, done bool)) error {
	if err := t.writeTone(dst, t.plan.markHz(), float64(t.cfg.LeaderBits)); err != nil {
		return err
	}

	for {
		b, ok, done := next()
		if done {
			break
		}
		if !ok {
			continue
		}
		for _, word := range t.codec.Encode(b) {
			if err := t.writeFrame(dst, word); err != nil {
				return err
			}
		}
	}

	return t.writeTone(dst, t.plan.markHz(), float64(t.cfg.TrailerBits))
}

// Flush emits exactly one idle-timer trailer: TrailerBits of mark tone.
// Called by the caller's cooperative idle timer (see IdleTimer) instead
// of the source's signal-driven flush.
func (t *TransmitLoop) Flush(dst AudioStream) error {
	return t.writeTone(dst, t.plan.markHz(), float64(t.cfg.TrailerBits))
}

// writeFrame emits one full frame: start bit (space), DataBits data bits
// (LSB first), and StopBits of mark tone.
func (t *TransmitLoop) writeFrame(dst AudioStream, word uint32) error {
	if err := t.writeTone(dst, t.plan.spaceHz(), 1); err != nil {
		return err
	}
	for i := 0; i < t.plan.DataBits; i++ {
		hz := t.plan.markHz()
		if word&(1<<uint(i)) == 0 {
			hz = t.plan.spaceHz()
		}
		if err := t.writeTone(dst, hz, 1); err != nil {
			return err
		}
	}
	return t.writeTone(dst, t.plan.markHz(), t.cfg.StopBits)
}

// writeTone synthesizes nbits bits' worth of a single tone at hz
// (nbits may be fractional, e.g. 1.5 stop bits for RTTY per spec.md
// §4.6), preserving t.phase across calls so adjacent tones splice
// without a discontinuity.
func (t *TransmitLoop) writeTone(dst AudioStream, hz float64, nbits float64) error {
	if nbits <= 0 {
		return nil
	}
	nsamplesPerBit := float64(t.plan.SampleRate) / t.cfg.Baud
	total := int(math.Round(nsamplesPerBit * nbits))
	samples := make([]float32, total)

	step := 2 * math.Pi * hz / float64(t.plan.SampleRate)
	for i := range samples {
		samples[i] = t.sample(t.phase)
		t.phase += step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	return dst.Write(samples)
}

func (t *TransmitLoop) sample(phase float64) float32 {
	if t.lut == nil {
		return float32(math.Sin(phase))
	}
	idx := int(phase / (2 * math.Pi) * float64(len(t.lut)))
	idx %= len(t.lut)
	if idx < 0 {
		idx += len(t.lut)
	}
	return t.lut[idx]
}
