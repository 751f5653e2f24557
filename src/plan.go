package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	The FSK Plan: an immutable (except for one controlled
 *		rebind) set of parameters binding sample rate, mark/space
 *		frequencies, data bit width, and DFT size for one session.
 *
 *---------------------------------------------------------------*/

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is constructed once per session via NewPlan.  bMark/bSpace may be
// rebound exactly once, before any committed find_frame result, via
// SetTonesByBandshift (auto-carrier mode).
type Plan struct {
	SampleRate int
	BandWidth  float64 // W, Hz
	bMark      int
	bSpace     int
	DataBits   int // D, 5 or 8
	FrameBits  int // F = D + 2
	FFTSize    int // N, smallest power of two >= SampleRate/BandWidth

	analyzer ToneAnalyzer
	fft      *fourier.FFT
}

// NewPlan rounds markHz/spaceHz to the nearest multiple of bandWidth to
// obtain the band indices, and picks fftSize so that SampleRate/fftSize
// approximates bandWidth.  Fails per spec.md §4.2's construction rules.
func NewPlan(sampleRate int, markHz, spaceHz, bandWidth float64, dataBits int) (*Plan, error) {
	if dataBits != 5 && dataBits != 8 {
		return nil, ErrBadDataBits
	}

	bMark := int(math.Round(markHz / bandWidth))
	bSpace := int(math.Round(spaceHz / bandWidth))
	if bMark == bSpace {
		return nil, ErrBadBandShift
	}

	nyquist := float64(sampleRate) / 2
	if float64(bMark)*bandWidth > nyquist || float64(bSpace)*bandWidth > nyquist {
		return nil, ErrBandAboveNyquist
	}

	fftSize := nextPow2(int(math.Ceil(float64(sampleRate) / bandWidth)))

	p := &Plan{
		SampleRate: sampleRate,
		BandWidth:  bandWidth,
		bMark:      bMark,
		bSpace:     bSpace,
		DataBits:   dataBits,
		FrameBits:  dataBits + 2,
		FFTSize:    fftSize,
		analyzer:   newToneAnalyzer(sampleRate, fftSize),
		fft:        fourier.NewFFT(fftSize),
	}
	return p, nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// BMark and BSpace are the currently bound band indices.
func (p *Plan) BMark() int  { return p.bMark }
func (p *Plan) BSpace() int { return p.bSpace }

func (p *Plan) markHz() float64  { return float64(p.bMark) * p.BandWidth }
func (p *Plan) spaceHz() float64 { return float64(p.bSpace) * p.BandWidth }

// SetTonesByBandshift rebinds mark to bMark and space to bMark+bShift.
// Per spec.md §4.2 this is only valid before any find_frame result whose
// bits have been committed downstream (the receive loop only calls this
// while still searching for carrier, never after acquisition).
func (p *Plan) SetTonesByBandshift(bMark, bShift int) {
	p.bMark = bMark
	p.bSpace = bMark + bShift
}

// DetectCarrier performs a full-spectrum DFT over exactly FFTSize
// samples and returns the FFT bin index of the single strongest bin
// whose magnitude exceeds threshold*meanMagnitude, or (0, false) if none
// qualifies.  Note this operates on the FFT's own R/N bin grid, which is
// only approximately aligned to the BandWidth-spaced band grid used
// elsewhere -- callers reconcile the two (see ReceiveLoop's auto-carrier
// step).
func (p *Plan) DetectCarrier(samples []float32, threshold float64) (int, bool) {
	if len(samples) != p.FFTSize {
		return 0, false
	}
	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s)
	}
	coeffs := p.fft.Coefficients(nil, in)

	mags := make([]float64, len(coeffs))
	var sum float64
	for i, c := range coeffs {
		m := math.Hypot(real(c), imag(c))
		mags[i] = m
		sum += m
	}
	mean := sum / float64(len(mags))

	bestBin := -1
	bestMag := 0.0
	for i, m := range mags {
		if m > threshold*mean && m > bestMag {
			bestMag = m
			bestBin = i
		}
	}
	if bestBin < 0 {
		return 0, false
	}
	return bestBin, true
}

// binHz converts an FFT bin index (from DetectCarrier) into its center
// frequency.
func (p *Plan) binHz(bin int) float64 {
	return float64(bin) * float64(p.SampleRate) / float64(p.FFTSize)
}
