package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Tone Analyzer.  Given a window of samples and a band
 *		center frequency in Hz (band index * band width), returns
 *		that band's magnitude via a single-bin DFT
 *		(the Goertzel algorithm) -- the efficient equivalent of
 *		computing one bin of a full FFT without computing the rest.
 *
 *---------------------------------------------------------------*/

import "math"

// ToneAnalyzer evaluates band magnitudes for a fixed sample rate and
// window size.  It does not normalize: stronger signals yield larger
// magnitudes, and confidence is derived downstream from the ratio of
// two magnitudes (see evaluateCandidate in locator.go).
type ToneAnalyzer struct {
	sampleRate int
	windowSize int
}

func newToneAnalyzer(sampleRate, windowSize int) ToneAnalyzer {
	return ToneAnalyzer{sampleRate: sampleRate, windowSize: windowSize}
}

// goertzelMagnitude returns the magnitude of the DFT bin centered on
// targetHz, computed over exactly len(samples) samples (which must equal
// the analyzer's configured window size).
func (t ToneAnalyzer) goertzelMagnitude(samples []float32, targetHz float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	w := 2 * math.Pi * targetHz / float64(t.sampleRate)
	cosine := math.Cos(w)
	coeff := 2 * cosine

	var s0, s1, s2 float64
	for _, sample := range samples {
		s0 = float64(sample) + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}

	real := s1 - s2*cosine
	imag := s2 * math.Sin(w)
	return math.Hypot(real, imag)
}

// analyze is the two-tone contract from spec.md §4.1: returns (mark
// magnitude, space magnitude) for one frame-bit-cell window.  markHz and
// spaceHz are the band center frequencies (bandIndex * bandWidth).
func (t ToneAnalyzer) analyze(samples []float32, markHz, spaceHz float64) (markMag, spaceMag float64) {
	return t.goertzelMagnitude(samples, markHz), t.goertzelMagnitude(samples, spaceHz)
}
