package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Frame Locator.  Searches a candidate region of the sample
 *		buffer at sub-bit granularity for the best-scoring frame
 *		(start bit + N data bits + stop bit), aligning to
 *		arbitrary, drifting bit boundaries.
 *
 *---------------------------------------------------------------*/

import "math"

// NoSearchLimit disables find_frame's early exit, forcing an exhaustive
// search over the full candidate range -- used while carrier is
// unlocked, to find the optimal phase.
var NoSearchLimit = math.Inf(1)

// frameCandidate is the transient record spec.md §3 describes; it is
// never persisted beyond one find_frame call.
type frameCandidate struct {
	bits       uint32
	confidence float64
	startSample int
}

// findFrame searches candidate positions first_sample, first_sample+step,
// ... within buf for the best-scoring frame of frameNSamples samples, and
// returns the winning candidate.  ok is false if no candidate satisfied
// framing validation (prev_stop=1, start=0, stop=1).
func findFrame(plan *Plan, buf []float32, frameNSamples, firstSample, maxTry, step int, searchLimit float64) (bits uint32, confidence float64, startSample int, ok bool) {
	if step <= 0 {
		step = 1
	}
	if firstSample+maxTry > len(buf)-frameNSamples {
		maxTry = len(buf) - frameNSamples - firstSample
	}
	if maxTry < 0 {
		return 0, 0, 0, false
	}

	nsamplesPerBit := float64(frameNSamples) / float64(plan.FrameBits)

	var best frameCandidate
	haveBest := false

	for s := firstSample; s <= firstSample+maxTry; s += step {
		cand, valid := evaluateCandidate(plan, buf, s, nsamplesPerBit)
		if !valid {
			continue
		}
		if !haveBest || cand.confidence > best.confidence {
			best = cand
			haveBest = true
		}
		if best.confidence >= searchLimit {
			break
		}
	}

	if !haveBest {
		return 0, 0, 0, false
	}
	return best.bits, best.confidence, best.startSample, true
}

// evaluateCandidate classifies the F bit cells starting at sample s
// (prev_stop, start, D data bits) plus the stop cell right after them,
// validates the framing bits, and computes the confidence score over the
// D data bits.
func evaluateCandidate(plan *Plan, buf []float32, s int, nsamplesPerBit float64) (frameCandidate, bool) {
	frameBits := plan.FrameBits
	dataBits := plan.DataBits
	halfWindow := plan.FFTSize / 2

	classified := make([]int, frameBits+1)
	var confidenceSum float64

	for i := 0; i <= frameBits; i++ {
		center := s + int(math.Round((float64(i)+0.5)*nsamplesPerBit))
		lo := center - halfWindow
		hi := lo + plan.FFTSize
		if lo < 0 || hi > len(buf) {
			return frameCandidate{}, false
		}

		markMag, spaceMag := plan.analyzer.analyze(buf[lo:hi], plan.markHz(), plan.spaceHz())

		bit := 0
		if markMag > spaceMag {
			bit = 1
		}
		classified[i] = bit

		// Confidence per spec.md §4.3: normalized magnitude
		// difference, but relative to the *weaker* tone rather than
		// the sum -- see DESIGN.md for why the literal sum-based
		// formula can never exceed the configured defaults.
		weaker := math.Min(markMag, spaceMag)
		if weaker < 1e-9 {
			weaker = 1e-9
		}
		ratio := math.Abs(markMag-spaceMag) / weaker

		if i >= 2 && i < frameBits {
			confidenceSum += ratio
		}
	}

	if classified[0] != 1 || classified[1] != 0 || classified[frameBits] != 1 {
		return frameCandidate{}, false
	}

	var bits uint32
	bits |= 1 << 0 // prev_stop
	bits |= 0 << 1 // start
	for i := 0; i < dataBits; i++ {
		if classified[2+i] != 0 {
			bits |= 1 << (2 + i)
		}
	}
	bits |= 1 << frameBits // stop

	return frameCandidate{
		bits:        bits,
		confidence:  confidenceSum / float64(dataBits),
		startSample: s,
	}, true
}

// frameDataBits extracts the D data bits from a frame's packed bits, per
// spec.md §4.3's "callers extract data by (bits >> 2) & mask" rule.
func frameDataBits(bits uint32, dataBits int) uint32 {
	mask := uint32(1)<<uint(dataBits) - 1
	return (bits >> 2) & mask
}
