package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Receive Loop.  Owns the sliding sample buffer, drives
 *		carrier acquisition, advances the buffer by the decoded
 *		frame's length (slightly under-advancing to track fast
 *		signals), accumulates statistics, and emits NOCARRIER
 *		reports.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// ReceiveConfig is the immutable, resolved set of parameters the receive
// loop needs beyond the FSK plan itself.
type ReceiveConfig struct {
	Baud                float64
	ConfidenceThreshold float64 // default 2.0
	SearchLimit         float64 // default 2.3; NoSearchLimit to disable early exit
	AutoCarrier         bool
	AutoCarrierThresh   float64 // default 0.001
	Quiet               bool
}

// ReceiveLoop is the main state machine described in spec.md §4.4.
type ReceiveLoop struct {
	plan  *Plan
	cfg   ReceiveConfig
	codec Codec
	buf   *sampleBuffer
	state *carrierState

	nsamplesPerBit   float64
	nsamplesOverscan int
	frameNSamples    int

	advance int // pending shift for the next iteration

	reporter func(Report)
	logger   *log.Logger
}

// NewReceiveLoop builds a loop ready to call Run.  codec must already be
// configured for plan.DataBits.  logger may be nil to disable debug
// logging of internal decisions (auto-carrier rebinds).
func NewReceiveLoop(plan *Plan, cfg ReceiveConfig, codec Codec, reporter func(Report), logger *log.Logger) *ReceiveLoop {
	nsamplesPerBit := float64(plan.SampleRate) / cfg.Baud
	overscan := int(math.Round(nsamplesPerBit * 0.5))
	if overscan < 1 {
		overscan = 1
	}
	frameNSamples := int(math.Round(nsamplesPerBit * float64(plan.FrameBits)))

	capacity := int(math.Ceil(nsamplesPerBit)) * (plan.FrameBits + 2)

	return &ReceiveLoop{
		plan:             plan,
		cfg:              cfg,
		codec:            codec,
		buf:              newSampleBuffer(capacity),
		state:            newCarrierState(),
		nsamplesPerBit:   nsamplesPerBit,
		nsamplesOverscan: overscan,
		frameNSamples:    frameNSamples,
		reporter:         reporter,
		logger:           logger,
	}
}

// Report is a CARRIER/NOCARRIER diagnostic event (spec.md §4.4's stderr
// side channel).
type Report struct {
	Carrier    bool // true = CARRIER, false = NOCARRIER
	NData      uint32
	Confidence float64
	Throughput float64 // bits per second
}

// Run drains src to EOF, calling emit for every decoded output byte.
// Returns nil on clean EOF, or the first fatal I/O error encountered.
func (r *ReceiveLoop) Run(src AudioStream, emit func(byte)) error {
	for {
		if !r.buf.advanceBy(r.advance) {
			r.finish() // underflow => treat as EOF per spec.md §4.4 step 1
			return nil
		}
		r.advance = 0

		_, err := r.buf.fill(src)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if err != nil && r.buf.nValid < r.frameNSamples {
			r.finish()
			return nil
		}

		if r.cfg.AutoCarrier && !r.state.hasCarrierBand {
			if r.autoDetectCarrier() {
				continue
			}
		}

		firstSample := r.nsamplesOverscan
		searchLimit := r.cfg.SearchLimit
		if !r.state.acquired {
			firstSample = 0
			searchLimit = NoSearchLimit
		}

		tryMax := int(r.nsamplesPerBit) + r.nsamplesOverscan
		tryStep := int(r.nsamplesPerBit) / 10
		if tryStep < 1 {
			tryStep = 1
		}

		bits, confidence, startSample, ok := findFrame(r.plan, r.buf.valid(), r.frameNSamples, firstSample, tryMax, tryStep, searchLimit)

		if !ok || confidence <= r.cfg.ConfidenceThreshold {
			if r.state.lowConfidence() {
				r.emitNocarrier()
				r.state.reset()
			}
			r.advance = tryMax
			continue
		}

		r.acceptFrame(bits, confidence, startSample)
		r.advance = startSample + r.frameNSamples - r.nsamplesOverscan

		data := frameDataBits(bits, r.plan.DataBits)
		for _, b := range r.codec.Decode(data) {
			emit(b)
		}

		if err != nil { // EOF observed this iteration but enough was buffered to decode one more frame
			r.finish()
			return nil
		}
	}
}

func (r *ReceiveLoop) acceptFrame(_ uint32, confidence float64, startSample int) {
	nsamples := uint64(r.nsamplesPerBit * float64(r.plan.FrameBits))
	if r.state.acquired {
		nsamples = uint64(int64(nsamples) + int64(startSample-r.nsamplesOverscan))
	} else {
		r.state.acquire(r.plan.BMark())
		r.codec.Reset()
		r.emitCarrier()
	}
	r.state.acceptFrame(confidence, nsamples)
}

func (r *ReceiveLoop) finish() {
	if r.state.acquired {
		r.emitNocarrier()
	}
}

// autoDetectCarrier runs DetectCarrier on the first FFTSize samples of
// the buffer, looking for a strong single band per spec.md §4.4 step 3;
// on a miss it advances the buffer by min(nsamples_per_bit, N) so the
// next iteration looks further on.  On a hit the detected band becomes
// b_mark and space is bound b_shift bands from it, b_shift being derived
// from the configured mark-space spacing.  Returns true if the caller
// should restart the iteration (either a band was bound, or this window
// gave no usable hit and is skipped).
func (r *ReceiveLoop) autoDetectCarrier() bool {
	windowSize := int(r.nsamplesPerBit)
	if r.plan.FFTSize < windowSize {
		windowSize = r.plan.FFTSize
	}
	if windowSize <= 0 || windowSize > r.buf.nValid {
		return false
	}

	// Only the Plan's own FFTSize is meaningful for DetectCarrier (it
	// needs exactly FFTSize samples); a narrower scan window still
	// advances the search in nsamples_per_bit-sized steps.
	if r.plan.FFTSize > r.buf.nValid {
		return false
	}

	bin, found := r.plan.DetectCarrier(r.buf.valid()[:r.plan.FFTSize], r.cfg.AutoCarrierThresh)
	if !found {
		r.advance = windowSize
		return true
	}

	detectedHz := r.plan.binHz(bin)
	newMark := int(math.Round(detectedHz / r.plan.BandWidth))
	autodetectShift := r.plan.markHz() - r.plan.spaceHz()
	bShift := int(-(autodetectShift + r.plan.BandWidth/2) / r.plan.BandWidth)

	if newMark+bShift < 1 {
		r.advance = windowSize
		return true
	}

	r.plan.SetTonesByBandshift(newMark, bShift)
	r.state.hasCarrierBand = true
	if r.logger != nil {
		r.logger.Debug("auto-carrier rebind", "bin", bin, "detected_hz", detectedHz, "b_mark", newMark)
	}
	return true
}

func (r *ReceiveLoop) emitCarrier() {
	if r.cfg.Quiet || r.reporter == nil {
		return
	}
	r.reporter(Report{Carrier: true})
}

func (r *ReceiveLoop) emitNocarrier() {
	if r.cfg.Quiet || r.reporter == nil {
		return
	}
	r.reporter(Report{
		Carrier:    false,
		NData:      r.state.nframesDecoded,
		Confidence: r.state.meanConfidence(),
		Throughput: r.throughput(),
	})
}

func (r *ReceiveLoop) throughput() float64 {
	if r.state.carrierNSamples == 0 {
		return 0
	}
	bitsSent := float64(r.state.nframesDecoded) * float64(r.plan.FrameBits)
	seconds := float64(r.state.carrierNSamples) / float64(r.plan.SampleRate)
	return bitsSent / seconds
}
