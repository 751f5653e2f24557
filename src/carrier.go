package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Carrier acquisition / loss-of-carrier state machine.
 *
 *---------------------------------------------------------------*/

// MaxNoconfidenceBits is the number of consecutive low-confidence
// attempts that resets an acquired carrier (spec.md §3).
const MaxNoconfidenceBits = 20

type carrierState struct {
	acquired         bool
	carrierBand      int
	hasCarrierBand   bool
	carrierNSamples  uint64
	confidenceTotal  float64
	nframesDecoded   uint32
	noconfidenceRun  uint32
}

func newCarrierState() *carrierState {
	return &carrierState{}
}

// acquire transitions to the acquired state on the first high-confidence
// frame, resetting accumulated statistics.
func (c *carrierState) acquire(band int) {
	c.acquired = true
	c.carrierBand = band
	c.hasCarrierBand = true
	c.carrierNSamples = 0
	c.confidenceTotal = 0
	c.nframesDecoded = 0
	c.noconfidenceRun = 0
}

// acceptFrame records statistics for one successfully decoded frame.
func (c *carrierState) acceptFrame(confidence float64, nsamples uint64) {
	c.carrierNSamples += nsamples
	c.confidenceTotal += confidence
	c.nframesDecoded++
	c.noconfidenceRun = 0
}

// lowConfidence records one failed attempt and reports whether the
// MaxNoconfidenceBits streak has been reached while a carrier was
// acquired (i.e. whether a NOCARRIER report is due).
func (c *carrierState) lowConfidence() bool {
	c.noconfidenceRun++
	return c.acquired && c.noconfidenceRun >= MaxNoconfidenceBits
}

// reset clears the carrier state back to "unacquired", per the invariant
// acquired=false => confidence_total=0 && carrier_nsamples=0.
func (c *carrierState) reset() {
	*c = carrierState{}
}

func (c *carrierState) meanConfidence() float64 {
	if c.nframesDecoded == 0 {
		return 0
	}
	return c.confidenceTotal / float64(c.nframesDecoded)
}
