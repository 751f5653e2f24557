package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	CARRIER/NOCARRIER stderr reporting, plus structured debug
 *		logging for the engine's internal decisions (auto-carrier
 *		rebinding).
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Printer renders Report values to a stream in the exact line format
// spec.md §4.4 specifies, optionally prefixed with a timestamp.
type Printer struct {
	out         io.Writer
	baud        float64
	timestamper *strftime.Strftime
}

// NewPrinter builds a Printer.  If withTimestamp is true, each line is
// prefixed with a "%H:%M:%S " timestamp (strftime-formatted, following
// the teacher's timestamped-beacon convention).
func NewPrinter(out io.Writer, baud float64, withTimestamp bool) (*Printer, error) {
	p := &Printer{out: out, baud: baud}
	if withTimestamp {
		f, err := strftime.New("%H:%M:%S ")
		if err != nil {
			return nil, err
		}
		p.timestamper = f
	}
	return p, nil
}

// Print writes one CARRIER or NOCARRIER line.
func (p *Printer) Print(r Report) {
	if p.timestamper != nil {
		p.timestamper.Format(p.out, time.Now())
	}
	if r.Carrier {
		fmt.Fprintln(p.out, "### CARRIER")
		return
	}

	skew := classifyThroughput(r.Throughput, p.baud)
	fmt.Fprintf(p.out, "### NOCARRIER ndata=%d confidence=%.3f throughput=%.1f %s\n",
		r.NData, r.Confidence, r.Throughput, skew)
}

// classifyThroughput renders the trailing "(rate perfect)" / "(P.P%
// slow)" / "(P.P% fast)" annotation.
func classifyThroughput(measured, configured float64) string {
	if configured == 0 {
		return "(rate perfect)"
	}
	diffPct := (measured - configured) / configured * 100
	if math.Abs(diffPct) < 0.05 {
		return "(rate perfect)"
	}
	if diffPct < 0 {
		return fmt.Sprintf("(%.1f%% slow)", -diffPct)
	}
	return fmt.Sprintf("(%.1f%% fast)", diffPct)
}

// NewDebugLogger builds the engine's structured debug logger, used for
// internal decisions that are not part of the CARRIER/NOCARRIER
// contract (auto-carrier rebinds).  Silent unless the
// caller enables debug level.
func NewDebugLogger(out io.Writer) *log.Logger {
	return log.NewWithOptions(out, log.Options{
		Prefix: "rf103",
		Level:  log.WarnLevel,
	})
}
