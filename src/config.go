package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Command-line configuration.  Parses flags with pflag,
 *		resolves the positional baudmode argument against the
 *		named profile table, and fills in rate-dependent defaults.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// Config is the fully resolved set of parameters driving one session,
// built by ParseArgs from argv plus the baud-rate profile table.
type Config struct {
	Transmit bool

	Baud      float64
	MarkHz    float64
	SpaceHz   float64
	Bandwidth float64
	DataBits  int
	StopBits  float64

	Confidence   float64
	SearchLimit  float64
	AutoCarrier  bool
	AutoCarrierThresh float64

	FilePath     string
	SampleRate   int
	FloatSamples bool

	LUTSize int
	Quiet   bool
	Timestamp bool

	Version    bool
	Benchmarks bool
}

// defaultAutoCarrierThreshold is spec.md §6's fixed auto-carrier
// sensitivity; it is not exposed as a flag.
const defaultAutoCarrierThreshold = 0.001

// ParseArgs builds a Config from argv (excluding argv[0]).  profiles
// supplies named baudmode lookups (rtty, bell103, bell202, v21); pass
// LoadProfiles()'s result in normal operation.
func ParseArgs(argv []string, profiles ProfileTable) (*Config, error) {
	fs := pflag.NewFlagSet("rf103", pflag.ContinueOnError)

	tx := fs.BoolP("tx", "t", false, "transmit mode")
	rx := fs.BoolP("rx", "r", false, "receive mode")
	confidence := fs.Float64P("confidence", "c", 2.0, "minimum confidence to accept a frame")
	limit := fs.Float64P("limit", "l", 2.3, "early-exit confidence in frame search")
	auto := fs.BoolP("auto-carrier", "a", false, "enable carrier-band auto-detection")
	ascii := fs.BoolP("ascii", "8", false, "use 8-bit ASCII framing")
	baudot := fs.BoolP("baudot", "5", false, "use 5-bit Baudot framing")
	file := fs.StringP("file", "f", "", "read/write audio from/to this file instead of the system device")
	bandwidth := fs.Float64P("bandwidth", "b", 0, "receive DFT bin width in Hz (0 = rate-dependent default)")
	mark := fs.Float64P("mark", "M", 0, "mark tone frequency override (Hz)")
	space := fs.Float64P("space", "S", 0, "space tone frequency override (Hz)")
	stopbits := fs.Float64P("txstopbits", "T", 0, "transmit stop-bit length (0 = profile default)")
	quiet := fs.BoolP("quiet", "q", false, "suppress CARRIER/NOCARRIER lines")
	samplerate := fs.IntP("samplerate", "R", 48000, "audio sample rate")
	lut := fs.Int("lut", defaultSineLUTSize, "sine lookup table length (0 disables the LUT)")
	floatSamples := fs.Bool("float-samples", false, "request f32 samples on the transmit sink")
	timestamp := fs.Bool("timestamp", false, "prefix CARRIER/NOCARRIER lines with a timestamp")
	version := fs.BoolP("version", "V", false, "print version and exit")
	benchmarks := fs.Bool("benchmarks", false, "use the in-memory benchmark backend instead of --file/system audio")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	cfg := &Config{
		Confidence:        *confidence,
		SearchLimit:       *limit,
		AutoCarrier:       *auto,
		AutoCarrierThresh: defaultAutoCarrierThreshold,
		FilePath:          *file,
		SampleRate:        *samplerate,
		FloatSamples:      *floatSamples,
		LUTSize:           *lut,
		Quiet:             *quiet,
		Timestamp:         *timestamp,
		Version:           *version,
		Benchmarks:        *benchmarks,
	}

	if *version {
		return cfg, nil
	}

	if *tx && *rx {
		return nil, ErrModeConflict
	}
	cfg.Transmit = *tx

	args := fs.Args()
	if len(args) < 1 {
		return nil, ErrMissingBaudmode
	}

	profile, err := resolveBaudmode(args[0], profiles)
	if err != nil {
		return nil, err
	}

	cfg.Baud = profile.Baud
	cfg.MarkHz = profile.MarkHz
	cfg.SpaceHz = profile.SpaceHz
	cfg.StopBits = profile.StopBits
	cfg.DataBits = profile.DataBits

	switch {
	case *ascii:
		cfg.DataBits = 8
	case *baudot:
		cfg.DataBits = 5
	}
	if *mark != 0 {
		cfg.MarkHz = *mark
	}
	if *space != 0 {
		cfg.SpaceHz = *space
	}
	if *stopbits != 0 {
		cfg.StopBits = *stopbits
	}

	cfg.Bandwidth = *bandwidth
	if cfg.Bandwidth == 0 {
		cfg.Bandwidth = defaultBandwidth(cfg.Baud)
	}
	if cfg.Bandwidth > cfg.Baud {
		cfg.Bandwidth = cfg.Baud
	}

	return cfg, nil
}

// resolveBaudmode interprets the positional baudmode argument: either a
// named profile (rtty, bell103, ...) or a bare numeric bps, which is
// expanded into a synthetic profile via rate-band defaults.
func resolveBaudmode(arg string, profiles ProfileTable) (Profile, error) {
	if p, ok := profiles[arg]; ok {
		return p, nil
	}

	bps, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return Profile{}, fmt.Errorf("rf103: unrecognized baudmode %q", arg)
	}
	if bps == 0 {
		return Profile{}, ErrZeroBaudmode
	}

	return profileFromRate(bps), nil
}

// profileFromRate synthesizes a profile for a bare numeric bps argument
// per spec.md §6's rate-band frequency defaults.
func profileFromRate(bps float64) Profile {
	p := Profile{Baud: bps, DataBits: 8, StopBits: 1.0}
	// shift is defined as mark - space; space = mark - shift.
	if bps >= 400 {
		p.MarkHz = bps/2 + 600
		shift := -(5.0 / 6.0) * bps
		p.SpaceHz = p.MarkHz - shift
	} else {
		p.MarkHz = 1270
		const shift = 200
		p.SpaceHz = p.MarkHz - shift
	}
	return p
}

// defaultBandwidth implements spec.md §6's receive DFT bin width
// defaults.
func defaultBandwidth(bps float64) float64 {
	switch {
	case bps >= 400:
		return 200
	case bps >= 100:
		return 50
	default:
		return 10
	}
}
