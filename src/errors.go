package rf103

import "errors"

// Error kinds per spec.md §7.  All are fatal to the current session;
// there is no retry path beyond the NOCARRIER carrier-state reset.
var (
	ErrBadBandShift    = errors.New("rf103: b_mark and b_space must differ")
	ErrBandAboveNyquist = errors.New("rf103: band center above Nyquist")
	ErrBadDataBits     = errors.New("rf103: n_data_bits must be 5 or 8")
	ErrModeConflict    = errors.New("rf103: -t/--tx and -r/--rx are mutually exclusive")
	ErrMissingBaudmode = errors.New("rf103: baudmode argument is required")
	ErrZeroBaudmode    = errors.New("rf103: baudmode must not be zero")
	ErrUnsupportedBackend = errors.New("rf103: unsupported audio backend")
)
