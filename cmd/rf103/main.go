package main

/*------------------------------------------------------------------
 *
 * Purpose:	Command-line front end for the FSK modem engine: wires
 *		config resolution, the chosen audio backend, and the
 *		receive or transmit loop together.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
	"unicode"

	rf103 "github.com/n1fsk/rf103/src"
)

const version = "rf103 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	profiles := rf103.LoadProfiles()

	cfg, err := rf103.ParseArgs(argv, profiles)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103:", err)
		return 1
	}
	if cfg.Version {
		fmt.Println(version)
		return 0
	}

	backend, err := openBackend(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103:", err)
		return 1
	}

	printer, err := rf103.NewPrinter(os.Stderr, cfg.Baud, cfg.Timestamp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103:", err)
		return 1
	}

	if cfg.Transmit {
		return runTransmit(cfg, backend, os.Stdin)
	}
	return runReceive(cfg, backend, printer)
}

func openBackend(cfg *rf103.Config) (rf103.AudioBackend, error) {
	switch {
	case cfg.Benchmarks:
		return rf103.NewBenchBackend(nil), nil
	case cfg.FilePath != "":
		return rf103.NewFileBackend(cfg.FilePath), nil
	default:
		return rf103.NewSystemBackend(), nil
	}
}

func runReceive(cfg *rf103.Config, backend rf103.AudioBackend, printer *rf103.Printer) int {
	plan, err := rf103.NewPlan(cfg.SampleRate, cfg.MarkHz, cfg.SpaceHz, cfg.Bandwidth, cfg.DataBits)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103:", err)
		return 1
	}

	stream, err := backend.Open(rf103.DirectionRecord, rf103.FormatF32, cfg.SampleRate, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103: audio open:", err)
		return 1
	}
	defer stream.Close()

	codec := newCodec(cfg.DataBits)

	rcfg := rf103.ReceiveConfig{
		Baud:                cfg.Baud,
		ConfidenceThreshold: cfg.Confidence,
		SearchLimit:         cfg.SearchLimit,
		AutoCarrier:         cfg.AutoCarrier,
		AutoCarrierThresh:   cfg.AutoCarrierThresh,
		Quiet:               cfg.Quiet,
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	loop := rf103.NewReceiveLoop(plan, rcfg, codec, printer.Print, rf103.NewDebugLogger(os.Stderr))
	if err := loop.Run(stream, func(b byte) { out.WriteByte(displayByte(b)) }); err != nil {
		fmt.Fprintln(os.Stderr, "rf103: read:", err)
		return 1
	}
	return 0
}

// displayByte replaces non-printable, non-whitespace bytes with '.' for
// stdout display per spec.md §6.
func displayByte(b byte) byte {
	if b == '\n' || b == '\r' || b == '\t' || unicode.IsPrint(rune(b)) {
		return b
	}
	return '.'
}

func runTransmit(cfg *rf103.Config, backend rf103.AudioBackend, stdin io.Reader) int {
	plan, err := rf103.NewPlan(cfg.SampleRate, cfg.MarkHz, cfg.SpaceHz, cfg.Bandwidth, cfg.DataBits)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103:", err)
		return 1
	}

	format := rf103.FormatS16
	if cfg.FloatSamples {
		format = rf103.FormatF32
	}
	stream, err := backend.Open(rf103.DirectionPlayback, format, cfg.SampleRate, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103: audio open:", err)
		return 1
	}
	defer stream.Close()

	codec := newCodec(cfg.DataBits)

	tcfg := rf103.TransmitConfig{
		Baud:        cfg.Baud,
		StopBits:    cfg.StopBits,
		LeaderBits:  2,
		TrailerBits: 2,
		LUTSize:     cfg.LUTSize,
	}
	loop := rf103.NewTransmitLoop(plan, tcfg, codec)

	bytes := readAsync(stdin)
	idle := rf103.NewIdleTimer(time.Duration(float64(time.Second) / cfg.Baud * 1.03))
	ticker := time.NewTicker(idle.CheckInterval())
	defer ticker.Stop()

	var flushErr error
	err = loop.Send(stream, func() (byte, bool, bool) {
		for {
			select {
			case b, ok := <-bytes:
				if !ok {
					return 0, false, true
				}
				idle.Reset()
				return b, true, false
			case <-ticker.C:
				if idle.Expired() {
					if ferr := loop.Flush(stream); ferr != nil {
						flushErr = ferr
						return 0, false, true
					}
					idle.Reset()
				}
			}
		}
	})
	if flushErr != nil {
		fmt.Fprintln(os.Stderr, "rf103: write:", flushErr)
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "rf103: write:", err)
		return 1
	}
	return 0
}

// readAsync streams src's bytes on a channel, closed on EOF or error, so
// the transmit loop's next callback can select between an available
// byte and the idle timer rather than blocking indefinitely in Read.
func readAsync(src io.Reader) <-chan byte {
	out := make(chan byte)
	go func() {
		defer close(out)
		r := bufio.NewReader(src)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			out <- b
		}
	}()
	return out
}

func newCodec(dataBits int) rf103.Codec {
	if dataBits == 5 {
		return rf103.NewBaudotCodec()
	}
	return rf103.NewASCIICodec()
}
