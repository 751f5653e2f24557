package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	File-based audio backend.  Lets receive/transmit run
 *		against a recorded or synthesized WAV file instead of a
 *		sound card, per spec.md §6's "file-based" backend.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// FileBackend opens a single path for either read (decode) or write
// (encode), matching how the CLI's -f/--file flag is used: one file per
// session, one direction.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend { return &FileBackend{Path: path} }

func (f *FileBackend) Open(direction Direction, format SampleFormat, rate int, channels int) (AudioStream, error) {
	if format != FormatF32 && direction == DirectionRecord {
		return nil, fmt.Errorf("rf103: file backend requires f32 samples for receive")
	}
	switch direction {
	case DirectionRecord:
		return newWavReader(f.Path)
	case DirectionPlayback:
		return newWavWriter(f.Path, rate, channels)
	}
	return nil, ErrUnsupportedBackend
}

type wavReader struct {
	file    *os.File
	decoder *wav.Decoder
	buf     *audio.IntBuffer
}

func newWavReader(path string) (*wavReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rf103: open %s: %w", path, err)
	}
	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		_ = file.Close()
		return nil, fmt.Errorf("rf103: %s is not a valid WAV file", path)
	}
	return &wavReader{file: file, decoder: dec}, nil
}

func (r *wavReader) Read(buf []float32) (int, error) {
	if r.buf == nil || len(r.buf.Data) != len(buf) {
		r.buf = &audio.IntBuffer{Data: make([]int, len(buf)), Format: &audio.Format{NumChannels: 1}}
	}
	n, err := r.decoder.PCMBuffer(r.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("rf103: wav read: %w", err)
	}
	bitDepth := r.decoder.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))
	for i := 0; i < n; i++ {
		buf[i] = float32(r.buf.Data[i]) / scale
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *wavReader) Write([]float32) error { return fmt.Errorf("rf103: file reader is not writable") }

func (r *wavReader) Close() error { return r.file.Close() }

type wavWriter struct {
	file    *os.File
	encoder *wav.Encoder
}

func newWavWriter(path string, rate int, channels int) (*wavWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("rf103: create %s: %w", path, err)
	}
	enc := wav.NewEncoder(file, rate, 16, channels, 1)
	return &wavWriter{file: file, encoder: enc}, nil
}

func (w *wavWriter) Read([]float32) (int, error) { return 0, fmt.Errorf("rf103: file writer is not readable") }

func (w *wavWriter) Write(samples []float32) error {
	ints := make([]int, len(samples))
	for i, s := range samples {
		clamped := math.Max(-1, math.Min(1, float64(s)))
		ints[i] = int(clamped * 32767)
	}
	buf := &audio.IntBuffer{Data: ints, Format: &audio.Format{NumChannels: 1, SampleRate: int(w.encoder.SampleRate)}}
	if err := w.encoder.Write(buf); err != nil {
		return fmt.Errorf("rf103: wav write: %w", err)
	}
	return nil
}

func (w *wavWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		return err
	}
	return w.file.Close()
}
