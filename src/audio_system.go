package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	System default sound card backend via PortAudio, in
 *		blocking mode so it fits spec.md §5's single-threaded
 *		model: no callbacks, no goroutines, no shared mutable
 *		state across threads.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// systemFramesPerBuffer is the chunk size PortAudio fills or drains on
// each blocking Stream.Read/Stream.Write call.
const systemFramesPerBuffer = 1024

// SystemBackend opens the host's default PortAudio device.
type SystemBackend struct{}

func NewSystemBackend() *SystemBackend { return &SystemBackend{} }

func (SystemBackend) Open(direction Direction, format SampleFormat, rate int, channels int) (AudioStream, error) {
	if format != FormatF32 {
		return nil, fmt.Errorf("rf103: system backend only supports f32 samples")
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("rf103: portaudio init: %w", err)
	}

	s := &systemStream{chunk: make([]float32, systemFramesPerBuffer*channels)}
	var err error
	switch direction {
	case DirectionRecord:
		s.stream, err = portaudio.OpenDefaultStream(channels, 0, float64(rate), systemFramesPerBuffer, s.chunk)
	case DirectionPlayback:
		s.stream, err = portaudio.OpenDefaultStream(0, channels, float64(rate), systemFramesPerBuffer, s.chunk)
	}
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("rf103: portaudio open: %w", err)
	}
	if err := s.stream.Start(); err != nil {
		_ = s.stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("rf103: portaudio start: %w", err)
	}
	return s, nil
}

// systemStream calls PortAudio's blocking Stream.Read/Stream.Write
// directly from whichever goroutine the receive/transmit loop runs on --
// no callback buffering, no mutex, nothing for another thread to race
// with. chunk is the single buffer PortAudio was opened against;
// pending holds a chunk-sized read not yet fully consumed by the
// caller, and queued holds writes not yet large enough to flush.
type systemStream struct {
	stream  *portaudio.Stream
	chunk   []float32
	pending []float32
	queued  []float32
}

func (s *systemStream) Read(buf []float32) (int, error) {
	if len(s.pending) == 0 {
		if err := s.stream.Read(); err != nil {
			return 0, fmt.Errorf("rf103: portaudio read: %w", err)
		}
		s.pending = append(s.pending[:0], s.chunk...)
	}
	n := copy(buf, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *systemStream) Write(samples []float32) error {
	s.queued = append(s.queued, samples...)
	for len(s.queued) >= len(s.chunk) {
		copy(s.chunk, s.queued[:len(s.chunk)])
		s.queued = s.queued[len(s.chunk):]
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("rf103: portaudio write: %w", err)
		}
	}
	return nil
}

func (s *systemStream) Close() error {
	if len(s.queued) > 0 {
		n := copy(s.chunk, s.queued)
		for i := n; i < len(s.chunk); i++ {
			s.chunk[i] = 0
		}
		_ = s.stream.Write()
		s.queued = nil
	}
	err := s.stream.Close()
	_ = portaudio.Terminate()
	return err
}
