package device

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Initialize prepares the PortAudio runtime. Call once at process start,
// before opening any stream.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio initialize failed: %w", err)
	}
	return nil
}

// Terminate releases the PortAudio runtime. Call once at process exit.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("portaudio terminate failed: %w", err)
	}
	return nil
}

// CaptureStream reads mono 16-bit frames from the default input device.
type CaptureStream struct {
	stream *portaudio.Stream
	buf    []int16
}

// OpenCapture opens the default input device at the given rate with a
// fixed frame length. Every Read returns exactly frameLength samples.
func OpenCapture(sampleRate, frameLength int) (*CaptureStream, error) {
	buf := make([]int16, frameLength)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), frameLength, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start capture stream: %w", err)
	}

	return &CaptureStream{stream: stream, buf: buf}, nil
}

// Read blocks until one full frame has been captured and returns a copy
// of it. Overflow and other transient stream errors surface as errors
// for the caller to substitute silence.
func (c *CaptureStream) Read(n int) ([]int16, error) {
	if n != len(c.buf) {
		return nil, fmt.Errorf("capture frame length is fixed at %d samples, requested %d", len(c.buf), n)
	}

	if err := c.stream.Read(); err != nil {
		return nil, fmt.Errorf("capture read failed: %w", err)
	}

	out := make([]int16, n)
	copy(out, c.buf)
	return out, nil
}

// Close stops and closes the capture stream.
func (c *CaptureStream) Close() error {
	if err := c.stream.Stop(); err != nil {
		c.stream.Close()
		return fmt.Errorf("failed to stop capture stream: %w", err)
	}
	return c.stream.Close()
}

// PlaybackStream writes mono 16-bit samples to the default output device.
type PlaybackStream struct {
	stream *portaudio.Stream
	buf    []int16
}

// OpenPlayback opens the default output device at the given rate. The
// block length only sets the hardware buffer granularity; Write accepts
// sample slices of any length.
func OpenPlayback(sampleRate, blockLength int) (*PlaybackStream, error) {
	buf := make([]int16, blockLength)

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), blockLength, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to open playback stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start playback stream: %w", err)
	}

	return &PlaybackStream{stream: stream, buf: buf}, nil
}

// Write renders the samples, splitting them over the hardware block
// size. The final partial block is zero-padded; for a steady stream of
// equal-length frames sized to the block length no padding occurs.
func (p *PlaybackStream) Write(samples []int16) error {
	for off := 0; off < len(samples); off += len(p.buf) {
		n := copy(p.buf, samples[off:])
		for i := n; i < len(p.buf); i++ {
			p.buf[i] = 0
		}
		if err := p.stream.Write(); err != nil {
			return fmt.Errorf("playback write failed: %w", err)
		}
	}
	return nil
}

// Close stops and closes the playback stream.
func (p *PlaybackStream) Close() error {
	if err := p.stream.Stop(); err != nil {
		p.stream.Close()
		return fmt.Errorf("failed to stop playback stream: %w", err)
	}
	return p.stream.Close()
}
