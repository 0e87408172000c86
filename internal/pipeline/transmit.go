package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vlysenko/voicelink/internal/audio"
	"github.com/vlysenko/voicelink/internal/codec"
	"github.com/vlysenko/voicelink/internal/config"
	"github.com/vlysenko/voicelink/internal/device"
	"github.com/vlysenko/voicelink/internal/metrics"
	"github.com/vlysenko/voicelink/internal/protocol"
)

// Sender is the outbound half of the transport as the transmit cycle
// sees it.
type Sender interface {
	Send(chunk []byte) error
}

// Transmitter is the transmit duty cycle: capture, condition, quantize,
// encode, packetize, chunk, send, sleep, forever. One iteration consumes
// exactly one frame and produces exactly one sequenced packet; no two
// iterations overlap.
type Transmitter struct {
	cfg     *config.Config
	capture device.Capture
	sender  Sender
	cond    *audio.Conditioner
	enc     codec.Codec
	hooks   *codec.Chain
	logger  *slog.Logger
	metrics *metrics.Metrics

	// seq is touched only by the cycle goroutine. It increments by
	// exactly one per constructed packet and wraps mod 2^32, regardless
	// of how many chunks the packet split into or whether any send
	// succeeded.
	seq uint32

	mu    sync.RWMutex
	stats TransmitStats
}

// TransmitStats is a point-in-time snapshot of transmit cycle counters.
type TransmitStats struct {
	FramesCaptured   uint64 `json:"frames_captured"`
	CaptureErrors    uint64 `json:"capture_errors"`
	PacketsSent      uint64 `json:"packets_sent"`
	ChunksSent       uint64 `json:"chunks_sent"`
	SendErrors       uint64 `json:"send_errors"`
	SuppressedFrames uint64 `json:"suppressed_frames"`
	LastSequence     uint32 `json:"last_sequence"`
}

// NewTransmitter wires the transmit pipeline against a capture device
// and an outbound transport. The metrics argument may be nil.
func NewTransmitter(cfg *config.Config, capture device.Capture, sender Sender,
	enc codec.Codec, logger *slog.Logger, m *metrics.Metrics) (*Transmitter, error) {

	cond, err := audio.NewConditioner(&cfg.Audio)
	if err != nil {
		return nil, err
	}

	return &Transmitter{
		cfg:     cfg,
		capture: capture,
		sender:  sender,
		cond:    cond,
		enc:     enc,
		hooks:   codec.NewChain(&cfg.Pipeline),
		logger:  logger,
		metrics: m,
	}, nil
}

// Run executes the duty cycle until the context is cancelled. The
// configured packet interval is enforced as a minimum inter-iteration
// delay; processing latency can stretch the real cadence but the cycle
// never sleeps less than the interval.
func (t *Transmitter) Run(ctx context.Context) {
	interval := t.cfg.Audio.PacketIntervalDuration()

	t.logger.Info("Transmit cycle started",
		slog.Int("frame_length", t.cfg.Audio.FrameLength),
		slog.Int("sample_rate", t.cfg.Audio.SampleRate),
		slog.Int("target_sample_rate", t.cfg.Audio.TargetSampleRate),
		slog.String("codec", t.enc.Name()),
		slog.Duration("packet_interval", interval),
	)

	for {
		start := time.Now()
		t.Iterate()
		if t.metrics != nil {
			t.metrics.IterationDuration.Observe(time.Since(start).Seconds())
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("Transmit cycle stopped")
			return
		case <-timer.C:
		}
	}
}

// Iterate runs one full pass of the pipeline: exactly one frame in,
// exactly one packet out, split into one or more chunks. Every fault
// inside the pass is contained in the pass; the next iteration is the
// retry mechanism.
func (t *Transmitter) Iterate() {
	frame := t.captureFrame()

	frame = t.cond.Process(frame)
	pcm := audio.Quantize(frame, t.cfg.Audio.QuantizationBits)

	payload, err := t.enc.Encode(pcm)
	if err != nil {
		t.logger.Error("Encode failed, dropping frame", slog.String("error", err.Error()))
		return
	}

	payload, err = t.hooks.Process(payload)
	if err != nil {
		t.logger.Error("Payload transform failed, dropping frame", slog.String("error", err.Error()))
		return
	}
	if len(payload) == 0 {
		t.countSuppressed()
	}

	packet, err := protocol.New(t.seq, t.enc.PayloadType(), uint32(time.Now().Unix()), payload)
	if err != nil {
		t.logger.Error("Packetize failed, dropping frame", slog.String("error", err.Error()))
		return
	}
	t.seq++

	if t.metrics != nil {
		t.metrics.PacketsSent.Inc()
		t.metrics.PayloadBytes.Observe(float64(len(payload)))
	}

	chunks := protocol.Chunk(packet.Marshal(), t.cfg.Network.MaxPayloadSize)
	var sent, failed uint64
	for _, chunk := range chunks {
		if err := t.sender.Send(chunk); err != nil {
			failed++
			t.logger.Warn("Send failed, dropping chunk",
				slog.Uint64("sequence", uint64(packet.Header.Sequence)),
				slog.Int("chunk_size", len(chunk)),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}

	t.mu.Lock()
	t.stats.PacketsSent++
	t.stats.ChunksSent += sent
	t.stats.SendErrors += failed
	t.stats.LastSequence = packet.Header.Sequence
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.ChunksSent.Add(float64(sent))
		t.metrics.SendErrors.Add(float64(failed))
	}

	t.logger.Debug("Iteration complete",
		slog.Uint64("sequence", uint64(packet.Header.Sequence)),
		slog.Int("payload_bytes", len(payload)),
		slog.Int("chunks", len(chunks)),
	)
}

// captureFrame reads one frame from the device, degrading to synthesized
// silence of the expected length on a transient device fault so the
// cycle never stalls.
func (t *Transmitter) captureFrame() audio.Frame {
	pcm, err := t.capture.Read(t.cfg.Audio.FrameLength)
	if err != nil {
		t.logger.Warn("Capture fault, substituting silence", slog.String("error", err.Error()))
		t.mu.Lock()
		t.stats.CaptureErrors++
		t.mu.Unlock()
		if t.metrics != nil {
			t.metrics.CaptureErrors.Inc()
		}
		return audio.Silence(t.cfg.Audio.FrameLength, t.cfg.Audio.SampleRate)
	}

	t.mu.Lock()
	t.stats.FramesCaptured++
	t.mu.Unlock()
	if t.metrics != nil {
		t.metrics.FramesCaptured.Inc()
	}
	return audio.NewFrame(pcm, t.cfg.Audio.SampleRate)
}

func (t *Transmitter) countSuppressed() {
	t.mu.Lock()
	t.stats.SuppressedFrames++
	t.mu.Unlock()
	if t.metrics != nil {
		t.metrics.SuppressedFrames.Inc()
	}
}

// Stats returns a snapshot of the cycle counters.
func (t *Transmitter) Stats() TransmitStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}
