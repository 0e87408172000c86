package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vlysenko/voicelink/internal/codec"
	"github.com/vlysenko/voicelink/internal/config"
	"github.com/vlysenko/voicelink/internal/device"
	"github.com/vlysenko/voicelink/internal/metrics"
	"github.com/vlysenko/voicelink/internal/protocol"
)

// DatagramSource is the inbound half of the transport as the receive
// cycle sees it.
type DatagramSource interface {
	Receive(buf []byte) (int, error)
}

// Receiver is the receive duty cycle: block for a datagram, strip and
// validate the header, decode, play, forever. Malformed datagrams and
// playback faults are reported and skipped; nothing stops the loop
// short of context cancellation.
type Receiver struct {
	cfg      *config.Config
	source   DatagramSource
	playback device.Playback
	dec      codec.Codec
	asm      *protocol.Assembler
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu    sync.RWMutex
	stats ReceiveStats
}

// ReceiveStats is a point-in-time snapshot of receive cycle counters.
type ReceiveStats struct {
	DatagramsReceived uint64 `json:"datagrams_received"`
	PacketsPlayed     uint64 `json:"packets_played"`
	ProtocolErrors    uint64 `json:"protocol_errors"`
	PlaybackErrors    uint64 `json:"playback_errors"`
	ReceiveErrors     uint64 `json:"receive_errors"`
	LastSequence      uint32 `json:"last_sequence"`
}

// NewReceiver wires the receive pipeline against an inbound transport
// and a playback device. The metrics argument may be nil.
func NewReceiver(cfg *config.Config, source DatagramSource, playback device.Playback,
	dec codec.Codec, logger *slog.Logger, m *metrics.Metrics) *Receiver {

	return &Receiver{
		cfg:      cfg,
		source:   source,
		playback: playback,
		dec:      dec,
		asm:      protocol.NewAssembler(),
		logger:   logger,
		metrics:  m,
	}
}

// Run executes the duty cycle until the context is cancelled. The
// blocking receive has no timeout; shutdown closes the socket, which
// surfaces here as a receive error while the context is already done.
func (r *Receiver) Run(ctx context.Context) {
	buf := make([]byte, r.cfg.Network.MaxPayloadSize)

	r.logger.Info("Receive cycle started",
		slog.String("codec", r.dec.Name()),
		slog.Int("max_payload_size", r.cfg.Network.MaxPayloadSize),
	)

	for {
		n, err := r.source.Receive(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				r.logger.Info("Receive cycle stopped")
				return
			default:
			}

			r.logger.Error("Receive failed", slog.String("error", err.Error()))
			r.mu.Lock()
			r.stats.ReceiveErrors++
			r.mu.Unlock()
			if r.metrics != nil {
				r.metrics.ReceiveErrors.Inc()
			}
			continue
		}

		r.HandleDatagram(buf[:n])
	}
}

// HandleDatagram processes one inbound datagram: reassemble, validate,
// decode, play. Every fault is contained to this datagram.
func (r *Receiver) HandleDatagram(data []byte) {
	r.mu.Lock()
	r.stats.DatagramsReceived++
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.DatagramsReceived.Inc()
	}

	packet, err := r.asm.Feed(data)
	if err != nil {
		r.discard("Discarding malformed datagram", len(data), err)
		return
	}
	if packet == nil {
		// Continuation chunk of a split packet; nothing to play yet.
		return
	}

	if packet.Header.PayloadType != r.dec.PayloadType() {
		r.discard("Discarding packet with mismatched payload type", len(data), nil)
		return
	}

	pcm, err := r.dec.Decode(packet.Payload)
	if err != nil {
		r.discard("Discarding undecodable payload", len(packet.Payload), err)
		return
	}

	r.mu.Lock()
	r.stats.LastSequence = packet.Header.Sequence
	r.mu.Unlock()

	if len(pcm) == 0 {
		// Header-only packet: the peer suppressed a silent frame.
		return
	}

	if err := r.playback.Write(pcm); err != nil {
		r.logger.Warn("Playback fault, dropping frame",
			slog.Uint64("sequence", uint64(packet.Header.Sequence)),
			slog.Int("samples", len(pcm)),
			slog.String("error", err.Error()),
		)
		r.mu.Lock()
		r.stats.PlaybackErrors++
		r.mu.Unlock()
		if r.metrics != nil {
			r.metrics.PlaybackErrors.Inc()
		}
		return
	}

	r.mu.Lock()
	r.stats.PacketsPlayed++
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.PacketsPlayed.Inc()
	}
}

func (r *Receiver) discard(msg string, size int, err error) {
	attrs := []any{slog.Int("size", size)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	r.logger.Warn(msg, attrs...)

	r.mu.Lock()
	r.stats.ProtocolErrors++
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.ProtocolErrors.Inc()
	}
}

// Stats returns a snapshot of the cycle counters.
func (r *Receiver) Stats() ReceiveStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}
