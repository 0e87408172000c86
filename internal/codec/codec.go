package codec

import (
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/vlysenko/voicelink/internal/audio"
	"github.com/vlysenko/voicelink/internal/config"
	"github.com/vlysenko/voicelink/internal/protocol"
)

// Codec converts between quantized 16-bit sample frames and encoded wire
// payloads. The encoder side is used only by the transmit cycle and the
// decoder side only by the receive cycle, so implementations may keep
// separate per-direction state without locking.
type Codec interface {
	// Encode converts one frame of samples into a wire payload.
	Encode(pcm []int16) ([]byte, error)

	// Decode converts a wire payload back into samples. An empty payload
	// (a silence-suppressed frame) decodes to an empty sample slice.
	Decode(data []byte) ([]int16, error)

	// PayloadType returns the header tag announcing this codec.
	PayloadType() uint8

	// Name returns the codec identifier used in configuration.
	Name() string
}

// New builds the codec selected by the configuration.
func New(cfg *config.Config) (Codec, error) {
	switch cfg.Pipeline.Codec {
	case "pcm":
		return PCM{}, nil
	case "opus":
		return NewOpus(cfg.Audio.TargetSampleRate, cfg.Audio.Channels, cfg.Audio.WireFrameLength())
	default:
		return nil, fmt.Errorf("unknown codec '%s'", cfg.Pipeline.Codec)
	}
}

// PCM is the default codec: uncompressed little-endian 16-bit samples.
type PCM struct{}

// Encode serializes the samples to the PCM wire layout.
func (PCM) Encode(pcm []int16) ([]byte, error) {
	return audio.EncodePCM(pcm), nil
}

// Decode deserializes PCM wire data back into samples.
func (PCM) Decode(data []byte) ([]int16, error) {
	return audio.DecodePCM(data)
}

// PayloadType returns the PCM header tag.
func (PCM) PayloadType() uint8 { return protocol.PayloadPCM }

// Name returns the codec identifier.
func (PCM) Name() string { return "pcm" }

// maxOpusPacket bounds one encoded Opus frame. The codec never produces
// more than 1275 bytes per frame; 4000 leaves headroom for multi-frame
// packets.
const maxOpusPacket = 4000

// Opus wraps a libopus encoder/decoder pair configured for VoIP.
type Opus struct {
	enc       *opus.Encoder
	dec       *opus.Decoder
	frameSize int
}

// NewOpus creates an Opus codec. The frame size must be one of the frame
// durations libopus accepts at the given rate; configuration validation
// enforces that before the codec is built.
func NewOpus(sampleRate, channels, frameSize int) (*Opus, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &Opus{enc: enc, dec: dec, frameSize: frameSize}, nil
}

// Encode compresses one frame of samples into an Opus payload.
func (o *Opus) Encode(pcm []int16) ([]byte, error) {
	if len(pcm) != o.frameSize {
		return nil, fmt.Errorf("opus frame must be %d samples, got %d", o.frameSize, len(pcm))
	}

	buf := make([]byte, maxOpusPacket)
	n, err := o.enc.Encode(pcm, buf)
	if err != nil {
		return nil, fmt.Errorf("opus encode failed: %w", err)
	}
	return buf[:n], nil
}

// Decode decompresses an Opus payload back into samples.
func (o *Opus) Decode(data []byte) ([]int16, error) {
	if len(data) == 0 {
		return nil, nil
	}

	pcm := make([]int16, o.frameSize)
	n, err := o.dec.Decode(data, pcm)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}
	return pcm[:n], nil
}

// PayloadType returns the Opus header tag.
func (o *Opus) PayloadType() uint8 { return protocol.PayloadOpus }

// Name returns the codec identifier.
func (o *Opus) Name() string { return "opus" }
