package codec

import (
	"fmt"

	"github.com/vlysenko/voicelink/internal/config"
)

// Transform is a payload-level processing hook. Transforms take and
// return an encoded payload and can be chained; the chain order on the
// encode side is a protocol commitment the decoder relies on.
type Transform interface {
	// Process applies the transform to an encoded payload. It may return
	// the input slice unchanged or a new slice.
	Process(payload []byte) ([]byte, error)

	// Name returns a human-readable name for logging.
	Name() string
}

// Chain applies transforms in a fixed order. Disabled stages are simply
// absent from the chain, so a fully default chain is the identity.
type Chain struct {
	transforms []Transform
}

// NewChain builds the encode-side hook chain from configuration. The
// order is fixed: echo cancellation, then silence suppression, then
// compression. Compression, when enabled, is always the last transform
// applied before packetization.
func NewChain(cfg *config.PipelineConfig) *Chain {
	var transforms []Transform
	if cfg.EnableEchoCancellation {
		transforms = append(transforms, &echoCancel{})
	}
	if cfg.EnableSilenceSuppression {
		transforms = append(transforms, NewSilenceGate(cfg.SilenceThreshold))
	}
	if cfg.EnableCompression {
		transforms = append(transforms, &compressor{})
	}
	return &Chain{transforms: transforms}
}

// Process runs the payload through every enabled transform in order.
func (c *Chain) Process(payload []byte) ([]byte, error) {
	var err error
	for _, t := range c.transforms {
		payload, err = t.Process(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return payload, nil
}

// Len returns the number of enabled transforms.
func (c *Chain) Len() int {
	return len(c.transforms)
}

// echoCancel is the echo cancellation seam. True acoustic echo
// cancellation needs a far-end reference signal the pipeline does not
// route yet, so the stage passes payloads through unchanged.
// TODO: feed the playback stream back in as the far-end reference.
type echoCancel struct{}

func (e *echoCancel) Process(payload []byte) ([]byte, error) { return payload, nil }
func (e *echoCancel) Name() string                           { return "echo-cancel" }

// compressor is the entropy compression seam. It is the identity until a
// real coder is chosen; the chain position is already fixed so enabling
// a real implementation later does not change the wire contract.
type compressor struct{}

func (c *compressor) Process(payload []byte) ([]byte, error) { return payload, nil }
func (c *compressor) Name() string                           { return "compress" }
