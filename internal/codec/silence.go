package codec

import (
	"math"

	"github.com/vlysenko/voicelink/internal/audio"
)

// SilenceGate suppresses payloads whose RMS energy falls below a
// threshold. A suppressed frame becomes an empty payload; the packetizer
// still emits a header-only packet for it, so the peer keeps seeing the
// sequence advance during silence.
type SilenceGate struct {
	threshold float64 // RMS fraction of full scale, 0..1
}

// NewSilenceGate creates a silence suppression transform. A threshold of
// zero never suppresses.
func NewSilenceGate(threshold float64) *SilenceGate {
	return &SilenceGate{threshold: threshold}
}

// Process measures the RMS amplitude of the 16-bit payload and returns
// an empty payload when it is below the threshold. Payloads that are not
// aligned 16-bit sample data pass through untouched.
func (g *SilenceGate) Process(payload []byte) ([]byte, error) {
	samples, err := audio.DecodePCM(payload)
	if err != nil || len(samples) == 0 {
		return payload, nil
	}

	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum/float64(len(samples))) / 32767.0

	if rms < g.threshold {
		return nil, nil
	}
	return payload, nil
}

// Name returns the transform name for logging.
func (g *SilenceGate) Name() string { return "silence-gate" }
