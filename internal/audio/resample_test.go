package audio

import (
	"math"
	"testing"
)

func TestResampleLength(t *testing.T) {
	tests := []struct {
		name    string
		inLen   int
		from    int
		to      int
		wantLen int
	}{
		{"48k to 8k", 4096, 48000, 8000, 683},
		{"8k to 48k", 683, 8000, 48000, 4098},
		{"44.1k to 48k", 4096, 44100, 48000, 4458},
		{"identity", 4096, 48000, 48000, 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := Silence(tt.inLen, tt.from)
			out := Resample(frame, tt.to)

			if out.Len() != tt.wantLen {
				t.Errorf("expected %d samples, got %d", tt.wantLen, out.Len())
			}
			if out.Rate != tt.to {
				t.Errorf("expected rate %d, got %d", tt.to, out.Rate)
			}
		})
	}
}

func TestResamplePreservesConstantSignal(t *testing.T) {
	frame := Frame{Samples: make([]float64, 1000), Rate: 48000}
	for i := range frame.Samples {
		frame.Samples[i] = 500
	}

	out := Resample(frame, 16000)
	for i, s := range out.Samples {
		if math.Abs(s-500) > 1e-9 {
			t.Fatalf("sample %d drifted to %v, interpolation of a constant must stay constant", i, s)
		}
	}
}

func TestResampleEmptyFrame(t *testing.T) {
	out := Resample(Frame{Samples: nil, Rate: 48000}, 8000)
	if out.Len() != 0 {
		t.Errorf("expected empty output, got %d samples", out.Len())
	}
}
