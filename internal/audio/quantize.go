package audio

import (
	"fmt"
	"math"
)

// Quantize normalizes a frame by its own peak absolute amplitude, scales
// it into the signed integer range implied by bits, rounds and clips.
// A frame whose peak is exactly zero (true silence, or a substituted
// zero frame after a capture fault) is returned as all-zero output; the
// scale step is skipped so there is no division by zero.
func Quantize(frame Frame, bits int) []int16 {
	out := make([]int16, frame.Len())

	var peak float64
	for _, s := range frame.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return out
	}

	maxVal := float64(int(1)<<(bits-1) - 1)
	scale := maxVal / peak
	for i, s := range frame.Samples {
		v := math.Round(s * scale)
		if v > maxVal {
			v = maxVal
		} else if v < -maxVal {
			v = -maxVal
		}
		out[i] = int16(v)
	}

	return out
}

// EncodePCM serializes 16-bit samples to the little-endian wire layout.
// Sample byte order is part of the wire contract: the peer decodes with
// DecodePCM and both sides hold it fixed.
func EncodePCM(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[i*2] = byte(s)
		data[i*2+1] = byte(s >> 8)
	}
	return data
}

// DecodePCM deserializes little-endian 16-bit sample data.
func DecodePCM(data []byte) ([]int16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("pcm data length must be even, got %d bytes", len(data))
	}

	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples, nil
}
