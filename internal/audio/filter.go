package audio

import (
	"fmt"
	"math"

	"github.com/vlysenko/voicelink/internal/config"
)

// biquad holds the normalized coefficients of one second-order filter
// section. Sections are applied with a transposed direct-form II state,
// reset for every frame so conditioning stays a pure per-frame transform.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// apply runs the section over the samples in place.
func (q biquad) apply(samples []float64) {
	var s1, s2 float64
	for i, x := range samples {
		y := q.b0*x + s1
		s1 = q.b1*x - q.a1*y + s2
		s2 = q.b2*x - q.a2*y
		samples[i] = y
	}
}

// butterworthQ is the quality factor that makes a single biquad section a
// second-order Butterworth response.
const butterworthQ = 1.0 / math.Sqrt2

// highPass designs a second-order Butterworth high-pass section.
func highPass(cutoff, rate float64) biquad {
	w0 := 2 * math.Pi * cutoff / rate
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * butterworthQ)
	a0 := 1 + alpha
	return biquad{
		b0: (1 + cosw) / 2 / a0,
		b1: -(1 + cosw) / a0,
		b2: (1 + cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

// lowPass designs a second-order Butterworth low-pass section.
func lowPass(cutoff, rate float64) biquad {
	w0 := 2 * math.Pi * cutoff / rate
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * butterworthQ)
	a0 := 1 + alpha
	return biquad{
		b0: (1 - cosw) / 2 / a0,
		b1: (1 - cosw) / a0,
		b2: (1 - cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

// Conditioner band-limits a captured frame to the human voice band and
// resamples it to the configured wire rate. The filter is a 4th-order
// band-pass built as a cascade of a 2nd-order high-pass at the lower
// cutoff and a 2nd-order low-pass at the upper cutoff, designed once for
// the fixed input sample rate.
type Conditioner struct {
	sections   [2]biquad
	inputRate  int
	targetRate int
}

// NewConditioner designs the band-pass sections for the configured input
// rate. Cutoffs are clamped to the voice band and then into (0.01, 0.99)
// of the Nyquist frequency so filter design cannot fail at pathological
// sample rates; rates where the clamped band collapses are rejected.
func NewConditioner(cfg *config.AudioConfig) (*Conditioner, error) {
	nyquist := float64(cfg.SampleRate) / 2

	low := clamp(config.VoiceBandLowHz/nyquist, 0.01, 0.99)
	high := clamp(config.VoiceBandHighHz/nyquist, 0.01, 0.99)
	if low >= high {
		return nil, fmt.Errorf("voice band collapses at %d Hz: normalized cutoffs %.3f >= %.3f",
			cfg.SampleRate, low, high)
	}

	rate := float64(cfg.SampleRate)
	return &Conditioner{
		sections:   [2]biquad{highPass(low * nyquist, rate), lowPass(high * nyquist, rate)},
		inputRate:  cfg.SampleRate,
		targetRate: cfg.TargetSampleRate,
	}, nil
}

// Process band-limits the frame and, when the target rate differs from
// the capture rate, resamples it. The input frame is not modified; an
// all-zero frame passes through as an all-zero frame.
func (c *Conditioner) Process(frame Frame) Frame {
	filtered := Frame{Samples: make([]float64, frame.Len()), Rate: frame.Rate}
	copy(filtered.Samples, frame.Samples)

	for _, section := range c.sections {
		section.apply(filtered.Samples)
	}

	if c.targetRate != c.inputRate {
		return Resample(filtered, c.targetRate)
	}
	return filtered
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
