package audio

// Frame is one fixed-length window of mono audio samples processed as a
// unit, tagged with the sample rate it was captured or produced at.
// Samples are held as float64 so the filter stages keep full precision;
// quantization back to integer PCM happens once, at the end of the
// transmit pipeline. A frame never mixes sample rates internally.
type Frame struct {
	Samples []float64
	Rate    int
}

// NewFrame converts raw 16-bit PCM capture data into a frame.
func NewFrame(pcm []int16, rate int) Frame {
	samples := make([]float64, len(pcm))
	for i, s := range pcm {
		samples[i] = float64(s)
	}
	return Frame{Samples: samples, Rate: rate}
}

// Silence returns an all-zero frame of the given length. The transmit
// cycle substitutes one when the capture device reports a transient
// failure, so a device fault never stalls an iteration.
func Silence(length, rate int) Frame {
	return Frame{Samples: make([]float64, length), Rate: rate}
}

// Len returns the number of samples in the frame.
func (f Frame) Len() int {
	return len(f.Samples)
}
