package audio

// Resample converts a frame to the target sample rate using linear
// interpolation between neighboring input samples. The output length is
// the input length scaled by target/source, rounded to nearest. Linear
// interpolation is sufficient for band-limited voice and keeps the
// transform dependency-free and allocation-bounded.
func Resample(frame Frame, targetRate int) Frame {
	if targetRate == frame.Rate || frame.Len() == 0 {
		return Frame{Samples: frame.Samples, Rate: targetRate}
	}

	ratio := float64(targetRate) / float64(frame.Rate)
	outLen := int(float64(frame.Len())*ratio + 0.5)
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	step := float64(frame.Len()) / float64(outLen)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= frame.Len()-1 {
			out[i] = frame.Samples[frame.Len()-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = frame.Samples[idx]*(1-frac) + frame.Samples[idx+1]*frac
	}

	return Frame{Samples: out, Rate: targetRate}
}
