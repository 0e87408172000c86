package device

// Capture is the microphone side of the audio hardware. Read blocks
// until n samples are available. Errors are transient device faults;
// the transmit cycle substitutes silence and keeps going.
type Capture interface {
	// Read returns exactly n signed 16-bit mono samples.
	Read(n int) ([]int16, error)

	// Close releases the device.
	Close() error
}

// Playback is the speaker side of the audio hardware. Errors are
// transient device faults; the receive cycle drops the frame and keeps
// going.
type Playback interface {
	// Write renders signed 16-bit mono samples.
	Write(samples []int16) error

	// Close releases the device.
	Close() error
}
