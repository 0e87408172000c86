// Package audio implements the signal path of the transmit pipeline:
// frame representation, voice-band filtering, fixed-ratio resampling and
// peak-normalized quantization down to 16-bit PCM. All transforms are
// pure functions over one frame; nothing in this package holds state
// across iterations.
package audio
