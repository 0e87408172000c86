// Package device abstracts the audio hardware behind small capture and
// playback interfaces and provides the PortAudio implementation used in
// production. The capture handle belongs exclusively to the transmit
// cycle and the playback handle to the receive cycle.
package device
