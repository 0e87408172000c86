// Package protocol implements the voicelink wire format: a fixed-width
// 12-byte big-endian packet header, deterministic chunking of packets
// into transport-sized slices, and reassembly of inbound datagrams back
// into packets. Header byte order is big-endian; sample data inside the
// payload is little-endian 16-bit PCM (see the audio package).
package protocol
