// Package codec provides the pluggable pieces of the encode path: the
// codec that turns sample frames into wire payloads (PCM by default,
// Opus optionally) and the ordered chain of payload transforms for echo
// cancellation, silence suppression and compression. Transform order is
// fixed because the peer must be able to assume compression, when
// enabled, was applied last.
package codec
