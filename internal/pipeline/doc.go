// Package pipeline implements the two duty cycles of the voice link.
// The transmit cycle and the receive cycle are causally independent:
// they share only the immutable configuration, each owns its device and
// transport half exclusively, and each contains every steady-state fault
// within the iteration that produced it.
package pipeline
