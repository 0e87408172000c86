// Package transport implements the unreliable datagram layer: unicast
// UDP to a configured peer, blocking receive on a configured listen
// endpoint. All reliability semantics live above this package.
package transport
