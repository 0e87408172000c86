// Package metrics defines the Prometheus instrumentation for both duty
// cycles and the HTTP API.
package metrics
