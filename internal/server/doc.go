// Package server provides the optional HTTP status and metrics endpoint
// for a running link: /healthz, /stats, /config and Prometheus /metrics.
package server
