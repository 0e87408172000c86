package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voicelink pipeline.
type Metrics struct {
	// Transmit cycle
	FramesCaptured    prometheus.Counter
	CaptureErrors     prometheus.Counter
	PacketsSent       prometheus.Counter
	ChunksSent        prometheus.Counter
	SendErrors        prometheus.Counter
	SuppressedFrames  prometheus.Counter
	IterationDuration prometheus.Histogram
	PayloadBytes      prometheus.Histogram

	// Receive cycle
	DatagramsReceived prometheus.Counter
	PacketsPlayed     prometheus.Counter
	ProtocolErrors    prometheus.Counter
	PlaybackErrors    prometheus.Counter
	ReceiveErrors     prometheus.Counter

	// HTTP API
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		FramesCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_frames_captured_total",
			Help: "Total number of audio frames read from the capture device",
		}),
		CaptureErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_capture_errors_total",
			Help: "Total number of capture device faults (silence was substituted)",
		}),
		PacketsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_packets_sent_total",
			Help: "Total number of sequenced packets built by the transmit cycle",
		}),
		ChunksSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_chunks_sent_total",
			Help: "Total number of transport chunks handed to the socket",
		}),
		SendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_send_errors_total",
			Help: "Total number of chunk send failures (chunk dropped)",
		}),
		SuppressedFrames: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_suppressed_frames_total",
			Help: "Total number of frames emptied by silence suppression",
		}),
		IterationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicelink_transmit_iteration_duration_seconds",
			Help:    "Wall time of one transmit iteration excluding the interval sleep",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~2s
		}),
		PayloadBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicelink_payload_bytes",
			Help:    "Encoded payload size per packet in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10), // 64B to ~32KB
		}),

		DatagramsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_datagrams_received_total",
			Help: "Total number of datagrams read from the socket",
		}),
		PacketsPlayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_packets_played_total",
			Help: "Total number of packets rendered to the playback device",
		}),
		ProtocolErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_protocol_errors_total",
			Help: "Total number of malformed or undersized datagrams discarded",
		}),
		PlaybackErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_playback_errors_total",
			Help: "Total number of playback device faults (frame dropped)",
		}),
		ReceiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_receive_errors_total",
			Help: "Total number of socket receive failures",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voicelink_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicelink_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
