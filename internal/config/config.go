package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Voice band limits in Hz. Cutoffs outside this band are clamped
// before the band-pass filter is designed.
const (
	VoiceBandLowHz  = 300.0
	VoiceBandHighHz = 3400.0
)

// Config represents the complete voicelink configuration.
// It is built once at startup and shared read-only by both duty cycles.
type Config struct {
	Audio    AudioConfig    `yaml:"audio"`
	Network  NetworkConfig  `yaml:"network"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AudioConfig contains capture and signal-processing parameters.
type AudioConfig struct {
	SampleRate       int     `yaml:"sample_rate"`        // capture rate in Hz
	TargetSampleRate int     `yaml:"target_sample_rate"` // wire rate in Hz
	QuantizationBits int     `yaml:"quantization_bits"`
	FrameLength      int     `yaml:"frame_length"`    // samples per iteration
	PacketInterval   float64 `yaml:"packet_interval"` // seconds, minimum inter-iteration delay
	Channels         int     `yaml:"channels"`
}

// NetworkConfig contains the datagram transport endpoints and limits.
type NetworkConfig struct {
	DestinationHost string `yaml:"destination_host"`
	DestinationPort int    `yaml:"destination_port"`
	ListenAddress   string `yaml:"listen_address"`
	ListenPort      int    `yaml:"listen_port"`
	MaxPayloadSize  int    `yaml:"max_payload_size"` // bytes per datagram
	ReadBufferSize  int    `yaml:"read_buffer_size"`
}

// PipelineConfig selects the codec and the optional payload transforms.
type PipelineConfig struct {
	Codec                    string  `yaml:"codec"` // "pcm" or "opus"
	EnableEchoCancellation   bool    `yaml:"enable_echo_cancellation"`
	EnableSilenceSuppression bool    `yaml:"enable_silence_suppression"`
	EnableCompression        bool    `yaml:"enable_compression"`
	SilenceThreshold         float64 `yaml:"silence_threshold"` // RMS fraction of full scale
}

// HTTPConfig contains the status/metrics HTTP server configuration.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns a configuration suitable for a local loopback link.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:       48000,
			TargetSampleRate: 48000,
			QuantizationBits: 16,
			FrameLength:      4096,
			PacketInterval:   0.02,
			Channels:         1,
		},
		Network: NetworkConfig{
			DestinationHost: "127.0.0.1",
			DestinationPort: 5060,
			ListenAddress:   "0.0.0.0",
			ListenPort:      5060,
			MaxPayloadSize:  1472,
			ReadBufferSize:  262144,
		},
		Pipeline: PipelineConfig{
			Codec:            "pcm",
			SilenceThreshold: 0.01,
		},
		HTTP: HTTPConfig{
			Enabled: false,
			Address: "127.0.0.1",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration.
// A validation error here is fatal at startup; nothing else is allowed
// to stop the pipeline once it is running.
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("network config: %w", err)
	}

	if err := c.Pipeline.Validate(&c.Audio); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates audio configuration.
func (a *AudioConfig) Validate() error {
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", a.SampleRate)
	}

	if a.TargetSampleRate < 8000 || a.TargetSampleRate > 192000 {
		return fmt.Errorf("target_sample_rate must be between 8000 and 192000 Hz, got %d", a.TargetSampleRate)
	}

	if a.QuantizationBits < 8 || a.QuantizationBits > 16 {
		return fmt.Errorf("quantization_bits must be between 8 and 16, got %d", a.QuantizationBits)
	}

	if a.FrameLength < 64 || a.FrameLength > 16384 {
		return fmt.Errorf("frame_length must be between 64 and 16384 samples, got %d", a.FrameLength)
	}

	if a.PacketInterval <= 0 {
		return fmt.Errorf("packet_interval must be positive, got %f", a.PacketInterval)
	}

	if a.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono), got %d", a.Channels)
	}

	// The band-pass cutoffs are clamped into (0.01, 0.99) of Nyquist; the
	// sample rate must leave room for a non-empty voice band after clamping.
	nyquist := float64(a.SampleRate) / 2
	if VoiceBandLowHz/nyquist >= 0.99 {
		return fmt.Errorf("sample_rate %d leaves no usable voice band below Nyquist", a.SampleRate)
	}

	return nil
}

// Validate validates network configuration.
func (n *NetworkConfig) Validate() error {
	if n.DestinationHost == "" {
		return fmt.Errorf("destination_host cannot be empty")
	}

	if n.DestinationPort < 1 || n.DestinationPort > 65535 {
		return fmt.Errorf("destination_port must be between 1 and 65535, got %d", n.DestinationPort)
	}

	if n.ListenAddress == "" {
		return fmt.Errorf("listen_address cannot be empty")
	}

	if n.ListenPort < 1 || n.ListenPort > 65535 {
		return fmt.Errorf("listen_port must be between 1 and 65535, got %d", n.ListenPort)
	}

	if n.MaxPayloadSize < 64 || n.MaxPayloadSize > 65507 {
		return fmt.Errorf("max_payload_size must be between 64 and 65507 bytes, got %d", n.MaxPayloadSize)
	}

	if n.ReadBufferSize < 1024 {
		return fmt.Errorf("read_buffer_size must be at least 1024 bytes, got %d", n.ReadBufferSize)
	}

	return nil
}

// Validate validates pipeline configuration against the audio parameters.
func (p *PipelineConfig) Validate(audio *AudioConfig) error {
	switch p.Codec {
	case "pcm":
	case "opus":
		if !validOpusFrame(audio.TargetSampleRate, audio.WireFrameLength()) {
			return fmt.Errorf("codec opus requires a frame duration of 2.5, 5, 10, 20, 40 or 60 ms at %d Hz",
				audio.TargetSampleRate)
		}
	default:
		return fmt.Errorf("codec must be 'pcm' or 'opus', got '%s'", p.Codec)
	}

	if p.SilenceThreshold < 0 || p.SilenceThreshold > 1 {
		return fmt.Errorf("silence_threshold must be between 0 and 1, got %f", p.SilenceThreshold)
	}

	return nil
}

// Validate validates HTTP configuration.
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// PacketIntervalDuration returns the packet interval as a time.Duration.
func (a *AudioConfig) PacketIntervalDuration() time.Duration {
	return time.Duration(a.PacketInterval * float64(time.Second))
}

// DestinationAddr returns the outbound endpoint as "host:port".
func (n *NetworkConfig) DestinationAddr() string {
	return fmt.Sprintf("%s:%d", n.DestinationHost, n.DestinationPort)
}

// ListenAddr returns the inbound endpoint as "address:port".
func (n *NetworkConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", n.ListenAddress, n.ListenPort)
}

// WireFrameLength returns the frame length after resampling to the
// target sample rate, which is the sample count actually sent per packet.
func (a *AudioConfig) WireFrameLength() int {
	if a.SampleRate == a.TargetSampleRate || a.SampleRate == 0 {
		return a.FrameLength
	}
	return int(float64(a.FrameLength)*float64(a.TargetSampleRate)/float64(a.SampleRate) + 0.5)
}

// validOpusFrame reports whether samples is a legal Opus frame size at rate.
func validOpusFrame(rate, samples int) bool {
	// 2.5, 5, 10, 20, 40 and 60 ms.
	for _, d := range []int{rate / 400, rate / 200, rate / 100, rate / 50, rate / 25, 3 * rate / 50} {
		if samples == d {
			return true
		}
	}
	return false
}
