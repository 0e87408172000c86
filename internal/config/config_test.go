package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration must validate: %v", err)
	}
}

func TestLoadValidConfig(t *testing.T) {
	content := `
audio:
  sample_rate: 48000
  target_sample_rate: 8000
  quantization_bits: 16
  frame_length: 4096
  packet_interval: 0.02
  channels: 1
network:
  destination_host: "10.0.0.2"
  destination_port: 5060
  listen_address: "0.0.0.0"
  listen_port: 5061
  max_payload_size: 1472
  read_buffer_size: 65536
pipeline:
  codec: "pcm"
  enable_silence_suppression: true
  silence_threshold: 0.02
http:
  enabled: false
logging:
  level: "debug"
  format: "json"
  output: "stderr"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Audio.TargetSampleRate != 8000 {
		t.Errorf("expected target_sample_rate 8000, got %d", cfg.Audio.TargetSampleRate)
	}
	if !cfg.Pipeline.EnableSilenceSuppression {
		t.Error("expected silence suppression enabled")
	}
	if cfg.Network.DestinationAddr() != "10.0.0.2:5060" {
		t.Errorf("unexpected destination addr %s", cfg.Network.DestinationAddr())
	}
	if cfg.Audio.PacketIntervalDuration() != 20*time.Millisecond {
		t.Errorf("unexpected packet interval %v", cfg.Audio.PacketIntervalDuration())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frame length", func(c *Config) { c.Audio.FrameLength = 0 }},
		{"sample rate too low", func(c *Config) { c.Audio.SampleRate = 4000 }},
		{"sample rate too high", func(c *Config) { c.Audio.SampleRate = 400000 }},
		{"zero packet interval", func(c *Config) { c.Audio.PacketInterval = 0 }},
		{"negative packet interval", func(c *Config) { c.Audio.PacketInterval = -0.5 }},
		{"bad quantization bits", func(c *Config) { c.Audio.QuantizationBits = 24 }},
		{"stereo rejected", func(c *Config) { c.Audio.Channels = 2 }},
		{"empty destination host", func(c *Config) { c.Network.DestinationHost = "" }},
		{"destination port out of range", func(c *Config) { c.Network.DestinationPort = 70000 }},
		{"listen port zero", func(c *Config) { c.Network.ListenPort = 0 }},
		{"payload size too small", func(c *Config) { c.Network.MaxPayloadSize = 10 }},
		{"payload size above udp limit", func(c *Config) { c.Network.MaxPayloadSize = 70000 }},
		{"unknown codec", func(c *Config) { c.Pipeline.Codec = "gsm" }},
		{"silence threshold above one", func(c *Config) { c.Pipeline.SilenceThreshold = 1.5 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"http enabled without address", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Address = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error but got none")
			}
		})
	}
}

func TestOpusCodecRequiresLegalFrameDuration(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.Codec = "opus"

	// 4096 samples at 48 kHz is not a legal Opus frame duration.
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for illegal opus frame size")
	}

	// 960 samples at 48 kHz is 20 ms.
	cfg.Audio.FrameLength = 960
	if err := cfg.Validate(); err != nil {
		t.Errorf("20 ms opus frame must validate: %v", err)
	}
}

func TestWireFrameLength(t *testing.T) {
	tests := []struct {
		name   string
		source int
		target int
		frame  int
		want   int
	}{
		{"same rate", 48000, 48000, 4096, 4096},
		{"downsampled", 48000, 8000, 4096, 683},
		{"upsampled", 16000, 48000, 1024, 3072},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AudioConfig{SampleRate: tt.source, TargetSampleRate: tt.target, FrameLength: tt.frame}
			if got := a.WireFrameLength(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
