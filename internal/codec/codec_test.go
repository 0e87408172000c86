package codec

import (
	"bytes"
	"testing"

	"github.com/vlysenko/voicelink/internal/config"
	"github.com/vlysenko/voicelink/internal/protocol"
)

func TestPCMRoundTrip(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768}

	c := PCM{}
	data, err := c.Encode(samples)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("sample %d: expected %d, got %d", i, samples[i], decoded[i])
		}
	}
}

func TestPCMDecodeEmptyPayload(t *testing.T) {
	decoded, err := PCM{}.Decode(nil)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("expected empty sample slice, got %d samples", len(decoded))
	}
}

func TestCodecPayloadTypes(t *testing.T) {
	if got := (PCM{}).PayloadType(); got != protocol.PayloadPCM {
		t.Errorf("pcm payload type: expected 0x%02x, got 0x%02x", protocol.PayloadPCM, got)
	}
	if got := (PCM{}).Name(); got != "pcm" {
		t.Errorf("expected name 'pcm', got '%s'", got)
	}
}

func TestNewSelectsCodec(t *testing.T) {
	cfg := config.Default()

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Name() != "pcm" {
		t.Errorf("expected pcm codec, got '%s'", c.Name())
	}

	cfg.Pipeline.Codec = "vorbis"
	if _, err := New(cfg); err == nil {
		t.Error("expected error for unknown codec")
	}
}

func TestPCMEncodeIsStable(t *testing.T) {
	samples := []int16{1, 2, 3}
	a, _ := PCM{}.Encode(samples)
	b, _ := PCM{}.Encode(samples)
	if !bytes.Equal(a, b) {
		t.Error("same samples produced different payloads")
	}
}
