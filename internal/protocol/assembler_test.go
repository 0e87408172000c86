package protocol

import (
	"bytes"
	"testing"
)

func buildWire(t *testing.T, seq uint32, payloadLen int) ([]byte, []byte) {
	t.Helper()
	payload := make([]byte, payloadLen)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	packet, err := New(seq, PayloadPCM, 0, payload)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return packet.Marshal(), payload
}

func TestAssemblerSingleDatagramPacket(t *testing.T) {
	wire, payload := buildWire(t, 5, 100)

	asm := NewAssembler()
	packet, err := asm.Feed(wire)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if packet == nil {
		t.Fatal("expected a completed packet")
	}
	if packet.Header.Sequence != 5 {
		t.Errorf("expected sequence 5, got %d", packet.Header.Sequence)
	}
	if !bytes.Equal(packet.Payload, payload) {
		t.Error("payload corrupted by assembly")
	}
	if asm.Pending() {
		t.Error("assembler should be idle after a complete packet")
	}
}

func TestAssemblerReassemblesChunkedPacket(t *testing.T) {
	wire, payload := buildWire(t, 8, 8192)
	chunks := Chunk(wire, 1472)
	if len(chunks) < 2 {
		t.Fatal("test packet must split into multiple chunks")
	}

	asm := NewAssembler()
	var packet *Packet
	for i, chunk := range chunks {
		var err error
		packet, err = asm.Feed(chunk)
		if err != nil {
			t.Fatalf("Feed of chunk %d failed: %v", i, err)
		}
		if i < len(chunks)-1 && packet != nil {
			t.Fatalf("packet completed early at chunk %d", i)
		}
	}

	if packet == nil {
		t.Fatal("expected a completed packet after the last chunk")
	}
	if !bytes.Equal(packet.Payload, payload) {
		t.Error("reassembled payload is not bit-identical to the original")
	}
}

func TestAssemblerRejectsMalformedWhileIdle(t *testing.T) {
	asm := NewAssembler()

	if _, err := asm.Feed([]byte{0x01, 0x02}); err == nil {
		t.Error("expected error for undersized datagram")
	}
	if asm.Pending() {
		t.Error("malformed datagram must not start an assembly")
	}

	// The loop keeps working afterward.
	wire, _ := buildWire(t, 1, 10)
	packet, err := asm.Feed(wire)
	if err != nil || packet == nil {
		t.Fatalf("assembler did not recover after malformed datagram: %v", err)
	}
}

func TestAssemblerRejectsPayloadOverrun(t *testing.T) {
	wire, _ := buildWire(t, 2, 10)
	// Extra trailing bytes beyond the announced length.
	wire = append(wire, 0xFF, 0xFF)

	asm := NewAssembler()
	if _, err := asm.Feed(wire); err == nil {
		t.Error("expected error for payload overrun")
	}
}

func TestAssemblerResyncsOnFreshHeader(t *testing.T) {
	big, _ := buildWire(t, 3, 8192)
	first := Chunk(big, 1472)[0]

	asm := NewAssembler()
	if _, err := asm.Feed(first); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if !asm.Pending() {
		t.Fatal("expected pending assembly")
	}

	// Remaining chunks are lost; a new small packet arrives. Its length
	// exceeds the expected remainder only when the remainder is smaller,
	// so force resync via Reset semantics with an oversized continuation.
	asm.Reset()
	wire, payload := buildWire(t, 4, 16)
	packet, err := asm.Feed(wire)
	if err != nil {
		t.Fatalf("Feed after reset failed: %v", err)
	}
	if packet == nil || !bytes.Equal(packet.Payload, payload) {
		t.Fatal("assembler did not recover after reset")
	}
}
