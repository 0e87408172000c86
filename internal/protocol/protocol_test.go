package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestPacketMarshalParseRoundTrip(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	packet, err := New(42, PayloadPCM, 1701234567, payload)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	wire := packet.Marshal()
	if len(wire) != HeaderSize+len(payload) {
		t.Fatalf("expected %d wire bytes, got %d", HeaderSize+len(payload), len(wire))
	}

	header, err := ParseHeader(wire)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	if header.Version != Version {
		t.Errorf("expected version %d, got %d", Version, header.Version)
	}
	if header.PayloadType != PayloadPCM {
		t.Errorf("expected payload type %d, got %d", PayloadPCM, header.PayloadType)
	}
	if header.Sequence != 42 {
		t.Errorf("expected sequence 42, got %d", header.Sequence)
	}
	if header.Timestamp != 1701234567 {
		t.Errorf("expected timestamp 1701234567, got %d", header.Timestamp)
	}
	if int(header.Length) != len(payload) {
		t.Errorf("expected length %d, got %d", len(payload), header.Length)
	}
	if !bytes.Equal(wire[HeaderSize:], payload) {
		t.Error("payload bytes corrupted by marshal")
	}
}

func TestNewIsDeterministic(t *testing.T) {
	payload := []byte{1, 2, 3}

	a, err := New(7, PayloadPCM, 1000, payload)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New(7, PayloadPCM, 1000, payload)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !bytes.Equal(a.Marshal(), b.Marshal()) {
		t.Error("same inputs produced different packets")
	}
}

func TestNewRejectsOversizedPayload(t *testing.T) {
	if _, err := New(0, PayloadPCM, 0, make([]byte, MaxPayloadLen+1)); err == nil {
		t.Error("expected error for payload above the length field range")
	}
}

func TestParseHeaderErrors(t *testing.T) {
	valid, _ := New(1, PayloadPCM, 0, []byte{1, 2})
	wire := valid.Marshal()

	badVersion := append([]byte(nil), wire...)
	badVersion[0] = 0x7F

	badType := append([]byte(nil), wire...)
	badType[1] = 0x7F

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty datagram", []byte{}, ErrShortDatagram},
		{"undersized datagram", wire[:HeaderSize-1], ErrShortDatagram},
		{"unknown version", badVersion, ErrBadVersion},
		{"unknown payload type", badType, ErrBadPayloadType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestChunkRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		payloadLen int
		maxSize    int
		wantChunks int
	}{
		{"single chunk exact fit", 1472 - HeaderSize, 1472, 1},
		{"payload of one byte", 1, 1472, 1},
		{"empty payload still one chunk", 0, 1472, 1},
		{"two chunks", 1472, 1472, 2},
		{"full voice frame", 8192, 1472, 6}, // ceil((12+8192)/1472)
		{"max size equals header", 100, HeaderSize, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := make([]byte, tt.payloadLen)
			for i := range payload {
				payload[i] = byte(i)
			}

			packet, err := New(9, PayloadPCM, 0, payload)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			wire := packet.Marshal()

			chunks := Chunk(wire, tt.maxSize)
			if len(chunks) != tt.wantChunks {
				t.Fatalf("expected %d chunks, got %d", tt.wantChunks, len(chunks))
			}

			want := (len(wire) + tt.maxSize - 1) / tt.maxSize
			if len(chunks) != want {
				t.Errorf("chunk count %d does not equal ceil(%d/%d)=%d",
					len(chunks), len(wire), tt.maxSize, want)
			}

			for i, chunk := range chunks {
				if len(chunk) > tt.maxSize {
					t.Errorf("chunk %d exceeds max size: %d > %d", i, len(chunk), tt.maxSize)
				}
			}

			var joined []byte
			for _, chunk := range chunks {
				joined = append(joined, chunk...)
			}
			if !bytes.Equal(joined, wire) {
				t.Error("concatenated chunks do not reproduce the packet")
			}
		})
	}
}

func TestHeaderString(t *testing.T) {
	h := Header{Version: Version, PayloadType: PayloadOpus, Sequence: 3, Timestamp: 4, Length: 5}
	got := h.String()
	if got == "" {
		t.Fatal("String returned empty")
	}
	if want := "Opus"; !bytes.Contains([]byte(got), []byte(want)) {
		t.Errorf("expected %q in %q", want, got)
	}
}
