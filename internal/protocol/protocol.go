package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire constants. The header is fixed-width and big-endian; both ends of
// a link must agree on every field offset, so the sizes below are the
// protocol contract, not tuning knobs.
const (
	// Version identifies this header layout. Bump it for any change to
	// the field widths or meanings.
	Version = 0x01

	// Payload type tags, mirroring the configured codec.
	PayloadPCM  = 0x01
	PayloadOpus = 0x02

	// HeaderSize is the fixed header width in bytes:
	// [version:1][payload-type:1][sequence:4][timestamp:4][length:2]
	HeaderSize = 12

	// MaxPayloadLen is the largest payload the 2-byte length field can
	// describe.
	MaxPayloadLen = 1<<16 - 1
)

var (
	// ErrShortDatagram reports an inbound datagram smaller than the header.
	ErrShortDatagram = errors.New("datagram shorter than header")

	// ErrBadVersion reports a header with an unknown version byte.
	ErrBadVersion = errors.New("unknown protocol version")

	// ErrBadPayloadType reports a header with an unknown payload type tag.
	ErrBadPayloadType = errors.New("unknown payload type")
)

// Header is the fixed 12-byte packet header.
// Layout: [Version:1][PayloadType:1][Sequence:4][Timestamp:4][Length:2]
type Header struct {
	Version     uint8  // header layout version
	PayloadType uint8  // 0x01=PCM, 0x02=Opus
	Sequence    uint32 // increments by 1 per packet, wraps mod 2^32
	Timestamp   uint32 // Unix seconds when the packet was built
	Length      uint16 // payload byte count following the header
}

// Packet is one sequenced, header-stamped unit of encoded audio. It is
// built once per transmit iteration and owned by that iteration.
type Packet struct {
	Header  Header
	Payload []byte
}

// New builds a packet from an encoded payload. The sequence number is
// supplied by the caller (the transmit cycle owns it), so packetization
// itself has no hidden state: same inputs, same packet.
func New(seq uint32, payloadType uint8, timestamp uint32, payload []byte) (*Packet, error) {
	if len(payload) > MaxPayloadLen {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(payload), MaxPayloadLen)
	}

	return &Packet{
		Header: Header{
			Version:     Version,
			PayloadType: payloadType,
			Sequence:    seq,
			Timestamp:   timestamp,
			Length:      uint16(len(payload)),
		},
		Payload: payload,
	}, nil
}

// Marshal serializes the packet as header followed by payload.
func (p *Packet) Marshal() []byte {
	buf := make([]byte, HeaderSize+len(p.Payload))
	buf[0] = p.Header.Version
	buf[1] = p.Header.PayloadType
	binary.BigEndian.PutUint32(buf[2:6], p.Header.Sequence)
	binary.BigEndian.PutUint32(buf[6:10], p.Header.Timestamp)
	binary.BigEndian.PutUint16(buf[10:12], p.Header.Length)
	copy(buf[HeaderSize:], p.Payload)
	return buf
}

// ParseHeader parses the fixed-width header from the front of a datagram.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrShortDatagram, HeaderSize, len(data))
	}

	header := &Header{
		Version:     data[0],
		PayloadType: data[1],
		Sequence:    binary.BigEndian.Uint32(data[2:6]),
		Timestamp:   binary.BigEndian.Uint32(data[6:10]),
		Length:      binary.BigEndian.Uint16(data[10:12]),
	}

	if err := header.Validate(); err != nil {
		return nil, err
	}

	return header, nil
}

// Validate checks the header fields against the known protocol values.
func (h *Header) Validate() error {
	if h.Version != Version {
		return fmt.Errorf("%w: 0x%02x", ErrBadVersion, h.Version)
	}

	if h.PayloadType != PayloadPCM && h.PayloadType != PayloadOpus {
		return fmt.Errorf("%w: 0x%02x", ErrBadPayloadType, h.PayloadType)
	}

	return nil
}

// Chunk splits a marshaled packet into contiguous transport chunks of at
// most maxSize bytes, preserving order; the last chunk may be shorter.
// Concatenating the chunks reproduces the packet byte for byte. An empty
// payload still yields exactly one chunk carrying the header alone.
// Chunk boundaries are purely a transport size limit; chunks carry no
// header of their own.
func Chunk(packet []byte, maxSize int) [][]byte {
	if len(packet) <= maxSize {
		return [][]byte{packet}
	}

	chunks := make([][]byte, 0, (len(packet)+maxSize-1)/maxSize)
	for off := 0; off < len(packet); off += maxSize {
		end := off + maxSize
		if end > len(packet) {
			end = len(packet)
		}
		chunks = append(chunks, packet[off:end])
	}
	return chunks
}

// String returns a human-readable representation of the header.
func (h *Header) String() string {
	var payloadType string
	switch h.PayloadType {
	case PayloadPCM:
		payloadType = "PCM"
	case PayloadOpus:
		payloadType = "Opus"
	default:
		payloadType = fmt.Sprintf("Unknown(0x%02x)", h.PayloadType)
	}

	return fmt.Sprintf("Header{Version:%d, Type:%s, Seq:%d, Timestamp:%d, Length:%d}",
		h.Version, payloadType, h.Sequence, h.Timestamp, h.Length)
}
