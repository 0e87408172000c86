package protocol

import "fmt"

// Assembler rebuilds packets from inbound datagrams. In the common case
// one datagram carries one whole packet and Feed returns it immediately.
// When the header's length field announces more payload than the first
// datagram carried, the packet was split into transport chunks and the
// assembler accumulates subsequent datagrams as raw continuation bytes
// until the announced length is reached.
//
// A lost continuation chunk desynchronizes the current packet only: the
// next datagram that parses as a valid header resets assembly. That is
// acceptable for a best-effort voice stream where the next frame always
// supersedes the current one.
type Assembler struct {
	header  *Header
	partial []byte
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Feed consumes one inbound datagram. It returns a completed packet, or
// nil when more continuation bytes are expected. Datagrams shorter than
// the header width, or with an invalid header, are rejected with an
// error while idle; mid-assembly every datagram is continuation payload.
func (a *Assembler) Feed(datagram []byte) (*Packet, error) {
	if a.header == nil {
		header, err := ParseHeader(datagram)
		if err != nil {
			return nil, err
		}

		payload := datagram[HeaderSize:]
		if len(payload) >= int(header.Length) {
			if len(payload) > int(header.Length) {
				return nil, fmt.Errorf("payload overrun: header announces %d bytes, datagram carries %d",
					header.Length, len(payload))
			}
			return &Packet{Header: *header, Payload: append([]byte(nil), payload...)}, nil
		}

		a.header = header
		a.partial = append(a.partial[:0], payload...)
		return nil, nil
	}

	remaining := int(a.header.Length) - len(a.partial)
	if len(datagram) > remaining {
		// Continuation larger than the announced remainder means we lost
		// track of chunk boundaries; drop the partial packet and treat
		// this datagram as a fresh start.
		a.Reset()
		return a.Feed(datagram)
	}

	a.partial = append(a.partial, datagram...)
	if len(a.partial) < int(a.header.Length) {
		return nil, nil
	}

	packet := &Packet{Header: *a.header, Payload: append([]byte(nil), a.partial...)}
	a.Reset()
	return packet, nil
}

// Pending reports whether a partially assembled packet is buffered.
func (a *Assembler) Pending() bool {
	return a.header != nil
}

// Reset discards any partially assembled packet.
func (a *Assembler) Reset() {
	a.header = nil
	a.partial = a.partial[:0]
}
