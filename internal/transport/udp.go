package transport

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/vlysenko/voicelink/internal/config"
)

// Conn is a connectionless datagram transport: one UDP socket bound to
// the configured listen endpoint, with a resolved peer address for
// outbound traffic. The socket carries both directions, but the two
// duty cycles use disjoint halves of it: the transmit cycle only calls
// Send and the receive cycle only calls Receive.
//
// The transport provides no delivery, ordering or duplication
// guarantees; everything above it must tolerate loss.
type Conn struct {
	conn   *net.UDPConn
	dest   *net.UDPAddr
	logger *slog.Logger
}

// New binds the listen endpoint and resolves the destination.
func New(cfg *config.NetworkConfig, logger *slog.Logger) (*Conn, error) {
	laddr, err := net.ResolveUDPAddr("udp", cfg.ListenAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve listen address: %w", err)
	}

	dest, err := net.ResolveUDPAddr("udp", cfg.DestinationAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination address: %w", err)
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on UDP: %w", err)
	}

	if err := conn.SetReadBuffer(cfg.ReadBufferSize); err != nil {
		logger.Warn("Failed to set UDP read buffer size",
			slog.Int("buffer_size", cfg.ReadBufferSize),
			slog.String("error", err.Error()),
		)
	}

	logger.Info("UDP transport ready",
		slog.String("listen", laddr.String()),
		slog.String("destination", dest.String()),
	)

	return &Conn{conn: conn, dest: dest, logger: logger}, nil
}

// Send transmits one chunk to the configured destination. A send error
// is transient by contract: the caller logs it, drops the chunk and
// moves on.
func (c *Conn) Send(chunk []byte) error {
	if _, err := c.conn.WriteToUDP(chunk, c.dest); err != nil {
		return fmt.Errorf("udp send to %s failed: %w", c.dest, err)
	}
	return nil
}

// Receive blocks until one datagram arrives and copies it into buf,
// returning the byte count. There is no timeout; shutdown unblocks the
// call by closing the socket.
func (c *Conn) Receive(buf []byte) (int, error) {
	n, _, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, fmt.Errorf("udp receive failed: %w", err)
	}
	return n, nil
}

// Close closes the underlying socket, unblocking any pending Receive.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// LocalAddr returns the bound listen address.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}
