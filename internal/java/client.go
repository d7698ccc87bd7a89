// Package java implements the status query of Java edition servers:
// handshake, status request and ping over a single TCP connection.
package java

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/woozymasta/mcstatus/internal/wire"
)

// DefaultPort is the default Java edition server port.
const DefaultPort = 25565

// DefaultTimeout bounds a whole probe when Client.Timeout is not set.
const DefaultTimeout = 7 * time.Second

const (
	packetHandshake      = 0x00
	packetStatusRequest  = 0x00
	packetStatusResponse = 0x00
	packetPing           = 0x01
	packetPong           = 0x01

	// protocol version -1 marks a status query rather than a real client login
	protocolVersionStatus uint32 = 0xFFFFFFFF
	nextStateStatus       uint32 = 1

	readChunkSize = 4096
)

var pingPayload = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client queries Java edition servers. The zero value is usable.
type Client struct {
	// Dialer opens the TCP connection, a plain net.Dialer when nil.
	Dialer Dialer

	// Timeout bounds connect, exchange and ping together.
	Timeout time.Duration
}

// New returns a Client with the given probe timeout.
func New(timeout time.Duration) *Client {
	return &Client{Timeout: timeout}
}

// Status connects to host:port and runs the handshake/status/ping exchange.
// The connection is closed exactly once before Status returns, on whichever of
// completion, protocol error, transport error or deadline comes first.
func (c *Client) Status(ctx context.Context, host string, port uint16) (*Status, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := c.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("connect %s: %w", addr, wire.ErrTimeout)
		}
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	outcome := wire.NewOutcome[*Status](func() { _ = conn.Close() })
	outcome.Expire(ctx)

	go exchange(conn, host, port, outcome)

	return outcome.Wait()
}

// exchange writes the handshake and status request, then reads until the outcome settles.
func exchange(conn net.Conn, host string, port uint16, outcome *wire.Outcome[*Status]) {
	request := wire.EncodeFrame(packetHandshake, handshakePayload(host, port))
	request = append(request, wire.EncodeFrame(packetStatusRequest, nil)...)

	if _, err := conn.Write(request); err != nil {
		outcome.Fail(fmt.Errorf("write handshake: %w", err))
		return
	}

	ip := remoteIP(conn)
	sess := newSession(conn)
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			st, perr := sess.feed(chunk[:n])
			if perr != nil {
				outcome.Fail(perr)
				return
			}
			if st != nil {
				st.IP = ip
				outcome.Settle(st, nil)
				return
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			outcome.Fail(fmt.Errorf("read status: %w", err))
			return
		}
	}
}

func handshakePayload(host string, port uint16) []byte {
	p := make([]byte, 0, wire.MaxVarIntLen*3+len(host)+2)
	p = wire.AppendVarInt(p, protocolVersionStatus)
	p = wire.AppendVarInt(p, uint32(len(host)))
	p = append(p, host...)
	p = binary.BigEndian.AppendUint16(p, port)
	p = wire.AppendVarInt(p, nextStateStatus)

	return p
}

func remoteIP(conn net.Conn) string {
	if conn.RemoteAddr() == nil {
		return ""
	}
	if addr, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}

	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return ""
	}

	return host
}
