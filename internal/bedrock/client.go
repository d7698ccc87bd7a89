// Package bedrock implements the unconnected ping status query of Bedrock edition servers.
package bedrock

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/woozymasta/mcstatus/internal/wire"
)

// DefaultPort is the default Bedrock edition server port.
const DefaultPort = 19132

// DefaultTimeout bounds a whole probe when Client.Timeout is not set.
const DefaultTimeout = 7 * time.Second

// DefaultBufferSize fits any unconnected pong a server sends in one datagram.
const DefaultBufferSize = 1500

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client queries Bedrock edition servers. The zero value is usable.
type Client struct {
	// Dialer opens the UDP socket on an ephemeral local port, a plain net.Dialer when nil.
	Dialer Dialer

	// Timeout bounds the request/reply exchange.
	Timeout time.Duration

	// BufferSize is the receive buffer for the reply datagram.
	BufferSize uint16
}

// New returns a Client with the given probe timeout.
func New(timeout time.Duration) *Client {
	return &Client{Timeout: timeout}
}

type reply struct {
	at   time.Time
	data []byte
}

// Status sends one unconnected ping to host:port and waits for the pong.
// The socket is closed exactly once, on whichever of reply or deadline comes first.
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
	conn, err := dialer.DialContext(ctx, "udp", addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("dial %s: %w", addr, wire.ErrTimeout)
		}
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	outcome := wire.NewOutcome[reply](func() { _ = conn.Close() })
	outcome.Expire(ctx)

	var idBytes [8]byte
	if _, err := rand.Read(idBytes[:]); err != nil {
		outcome.Fail(fmt.Errorf("client id: %w", err))
		_, err = outcome.Wait()
		return nil, err
	}

	sent := time.Now()
	if _, err := conn.Write(encodePing(sent.UnixMilli(), binary.BigEndian.Uint64(idBytes[:]))); err != nil {
		outcome.Fail(fmt.Errorf("write ping: %w", err))
		_, err = outcome.Wait()
		return nil, err
	}

	size := c.BufferSize
	if size == 0 {
		size = DefaultBufferSize
	}
	go receive(conn, int(size), outcome)

	r, err := outcome.Wait()
	if err != nil {
		return nil, err
	}

	echoed, st, err := decodePong(r.data)
	if err != nil {
		return nil, err
	}

	st.Latency = latency(sent, r.at, echoed)
	if udp, ok := conn.RemoteAddr().(*net.UDPAddr); ok {
		st.IP = udp.IP.String()
	}

	return st, nil
}

// receive waits for exactly one datagram and settles the outcome with it.
func receive(conn net.Conn, size int, outcome *wire.Outcome[reply]) {
	buf := make([]byte, size)

	n, err := conn.Read(buf)
	if err != nil {
		outcome.Fail(fmt.Errorf("read pong: %w", err))
		return
	}

	outcome.Settle(reply{data: buf[:n], at: time.Now()}, nil)
}

// latency prefers the timestamp echoed by the server and falls back to the local
// send time when the echo is not a plausible value.
func latency(sent, received time.Time, echoed int64) int64 {
	local := received.Sub(sent).Round(time.Millisecond).Milliseconds()

	ms := received.UnixMilli() - echoed
	if ms < 0 || ms > local+1 {
		ms = local
	}
	if ms < 0 {
		ms = 0
	}

	return ms
}
