package java

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/woozymasta/mcstatus/internal/wire"
)

type countingConn struct {
	net.Conn
	closes *atomic.Int32
}

func (c countingConn) Close() error {
	c.closes.Add(1)
	return c.Conn.Close()
}

type countingDialer struct {
	closes atomic.Int32
	d      net.Dialer
}

func (d *countingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := d.d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return countingConn{Conn: conn, closes: &d.closes}, nil
}

// serve accepts one connection and hands it to handle.
func serve(t *testing.T, handle func(net.Conn)) (string, uint16) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		handle(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), uint16(addr.Port)
}

// readFrames reads from conn until n frames were received.
func readFrames(conn net.Conn, n int) ([]wire.Frame, error) {
	var (
		buf    wire.Buffer
		frames []wire.Frame
		chunk  = make([]byte, 512)
	)

	for len(frames) < n {
		read, err := conn.Read(chunk)
		if err != nil {
			return frames, err
		}
		_, _ = buf.Write(chunk[:read])

		for {
			f, ok, err := buf.Next()
			if err != nil {
				return frames, err
			}
			if !ok {
				break
			}
			frames = append(frames, wire.Frame{ID: f.ID, Payload: append([]byte(nil), f.Payload...)})
		}
	}

	return frames, nil
}

func TestClientStatus_Success(t *testing.T) {
	host, port := serve(t, func(conn net.Conn) {
		frames, err := readFrames(conn, 2)
		if err != nil || frames[0].ID != packetHandshake || len(frames[1].Payload) != 0 {
			return
		}

		// deliver the status response in small pieces
		resp := statusFrame(sampleJSON)
		for len(resp) > 0 {
			n := min(7, len(resp))
			if _, err := conn.Write(resp[:n]); err != nil {
				return
			}
			resp = resp[n:]
			time.Sleep(time.Millisecond)
		}

		ping, err := readFrames(conn, 1)
		if err != nil || ping[0].ID != packetPing {
			return
		}
		_, _ = conn.Write(wire.EncodeFrame(packetPong, ping[0].Payload))
	})

	dialer := &countingDialer{}
	c := &Client{Dialer: dialer, Timeout: 2 * time.Second}

	st, err := c.Status(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Status() err=%v", err)
	}
	if st.Version.Protocol != 765 || st.Players.Online != 2 {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.Latency < 0 {
		t.Fatalf("negative latency %d", st.Latency)
	}
	if st.IP != "127.0.0.1" {
		t.Fatalf("ip = %q", st.IP)
	}

	time.Sleep(20 * time.Millisecond)
	if n := dialer.closes.Load(); n != 1 {
		t.Fatalf("connection closed %d times, want 1", n)
	}
}

func TestClientStatus_Timeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	host, port := serve(t, func(net.Conn) { <-release })

	dialer := &countingDialer{}
	c := &Client{Dialer: dialer, Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := c.Status(context.Background(), host, port)
	if !errors.Is(err, wire.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not honored")
	}

	time.Sleep(20 * time.Millisecond)
	if n := dialer.closes.Load(); n != 1 {
		t.Fatalf("connection closed %d times, want 1", n)
	}
}

func TestClientStatus_UnexpectedPacket(t *testing.T) {
	host, port := serve(t, func(conn net.Conn) {
		if _, err := readFrames(conn, 2); err != nil {
			return
		}
		_, _ = conn.Write(wire.EncodeFrame(0x1F, []byte{1, 2, 3}))
		time.Sleep(100 * time.Millisecond)
	})

	c := &Client{Timeout: 2 * time.Second}
	if _, err := c.Status(context.Background(), host, port); !wire.IsProtocolError(err) {
		t.Fatalf("expected protocol error, got %v", err)
	}
}

func TestClientStatus_ClosedBeforeResponse(t *testing.T) {
	host, port := serve(t, func(conn net.Conn) {
		_, _ = readFrames(conn, 2)
	})

	c := &Client{Timeout: 2 * time.Second}
	_, err := c.Status(context.Background(), host, port)
	if err == nil || errors.Is(err, wire.ErrTimeout) || wire.IsProtocolError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
