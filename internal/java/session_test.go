package java

import (
	"bytes"
	"testing"
	"time"

	"github.com/woozymasta/mcstatus/internal/wire"
)

const sampleJSON = `{"version":{"name":"1.20.4","protocol":765},"players":{"max":100,"online":2,"sample":[{"name":"Notch","id":"069a79f4-44e9-4726-a5be-fca90e38aaf5"}]},"description":{"text":"Hello ","extra":[{"text":"World","bold":true}]},"favicon":"data:image/png;base64,iVBORw0KGgo="}`

func statusFrame(json string) []byte {
	payload := wire.AppendVarInt(nil, uint32(len(json)))
	payload = append(payload, json...)
	return wire.EncodeFrame(packetStatusResponse, payload)
}

func pongFrame() []byte {
	return wire.EncodeFrame(packetPong, pingPayload[:])
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestSession(w *bytes.Buffer, clock *fakeClock) *session {
	s := newSession(w)
	s.now = clock.now
	return s
}

func TestSession_SingleChunk(t *testing.T) {
	var out bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSession(&out, clock)

	st, err := s.feed(statusFrame(sampleJSON))
	if err != nil || st != nil {
		t.Fatalf("feed(status) = (%v, %v), want pending", st, err)
	}
	if !bytes.Equal(out.Bytes(), wire.EncodeFrame(packetPing, pingPayload[:])) {
		t.Fatalf("ping not written, got %x", out.Bytes())
	}

	clock.t = clock.t.Add(42 * time.Millisecond)
	st, err = s.feed(pongFrame())
	if err != nil || st == nil {
		t.Fatalf("feed(pong) = (%v, %v)", st, err)
	}

	if st.Version.Name != "1.20.4" || st.Version.Protocol != 765 {
		t.Fatalf("unexpected version %+v", st.Version)
	}
	if st.Players.Online != 2 || st.Players.Max != 100 || len(st.Players.Sample) != 1 {
		t.Fatalf("unexpected players %+v", st.Players)
	}
	if st.MOTD.Text != "Hello " || len(st.MOTD.Extra) != 1 {
		t.Fatalf("unexpected motd %+v", st.MOTD)
	}
	if st.Latency != 42 {
		t.Fatalf("latency = %d, want 42", st.Latency)
	}
}

func TestSession_ByteByByteMatchesSingleChunk(t *testing.T) {
	stream := append(statusFrame(sampleJSON), pongFrame()...)

	var whole bytes.Buffer
	ws := newTestSession(&whole, &fakeClock{t: time.Unix(0, 0)})
	want, err := ws.feed(stream)
	if err != nil || want == nil {
		t.Fatalf("whole feed = (%v, %v)", want, err)
	}

	var split bytes.Buffer
	ss := newTestSession(&split, &fakeClock{t: time.Unix(0, 0)})

	var got *Status
	for i, b := range stream {
		st, err := ss.feed([]byte{b})
		if err != nil {
			t.Fatalf("byte %d: err=%v", i, err)
		}
		if st != nil {
			if i != len(stream)-1 {
				t.Fatalf("completed early at byte %d", i)
			}
			got = st
		}
	}
	if got == nil {
		t.Fatalf("byte-by-byte feed never completed")
	}

	if got.Version != want.Version || got.Players.Online != want.Players.Online ||
		got.Favicon != want.Favicon || string(got.Description) != string(want.Description) {
		t.Fatalf("byte-by-byte result differs:\n got %+v\nwant %+v", got, want)
	}
	if !bytes.Equal(whole.Bytes(), split.Bytes()) {
		t.Fatalf("written ping differs")
	}
}

func TestSession_UnexpectedPacket(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out, &fakeClock{})

	if _, err := s.feed(wire.EncodeFrame(0x05, nil)); !wire.IsProtocolError(err) {
		t.Fatalf("expected protocol error, got %v", err)
	}
}

func TestSession_SecondStatusWhileAwaitingPong(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out, &fakeClock{})

	if _, err := s.feed(statusFrame(sampleJSON)); err != nil {
		t.Fatalf("feed(status) err=%v", err)
	}
	if _, err := s.feed(statusFrame(sampleJSON)); !wire.IsProtocolError(err) {
		t.Fatalf("expected protocol error, got %v", err)
	}
}

func TestSession_LatePongIgnored(t *testing.T) {
	var out bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newTestSession(&out, clock)

	_, _ = s.feed(statusFrame(sampleJSON))
	clock.t = clock.t.Add(5 * time.Millisecond)
	st, err := s.feed(pongFrame())
	if err != nil || st == nil {
		t.Fatalf("feed(pong) = (%v, %v)", st, err)
	}

	clock.t = clock.t.Add(time.Second)
	late, err := s.feed(pongFrame())
	if err != nil || late != nil {
		t.Fatalf("late pong must be ignored, got (%v, %v)", late, err)
	}
	if st.Latency != 5 {
		t.Fatalf("latency changed to %d", st.Latency)
	}
}

func TestParseStatus_InvalidJSON(t *testing.T) {
	payload := wire.AppendVarInt(nil, 3)
	payload = append(payload, "{x}"...)

	if _, err := parseStatus(payload); !wire.IsProtocolError(err) {
		t.Fatalf("expected protocol error, got %v", err)
	}
}

func TestParseStatus_Truncated(t *testing.T) {
	payload := wire.AppendVarInt(nil, 100)
	payload = append(payload, "{}"...)

	if _, err := parseStatus(payload); !wire.IsProtocolError(err) {
		t.Fatalf("expected protocol error, got %v", err)
	}
}

func TestParseStatus_StringDescription(t *testing.T) {
	json := `{"version":{"name":"x","protocol":1},"players":{"max":1,"online":0},"description":"§aplain"}`
	payload := wire.AppendVarInt(nil, uint32(len(json)))
	payload = append(payload, json...)

	st, err := parseStatus(payload)
	if err != nil {
		t.Fatalf("parseStatus err=%v", err)
	}
	if st.MOTD.Text != "§aplain" {
		t.Fatalf("unexpected motd %+v", st.MOTD)
	}
}

func TestHandshakePayload(t *testing.T) {
	got := handshakePayload("a", 25565)
	want := []byte{0xff, 0xff, 0xff, 0xff, 0x0f, 0x01, 'a', 0x63, 0xdd, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("handshakePayload = %x, want %x", got, want)
	}
}
