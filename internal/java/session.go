package java

import (
	"io"
	"time"

	"github.com/woozymasta/mcstatus/internal/wire"
)

type state int

const (
	stateAwaitingStatus state = iota
	stateAwaitingPong
	stateDone
)

// session drives the status/ping exchange over bytes as they arrive from the socket.
type session struct {
	pingSent time.Time
	w        io.Writer
	now      func() time.Time
	status   *Status
	buf      wire.Buffer
	state    state
}

func newSession(w io.Writer) *session {
	return &session{w: w, now: time.Now}
}

// feed appends p to the reassembly buffer and handles every complete frame.
// It returns the status once the pong arrived, nil while more data is needed.
// Data received after the exchange completed is ignored.
func (s *session) feed(p []byte) (*Status, error) {
	if s.state == stateDone {
		return nil, nil
	}

	_, _ = s.buf.Write(p)

	for {
		frame, ok, err := s.buf.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}

		done, err := s.handle(frame)
		if err != nil {
			return nil, err
		}
		if done {
			return s.status, nil
		}
	}
}

func (s *session) handle(frame wire.Frame) (bool, error) {
	switch {
	case s.state == stateAwaitingStatus && frame.ID == packetStatusResponse:
		st, err := parseStatus(frame.Payload)
		if err != nil {
			return false, err
		}
		s.status = st

		if _, err := s.w.Write(wire.EncodeFrame(packetPing, pingPayload[:])); err != nil {
			return false, err
		}
		s.pingSent = s.now()
		s.state = stateAwaitingPong

		return false, nil

	case s.state == stateAwaitingPong && frame.ID == packetPong:
		latency := s.now().Sub(s.pingSent).Round(time.Millisecond).Milliseconds()
		if latency < 0 {
			latency = 0
		}
		s.status.Latency = latency
		s.state = stateDone

		return true, nil
	}

	return false, wire.NewProtocolError("unexpected packet")
}
