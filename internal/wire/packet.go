package wire

import (
	"errors"
	"io"
)

// MaxFrameLen bounds the declared length of a single stream frame.
const MaxFrameLen = 2 << 20

// Frame is one id-tagged unit of the stream protocol.
type Frame struct {
	Payload []byte
	ID      uint32
}

// EncodeFrame returns varint(len(varint(id)) + len(payload)) ++ varint(id) ++ payload.
func EncodeFrame(id uint32, payload []byte) []byte {
	length := VarIntSize(id) + len(payload)

	out := make([]byte, 0, VarIntSize(uint32(length))+length)
	out = AppendVarInt(out, uint32(length))
	out = AppendVarInt(out, id)

	return append(out, payload...)
}

// Buffer accumulates bytes read from a stream socket and extracts complete frames.
// It is owned by a single probe and is not safe for concurrent use.
type Buffer struct {
	data []byte
	off  int
}

// Write appends p to the buffer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.off > 0 && b.off == len(b.data) {
		b.data = b.data[:0]
		b.off = 0
	}
	b.data = append(b.data, p...)

	return len(p), nil
}

// Len returns the number of buffered bytes not yet consumed.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

// Next extracts one complete frame.
// When the buffer does not yet hold the whole frame it returns ok=false and a nil error
// and leaves the buffered bytes untouched, so it can be called again after more data arrives.
// The returned payload aliases the buffer and is valid until the next Write.
func (b *Buffer) Next() (Frame, bool, error) {
	pending := b.data[b.off:]

	length, start, err := DecodeVarInt(pending, 0)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, false, nil
		}
		return Frame{}, false, err
	}

	if length == 0 {
		return Frame{}, false, NewProtocolError("empty packet")
	}
	if length > MaxFrameLen {
		return Frame{}, false, NewProtocolError("packet too large")
	}

	end := start + int(length)
	if len(pending) < end {
		return Frame{}, false, nil
	}

	body := pending[start:end]
	id, idEnd, err := DecodeVarInt(body, 0)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, false, NewProtocolError("malformed packet id")
		}
		return Frame{}, false, err
	}

	b.off += end

	return Frame{ID: id, Payload: body[idEnd:]}, true, nil
}
