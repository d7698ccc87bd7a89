// Package wire holds the low-level primitives shared by the status clients:
// the VarInt codec, packet framing, the reassembly buffer for stream sockets,
// protocol errors and the exactly-once outcome cell used to race I/O against a deadline.
package wire

import (
	"io"
)

// MaxVarIntLen is the maximum number of bytes a 32-bit VarInt may occupy.
const MaxVarIntLen = 5

// AppendVarInt appends the VarInt encoding of v to dst.
// The value is treated as unsigned, so a signed -1 must be passed as uint32(0xFFFFFFFF)
// and is emitted in its 5 byte wraparound form.
func AppendVarInt(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// EncodeVarInt returns the VarInt encoding of v.
func EncodeVarInt(v uint32) []byte {
	return AppendVarInt(make([]byte, 0, MaxVarIntLen), v)
}

// VarIntSize returns the number of bytes EncodeVarInt(v) would produce.
func VarIntSize(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// DecodeVarInt reads a VarInt from buf starting at offset.
// It returns the value and the offset just past the last consumed byte.
// io.ErrUnexpectedEOF is returned when buf ends before the terminating byte,
// ErrVarIntTooLong when five bytes were read and the continuation bit is still set.
func DecodeVarInt(buf []byte, offset int) (uint32, int, error) {
	var value uint32

	for i := 0; i < MaxVarIntLen; i++ {
		pos := offset + i
		if pos >= len(buf) {
			return 0, offset, io.ErrUnexpectedEOF
		}

		b := buf[pos]
		value |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return value, pos + 1, nil
		}
	}

	return 0, offset, ErrVarIntTooLong
}
