package wire

import (
	"errors"
)

var (
	// ErrTimeout is returned when the probe deadline elapsed before a terminal response arrived.
	ErrTimeout = errors.New("status probe timed out")

	// ErrVarIntTooLong is returned when a VarInt exceeds MaxVarIntLen bytes.
	ErrVarIntTooLong = &ProtocolError{Reason: "varint too long"}
)

// ProtocolError reports a malformed or out-of-sequence packet.
// It is always fatal to the probe that produced it.
type ProtocolError struct {
	Reason string
}

// Error implements error.
func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

// NewProtocolError returns a ProtocolError with the given reason.
func NewProtocolError(reason string) error {
	return &ProtocolError{Reason: reason}
}

// IsProtocolError reports whether err wraps a *ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
