package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/woozymasta/mcstatus/internal/wire"
)

// Kind is the stable error code rendered by the HTTP layer.
type Kind string

// Error kinds.
const (
	KindTimeout           Kind = "timeout"
	KindInvalidDomain     Kind = "invalid_domain"
	KindConnectionRefused Kind = "connection_refused"
	KindOffline           Kind = "offline"
)

// Error is a classified probe failure.
type Error struct {
	Err  error
	Kind Kind
}

// Error implements error.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

// Unwrap returns the underlying fault.
func (e *Error) Unwrap() error {
	return e.Err
}

// Protocol reports whether the failure was a malformed or out-of-sequence packet.
func (e *Error) Protocol() bool {
	return wire.IsProtocolError(e.Err)
}

// Classify maps a low-level fault to a Kind.
// Protocol errors surface as KindOffline: the peer did not answer like a server.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}

	if errors.Is(err, wire.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindInvalidDomain
	}

	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return KindInvalidDomain
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindConnectionRefused
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindOffline
}
