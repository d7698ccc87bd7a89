package probe

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned by ParseAddress for malformed input.
var ErrInvalidAddress = errors.New("invalid address")

// ParseAddress splits "host[:port]" and applies defaultPort when the port is omitted.
// IPv6 literals with a port must be bracketed; a bare IPv6 literal is accepted as host only.
func ParseAddress(address string, defaultPort uint16) (string, uint16, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", 0, ErrInvalidAddress
	}

	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		// no port, or an unbracketed IPv6 literal
		if bare := strings.Trim(address, "[]"); strings.Count(bare, ":") > 1 && net.ParseIP(bare) != nil {
			return strings.ToLower(bare), defaultPort, nil
		}
		if strings.Contains(address, ":") {
			return "", 0, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
		}
		host, portStr = strings.Trim(address, "[]"), ""
	}

	if host == "" || strings.ContainsAny(host, " /\\?#@") {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	if portStr == "" {
		return strings.ToLower(host), defaultPort, nil
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return "", 0, fmt.Errorf("%w: port %q", ErrInvalidAddress, portStr)
	}

	return strings.ToLower(host), uint16(port), nil
}
