package bedrock

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/woozymasta/mcstatus/internal/wire"
)

const (
	idUnconnectedPing = 0x01
	idUnconnectedPong = 0x1C

	// 1 id + 8 timestamp + 8 server guid + 16 magic + 2 string length
	pongHeaderLen = 35
)

// magic is the offline message id every unconnected packet carries.
var magic = [16]byte{0x00, 0xff, 0xff, 0x00, 0xfe, 0xfe, 0xfe, 0xfe, 0xfd, 0xfd, 0xfd, 0xfd, 0x12, 0x34, 0x56, 0x78}

// Status is the decoded unconnected pong of a Bedrock edition server.
type Status struct {
	// NintendoLimited is nil when the server omitted the field.
	NintendoLimited *bool

	// PortIPv4 and PortIPv6 are nil when the server omitted them.
	PortIPv4 *uint16
	PortIPv6 *uint16

	Edition         string
	MOTD            string
	VersionName     string
	ServerID        string
	WorldName       string
	GameMode        string
	IP              string
	ProtocolVersion int
	OnlinePlayers   int
	MaxPlayers      int

	// Latency is the request/reply round trip in milliseconds.
	Latency int64
}

// encodePing builds an unconnected ping carrying timestamp and clientID.
func encodePing(timestamp int64, clientID uint64) []byte {
	p := make([]byte, 0, 1+8+len(magic)+8)
	p = append(p, idUnconnectedPing)
	p = binary.BigEndian.AppendUint64(p, uint64(timestamp))
	p = append(p, magic[:]...)
	p = binary.BigEndian.AppendUint64(p, clientID)

	return p
}

// decodePong validates an unconnected pong and returns the echoed timestamp and the parsed fields.
func decodePong(p []byte) (int64, *Status, error) {
	if len(p) == 0 || p[0] != idUnconnectedPong {
		return 0, nil, wire.NewProtocolError("unexpected packet id")
	}
	if len(p) < pongHeaderLen {
		return 0, nil, wire.NewProtocolError("short pong packet")
	}

	timestamp := int64(binary.BigEndian.Uint64(p[1:9]))

	data := p[pongHeaderLen:]
	if declared := int(binary.BigEndian.Uint16(p[33:35])); declared <= len(data) {
		data = data[:declared]
	}

	return timestamp, parseFields(string(data)), nil
}

// parseFields reads the semicolon separated fields in order.
// Missing trailing fields are left unset.
func parseFields(s string) *Status {
	fields := strings.Split(s, ";")
	field := func(i int) (string, bool) {
		if i < len(fields) {
			return fields[i], true
		}
		return "", false
	}

	st := &Status{}
	st.Edition, _ = field(0)
	st.MOTD, _ = field(1)
	if v, ok := field(2); ok {
		st.ProtocolVersion, _ = strconv.Atoi(v)
	}
	st.VersionName, _ = field(3)
	if v, ok := field(4); ok {
		st.OnlinePlayers, _ = strconv.Atoi(v)
	}
	if v, ok := field(5); ok {
		st.MaxPlayers, _ = strconv.Atoi(v)
	}
	st.ServerID, _ = field(6)
	st.WorldName, _ = field(7)
	st.GameMode, _ = field(8)

	if v, ok := field(9); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			st.NintendoLimited = &b
		}
	}
	st.PortIPv4 = parsePort(field(10))
	st.PortIPv6 = parsePort(field(11))

	return st
}

func parsePort(v string, ok bool) *uint16 {
	if !ok {
		return nil
	}

	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return nil
	}
	port := uint16(n)

	return &port
}
