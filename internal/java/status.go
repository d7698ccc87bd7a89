package java

import (
	"encoding/json"

	"github.com/woozymasta/mcstatus/internal/chat"
	"github.com/woozymasta/mcstatus/internal/wire"
)

// Status is the decoded status response of a Java edition server.
type Status struct {
	// Version reported by the server.
	Version Version `json:"version"`

	// Description is the raw formatted text as sent by the server (string or component object).
	Description json.RawMessage `json:"description,omitempty"`

	// Favicon is a data:image/png;base64 URI, empty when the server has none.
	Favicon string `json:"favicon,omitempty"`

	// IP is the address the socket was connected to.
	IP string `json:"-"`

	// MOTD is Description decoded into a component tree.
	MOTD chat.Component `json:"-"`

	// Players holds the online/max counters and the optional sample.
	Players Players `json:"players"`

	// Latency is the ping/pong round trip in milliseconds.
	Latency int64 `json:"-"`

	// EnforcesSecureChat is set by servers that require signed chat messages.
	EnforcesSecureChat bool `json:"enforcesSecureChat,omitempty"`
}

// Version is the version block of a status response.
type Version struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// Players is the players block of a status response.
type Players struct {
	Sample []Player `json:"sample,omitempty"`
	Max    int      `json:"max"`
	Online int      `json:"online"`
}

// Player is one entry of the sampled player list.
type Player struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// parseStatus decodes a status response payload: varint(jsonLen) followed by UTF-8 JSON.
func parseStatus(payload []byte) (*Status, error) {
	length, off, err := wire.DecodeVarInt(payload, 0)
	if err != nil {
		if wire.IsProtocolError(err) {
			return nil, err
		}
		return nil, wire.NewProtocolError("truncated status response")
	}
	if int(length) > len(payload)-off {
		return nil, wire.NewProtocolError("truncated status response")
	}

	var st Status
	if err := json.Unmarshal(payload[off:off+int(length)], &st); err != nil {
		return nil, &wire.ProtocolError{Reason: "invalid status json: " + err.Error()}
	}

	if len(st.Description) > 0 {
		// A description that is neither a string nor a component leaves MOTD empty.
		_ = json.Unmarshal(st.Description, &st.MOTD)
	}

	return &st, nil
}
