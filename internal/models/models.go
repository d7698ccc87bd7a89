// Package models defines the data structures used for API responses and database persistence.
package models

import (
	"encoding/json"
	"time"
)

// ProbeRecord is one probe outcome stored in the history database.
type ProbeRecord struct {
	CheckedAt     time.Time `json:"checked_at"`
	Family        string    `json:"family"`
	Host          string    `json:"host"`
	TargetHost    string    `json:"target_host,omitempty"`
	IP            string    `json:"ip,omitempty"`
	CountryCode   string    `json:"country_code,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	Version       string    `json:"version,omitempty"`
	MOTD          string    `json:"motd,omitempty"`
	ID            int64     `json:"id"`
	Latency       int64     `json:"latency"`
	Port          int       `json:"port"`
	TargetPort    int       `json:"target_port,omitempty"`
	PlayersOnline int       `json:"players_online"`
	PlayersMax    int       `json:"players_max"`
	Online        bool      `json:"online"`
	SRV           bool      `json:"srv"`
}

// Endpoint identifies a probed server address.
type Endpoint struct {
	Family string `json:"family"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
}

// SRVRecord is the endpoint a service record pointed to.
type SRVRecord struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// MOTD is a server description in its rendered forms.
type MOTD struct {
	Raw       json.RawMessage `json:"raw,omitempty"`
	Formatted string          `json:"formatted"`
	Clean     string          `json:"clean"`
}

// ErrorBody describes a failed probe.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusBase holds the fields shared by every status response.
type StatusBase struct {
	RetrievedAt time.Time  `json:"retrieved_at"`
	SRVRecord   *SRVRecord `json:"srv_record"`
	Error       *ErrorBody `json:"error,omitempty"`
	Host        string     `json:"host"`
	IPAddress   string     `json:"ip_address,omitempty"`
	CountryCode string     `json:"country_code,omitempty"`
	Port        uint16     `json:"port"`
	Online      bool       `json:"online"`
}

// JavaResponse is the body of GET /status/java/{address}.
type JavaResponse struct {
	StatusBase

	Icon    *string     `json:"icon"`
	Version JavaVersion `json:"version"`
	MOTD    MOTD        `json:"motd"`
	Players JavaPlayers `json:"players"`
	Latency int64       `json:"latency"`

	EnforcesSecureChat bool `json:"enforces_secure_chat"`
}

// JavaVersion is the version block of a Java status.
type JavaVersion struct {
	Name      string `json:"name_raw"`
	NameClean string `json:"name_clean"`
	Protocol  int    `json:"protocol"`
}

// JavaPlayers is the players block of a Java status.
type JavaPlayers struct {
	List   []JavaPlayer `json:"list"`
	Online int          `json:"online"`
	Max    int          `json:"max"`
}

// JavaPlayer is one sampled player.
type JavaPlayer struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name_raw"`
	NameClean string `json:"name_clean"`
}

// BedrockResponse is the body of GET /status/bedrock/{address}.
type BedrockResponse struct {
	StatusBase

	NintendoLimited *bool          `json:"nintendo_limited,omitempty"`
	PortIPv4        *uint16        `json:"port_ipv4,omitempty"`
	PortIPv6        *uint16        `json:"port_ipv6,omitempty"`
	Edition         string         `json:"edition"`
	ServerID        string         `json:"server_id"`
	WorldName       string         `json:"world_name"`
	GameMode        string         `json:"gamemode"`
	MOTD            MOTD           `json:"motd"`
	Version         BedrockVersion `json:"version"`
	Players         BedrockPlayers `json:"players"`
	Latency         int64          `json:"latency"`
}

// BedrockVersion is the version block of a Bedrock status.
type BedrockVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// BedrockPlayers is the players block of a Bedrock status.
type BedrockPlayers struct {
	Online int `json:"online"`
	Max    int `json:"max"`
}

// SourceResponse is the body of GET /api/a2s.
type SourceResponse struct {
	RetrievedAt time.Time `json:"retrieved_at"`
	Host        string    `json:"host"`
	IPAddress   string    `json:"ip_address"`
	CountryCode string    `json:"country_code,omitempty"`
	Name        string    `json:"name"`
	Map         string    `json:"map"`
	Game        string    `json:"game"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Latency     int64     `json:"latency"`
	Players     int       `json:"players"`
	MaxPlayers  int       `json:"max_players"`
	Port        uint16    `json:"port"`
}
