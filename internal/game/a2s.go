// Package game queries Source engine game servers using the A2S protocol,
// reported alongside the Minecraft editions through the same error taxonomy.
package game

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/woozymasta/a2s/pkg/a2s"
	"github.com/woozymasta/mcstatus/internal/config"
	"github.com/woozymasta/mcstatus/internal/models"
)

// QueryServer resolves host, connects to the game server via UDP and requests A2S_INFO.
// It returns server details (such as name, map, players) or an error if the server is unreachable.
func QueryServer(ctx context.Context, host string, port uint16, options config.A2S) (*models.SourceResponse, error) {
	ip, err := resolveIPv4(ctx, host, options.Timeout)
	if err != nil {
		return nil, err
	}

	client, err := a2s.New(ip, int(port))
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	client.BufferSize = options.BufferSize
	client.Timeout = options.Timeout

	start := time.Now()
	info, err := client.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("a2s info %s:%d: %w", ip, port, err)
	}

	return &models.SourceResponse{
		Host:        host,
		Port:        port,
		IPAddress:   ip,
		Name:        info.Name,
		Map:         info.Map,
		Game:        info.Game,
		Version:     info.Version,
		Environment: info.Environment.String(),
		Players:     int(info.Players),
		MaxPlayers:  int(info.MaxPlayers),
		Latency:     time.Since(start).Round(time.Millisecond).Milliseconds(),
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// resolveIPv4 returns host itself when it is an IPv4 literal, otherwise its first IPv4 address.
func resolveIPv4(ctx context.Context, host string, timeout time.Duration) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", &net.AddrError{Err: "A2S supports IPv4 only", Addr: host}
		}
		return ip.String(), nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}

	return "", &net.DNSError{Err: "no IPv4 address", Name: host, IsNotFound: true}
}
