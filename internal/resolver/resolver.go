// Package resolver applies the DNS service record override for a server address.
package resolver

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"time"
)

// Service record name parts looked up for every probe, regardless of the edition probed.
const (
	Service = "minecraft"
	Proto   = "tcp"
)

// DefaultTimeout bounds a single SRV lookup.
const DefaultTimeout = 2 * time.Second

// SRVLookuper is satisfied by *net.Resolver.
type SRVLookuper interface {
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
}

// Resolver rewrites a host/port pair from the _minecraft._tcp service record when one exists.
type Resolver struct {
	// Lookup performs the DNS query. net.DefaultResolver is used when nil.
	Lookup SRVLookuper

	// Timeout bounds the lookup independently of the probe deadline.
	Timeout time.Duration

	// Disabled skips the lookup entirely.
	Disabled bool
}

// Target is the endpoint a probe should connect to.
type Target struct {
	Host string
	Port uint16

	// SRV is true when Host and Port come from a service record.
	SRV bool
}

// New returns a Resolver backed by net.DefaultResolver.
func New(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Resolver{
		Lookup:  net.DefaultResolver,
		Timeout: timeout,
	}
}

// Resolve returns the connect target for host and port.
// Any lookup failure falls back silently to the given host and port.
func (r *Resolver) Resolve(ctx context.Context, host string, port uint16) Target {
	fallback := Target{Host: host, Port: port}

	if r == nil || r.Disabled || host == "" || isIP(host) {
		return fallback
	}

	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, records, err := lookup.LookupSRV(ctx, Service, Proto, host)
	if err != nil {
		return fallback
	}

	for _, rec := range records {
		if rec == nil || rec.Port == 0 {
			continue
		}

		target := strings.TrimSuffix(rec.Target, ".")
		if target == "" {
			continue
		}

		return Target{Host: target, Port: rec.Port, SRV: true}
	}

	return fallback
}

func isIP(host string) bool {
	_, err := netip.ParseAddr(strings.Trim(host, "[]"))
	return err == nil
}
