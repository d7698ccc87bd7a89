// Package probe resolves a server address and runs the status query for the requested edition,
// classifying any failure into a stable error kind.
package probe

import (
	"context"
	"fmt"

	"github.com/woozymasta/mcstatus/internal/bedrock"
	"github.com/woozymasta/mcstatus/internal/config"
	"github.com/woozymasta/mcstatus/internal/java"
	"github.com/woozymasta/mcstatus/internal/resolver"
)

// Family selects the protocol used for a probe.
type Family string

// Supported families.
const (
	FamilyJava    Family = "java"
	FamilyBedrock Family = "bedrock"
)

// ParseFamily returns the Family named by s.
func ParseFamily(s string) (Family, bool) {
	switch Family(s) {
	case FamilyJava, FamilyBedrock:
		return Family(s), true
	}

	return "", false
}

// DefaultPort returns the default server port of the family.
func (f Family) DefaultPort() uint16 {
	if f == FamilyBedrock {
		return bedrock.DefaultPort
	}

	return java.DefaultPort
}

// Result is a successful probe.
type Result struct {
	Java    *java.Status
	Bedrock *bedrock.Status

	Family Family
	Host   string
	Target resolver.Target
	Port   uint16
}

// IP returns the address of the socket peer.
func (r *Result) IP() string {
	switch {
	case r.Java != nil:
		return r.Java.IP
	case r.Bedrock != nil:
		return r.Bedrock.IP
	}

	return ""
}

// Latency returns the measured round trip in milliseconds.
func (r *Result) Latency() int64 {
	switch {
	case r.Java != nil:
		return r.Java.Latency
	case r.Bedrock != nil:
		return r.Bedrock.Latency
	}

	return 0
}

// StatusClient is implemented by the edition clients.
type StatusClient[T any] interface {
	Status(ctx context.Context, host string, port uint16) (T, error)
}

// Prober runs independent one-shot probes. It holds no per-probe state and is safe for concurrent use.
type Prober struct {
	Resolver *resolver.Resolver
	Java     StatusClient[*java.Status]
	Bedrock  StatusClient[*bedrock.Status]
}

// New creates a Prober from the probe options.
func New(opts config.Probe) *Prober {
	res := resolver.New(opts.SRVTimeout)
	res.Disabled = opts.DisableSRV

	return &Prober{
		Resolver: res,
		Java:     java.New(opts.Timeout),
		Bedrock:  &bedrock.Client{Timeout: opts.Timeout, BufferSize: opts.BufferSize},
	}
}

// Probe resolves host/port through the service record and queries the server.
// Failures are returned as *Error.
func (p *Prober) Probe(ctx context.Context, host string, port uint16, family Family) (*Result, error) {
	target := p.Resolver.Resolve(ctx, host, port)

	res := &Result{
		Family: family,
		Host:   host,
		Port:   port,
		Target: target,
	}

	var err error
	switch family {
	case FamilyJava:
		res.Java, err = p.Java.Status(ctx, target.Host, target.Port)
	case FamilyBedrock:
		res.Bedrock, err = p.Bedrock.Status(ctx, target.Host, target.Port)
	default:
		return nil, fmt.Errorf("unknown family %q", family)
	}

	if err != nil {
		return nil, &Error{Kind: Classify(err), Err: err}
	}

	return res, nil
}
