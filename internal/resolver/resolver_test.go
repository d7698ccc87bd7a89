package resolver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

type fakeLookup struct {
	err     error
	records []*net.SRV
	calls   int
	delay   time.Duration
}

func (f *fakeLookup) LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error) {
	f.calls++
	if service != Service || proto != Proto {
		return "", nil, errors.New("unexpected service")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", nil, ctx.Err()
		}
	}

	return "_minecraft._tcp." + name + ".", f.records, f.err
}

func TestResolve_UsesRecord(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{records: []*net.SRV{{Target: "mc.example.net.", Port: 25600}}}}

	got := r.Resolve(context.Background(), "example.net", 25565)
	if got.Host != "mc.example.net" || got.Port != 25600 || !got.SRV {
		t.Fatalf("unexpected target %+v", got)
	}
}

func TestResolve_LookupErrorFallsBack(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{err: &net.DNSError{Err: "no such host", IsNotFound: true}}}

	got := r.Resolve(context.Background(), "example.net", 19132)
	if got.Host != "example.net" || got.Port != 19132 || got.SRV {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestResolve_EmptyResultFallsBack(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{records: []*net.SRV{{Target: ".", Port: 0}}}}

	got := r.Resolve(context.Background(), "example.net", 25565)
	if got.SRV || got.Host != "example.net" {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestResolve_SlowLookupBounded(t *testing.T) {
	r := &Resolver{
		Lookup:  &fakeLookup{delay: time.Second, records: []*net.SRV{{Target: "late.example.net", Port: 1}}},
		Timeout: 20 * time.Millisecond,
	}

	start := time.Now()
	got := r.Resolve(context.Background(), "example.net", 25565)
	if got.SRV {
		t.Fatalf("expected fallback after timeout, got %+v", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("lookup was not bounded by timeout")
	}
}

func TestResolve_SkipsIPAndDisabled(t *testing.T) {
	f := &fakeLookup{records: []*net.SRV{{Target: "other", Port: 1}}}

	r := &Resolver{Lookup: f}
	r.Resolve(context.Background(), "127.0.0.1", 25565)
	r.Resolve(context.Background(), "::1", 25565)

	r.Disabled = true
	r.Resolve(context.Background(), "example.net", 25565)

	if f.calls != 0 {
		t.Fatalf("expected no lookups, got %d", f.calls)
	}
}
