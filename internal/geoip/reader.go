package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Provider wraps the GeoIP2 database reader to resolve server addresses to countries.
// A nil *Provider is valid and resolves nothing.
type Provider struct {
	db *geoip2.Reader
}

// Open initializes the GeoIP database reader from a specific file path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db}, nil
}

// Close closes the underlying GeoIP database reader.
func (p *Provider) Close() error {
	if p == nil {
		return nil
	}

	return p.db.Close()
}

// CountryCode looks up the ISO country code (e.g., "US", "DE") of the address a probe connected to.
// It returns an empty string for private, loopback or unknown addresses.
func (p *Provider) CountryCode(ipStr string) string {
	if p == nil || p.db == nil {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return ""
	}

	record, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}
