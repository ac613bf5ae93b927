package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when no database is loaded.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Resolver maps donor IP addresses to ISO country codes using a MaxMind
// GeoIP2/GeoLite2 country database. A nil *Resolver is valid and resolves
// nothing.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the database at path. An empty path yields a nil resolver.
func Open(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Lookup returns the upper-case ISO country code for ip. Private, loopback
// and unspecified addresses resolve to "" without consulting the database.
func (r *Resolver) Lookup(ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return "", nil
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil {
		return "", nil
	}
	return strings.ToUpper(record.Country.IsoCode), nil
}

// Close releases the database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
