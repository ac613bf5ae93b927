package geoip

import (
	"errors"
	"testing"
)

func TestOpenEmptyPath(t *testing.T) {
	r, err := Open("  ")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if r != nil {
		t.Fatalf("Open() with empty path returned a resolver")
	}
}

func TestNilResolverLookup(t *testing.T) {
	var r *Resolver
	if _, err := r.Lookup("203.0.113.9"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Lookup() error = %v, want ErrUnavailable", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() on nil resolver: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatalf("Open() expected error for missing database")
	}
}
