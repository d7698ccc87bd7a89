package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNilProvider(t *testing.T) {
	var p *Provider
	if got := p.CountryCode("8.8.8.8"); got != "" {
		t.Fatalf("CountryCode = %q", got)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
}

func TestEnsureDB_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mmdb"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "country.mmdb")
	if err := EnsureDB(context.Background(), path, srv.URL, time.Hour); err != nil {
		t.Fatalf("EnsureDB err=%v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "mmdb" {
		t.Fatalf("downloaded %q, %v", data, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}

func TestEnsureDB_FreshFileSkipsDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country.mmdb")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := EnsureDB(context.Background(), path, "http://127.0.0.1:1/unreachable", time.Hour); err != nil {
		t.Fatalf("EnsureDB err=%v", err)
	}
}

func TestEnsureDB_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "country.mmdb")
	if err := EnsureDB(context.Background(), path, srv.URL, time.Hour); err == nil {
		t.Fatalf("expected error for 404")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("database must not be created on failure")
	}
}
