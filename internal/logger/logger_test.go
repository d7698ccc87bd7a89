package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcstatus.log")

	closer := Setup(Config{Level: "debug", Format: "json", Output: path})
	if closer == nil {
		t.Fatalf("expected file closer")
	}
	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	log.Debug().Str("host", "example.net").Msg("probe done")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"host":"example.net"`) || !strings.Contains(string(data), `"level":"debug"`) {
		t.Fatalf("unexpected log line %s", data)
	}
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	closer := Setup(Config{Level: "loud", Output: "stderr"})
	if closer != nil {
		t.Fatalf("stderr must not return a closer")
	}
	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %s, want info", zerolog.GlobalLevel())
	}
}
