// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/mcstatus/internal/logger"
	"github.com/woozymasta/mcstatus/internal/vars"
)

// AnyFamily marks a maintenance recheck for every edition.
const AnyFamily = "any"

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"MCSTATUS"`
	Probe     Probe         `group:"Probe Options" namespace:"probe" env-namespace:"MCSTATUS_PROBE"`
	Storage   Storage       `group:"Storage Options" namespace:"db" env-namespace:"MCSTATUS_DB"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"MCSTATUS_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"MCSTATUS_RATE_LIMIT"`
	A2S       A2S           `group:"A2S Options" namespace:"a2s" env-namespace:"MCSTATUS_A2S"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"MCSTATUS_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Address    string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken  string `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Admin token for the history API, history API disabled when empty"`
	CORSOrigin string `long:"cors-origin" env:"CORS_ORIGIN" description:"Value of Access-Control-Allow-Origin" default:"*"`
	TrustProxy bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
	Workers    int    `long:"workers" env:"WORKERS" description:"History writer workers" default:"4"`
	QueueSize  int    `long:"queue-size" env:"QUEUE_SIZE" description:"History writer queue size" default:"1000"`
}

// Probe holds status query configuration.
type Probe struct {
	// betteralign:ignore

	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"Whole probe deadline" default:"7s"`
	SRVTimeout time.Duration `long:"srv-timeout" env:"SRV_TIMEOUT" description:"SRV record lookup timeout" default:"2s"`
	DisableSRV bool          `long:"disable-srv" env:"DISABLE_SRV" description:"Do not look up _minecraft._tcp SRV records"`
	BufferSize uint16        `long:"buffer-size" env:"BUFFER_SIZE" description:"Bedrock pong receive buffer size" default:"1500"`
}

// Storage holds database configuration.
type Storage struct {
	// betteralign:ignore

	Path          string        `short:"d" long:"path" env:"PATH" description:"Path to SQLite database" default:"mcstatus.db"`
	HistoryLimit  int           `long:"history-limit" env:"HISTORY_LIMIT" description:"Max rows returned by the history API" default:"100"`
	PruneOlder    time.Duration `long:"prune-older-than" description:"Delete probe history older than duration and exit"`
	Recheck       string        `long:"recheck" description:"Re-probe every endpoint in history and exit. Optional arg: java or bedrock." optional:"true" optional-value:"any"`
	GenerateCount int           `long:"gen-fake-data" hidden:"true"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file" default:"mcstatus.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// A2S holds Source Query protocol configuration.
type A2S struct {
	// betteralign:ignore

	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"Query timeout" default:"3s"`
	BufferSize uint16        `long:"buffer-size" env:"BUFFER_SIZE" description:"Response body buffer size" default:"1400"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	HardLimitCount int           `long:"hard-count" env:"HARD_COUNT" description:"Per IP limit: requests count" default:"30"`
	HardLimitWin   time.Duration `long:"hard-window" env:"HARD_WINDOW" description:"Per IP limit: window duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return &cfg
}

// Validate checks values go-flags cannot express as constraints.
func (c *Config) Validate() error {
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("`--probe-timeout' must be positive, got %s", c.Probe.Timeout)
	}
	if c.Probe.SRVTimeout >= c.Probe.Timeout {
		return fmt.Errorf("`--probe-srv-timeout' (%s) must be shorter than `--probe-timeout' (%s)",
			c.Probe.SRVTimeout, c.Probe.Timeout)
	}

	switch c.Storage.Recheck {
	case "", AnyFamily, "java", "bedrock":
	default:
		return fmt.Errorf("`--db-recheck' accepts java or bedrock, got %q", c.Storage.Recheck)
	}

	if c.Server.Workers < 1 {
		c.Server.Workers = 1
	}
	if c.Server.QueueSize < 1 {
		c.Server.QueueSize = 1
	}
	if c.RateLimit.HardLimitCount < 1 || c.RateLimit.HardLimitWin <= 0 {
		return fmt.Errorf("rate limit count and window must be positive")
	}

	return nil
}
