package server

import (
	"context"
	"sync"
	"time"

	"github.com/woozymasta/mcstatus/internal/config"
	"github.com/woozymasta/mcstatus/internal/geoip"
	"github.com/woozymasta/mcstatus/internal/metrics"
	"github.com/woozymasta/mcstatus/internal/models"
	"github.com/woozymasta/mcstatus/internal/probe"
	"github.com/woozymasta/mcstatus/internal/storage"
)

// Prober runs one status probe. *probe.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, host string, port uint16, family probe.Family) (*probe.Result, error)
}

// HistoryStore persists and lists probe outcomes. *storage.Repository implements it.
type HistoryStore interface {
	InsertProbe(p models.ProbeRecord) (int64, error)
	History(f storage.HistoryFilter) ([]models.ProbeRecord, error)
}

// Server holds the dependencies, configuration, and runtime state required
// to handle HTTP requests and background history writes.
type Server struct {
	// prober runs the status queries. It keeps no state between probes.
	prober Prober

	// history stores every probe outcome. It can be nil, history is then neither written nor served.
	history HistoryStore

	// geoip resolves the connected server address to a country code.
	// It can be nil if the GeoIP database is not initialized.
	geoip *geoip.Provider

	// metrics collects probe and request counters. It can be nil.
	metrics *metrics.Collectors

	// queue is a buffered channel used to pass probe outcomes from HTTP handlers
	// to background workers for asynchronous persistence.
	queue chan historyJob

	// shutdown is a signal channel used to broadcast a stop signal to all background goroutines
	// during a graceful shutdown.
	shutdown chan struct{}

	// authToken is the secret token required to access the history API.
	authToken string

	// corsOrigin is sent as Access-Control-Allow-Origin.
	corsOrigin string

	// a2sOptions holds configuration settings for querying Source engine servers.
	a2sOptions config.A2S

	// wg is used to wait for all background workers to finish processing
	// before the server shuts down completely.
	wg sync.WaitGroup

	// shutdownOnce guards close(shutdown) and close(queue).
	shutdownOnce sync.Once

	// queueMu guards queueClosed. Senders hold it for reading, StopWorkers for writing.
	queueMu     sync.RWMutex
	queueClosed bool

	// workers is the number of history writer goroutines.
	workers int

	// historyLimit caps the number of rows returned by the history API.
	historyLimit int

	// hardLimitCount is the maximum number of requests allowed per IP address
	// within the hardLimitWin duration.
	hardLimitCount int

	// hardLimitWin is the time window duration for the hard rate limiter.
	hardLimitWin time.Duration

	// trustProxy indicates whether the server should trust headers like X-Forwarded-For
	// or CF-Connecting-IP when determining the client's real IP address.
	trustProxy bool
}

// historyJob represents one probe outcome waiting to be written by a background worker.
type historyJob struct {
	Record models.ProbeRecord
}
