// Package server implements the HTTP server, middleware, and request handlers for the application.
package server

import (
	"net/http"

	"github.com/woozymasta/mcstatus/internal/config"
	"github.com/woozymasta/mcstatus/internal/geoip"
	"github.com/woozymasta/mcstatus/internal/metrics"
	"github.com/woozymasta/mcstatus/internal/probe"
)

// New creates a new Server instance with the provided prober, history store, GeoIP provider, and configuration.
// history, geo and m may be nil.
func New(prober Prober, history HistoryStore, geo *geoip.Provider, m *metrics.Collectors, cfg *config.Config) *Server {
	return &Server{
		prober:         prober,
		history:        history,
		geoip:          geo,
		metrics:        m,
		a2sOptions:     cfg.A2S,
		authToken:      cfg.Server.AuthToken,
		corsOrigin:     cfg.Server.CORSOrigin,
		trustProxy:     cfg.Server.TrustProxy,
		workers:        cfg.Server.Workers,
		historyLimit:   cfg.Storage.HistoryLimit,
		hardLimitCount: cfg.RateLimit.HardLimitCount,
		hardLimitWin:   cfg.RateLimit.HardLimitWin,

		queue:    make(chan historyJob, max(cfg.Server.QueueSize, 1)),
		shutdown: make(chan struct{}),
	}
}

// StartWorkers initializes the background worker pool that writes probe history.
func (s *Server) StartWorkers() {
	if s.history == nil {
		return
	}

	for i := 0; i < max(s.workers, 1); i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// StopWorkers gracefully stops the background workers after the queue is drained.
// Outcomes of requests still in flight are dropped from then on.
func (s *Server) StopWorkers() {
	s.shutdownOnce.Do(func() {
		s.queueMu.Lock()
		s.queueClosed = true
		close(s.shutdown)
		close(s.queue)
		s.queueMu.Unlock()
	})
	s.wg.Wait()
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	limited := s.RateLimitMiddleware
	mux.Handle("GET /status/java/{address}", limited(s.handleStatus(probe.FamilyJava)))
	mux.Handle("GET /status/bedrock/{address}", limited(s.handleStatus(probe.FamilyBedrock)))
	mux.Handle("GET /icon/{address}", limited(http.HandlerFunc(s.handleIcon)))
	mux.Handle("GET /api/a2s", limited(http.HandlerFunc(s.handleServerQuery)))

	if s.history != nil && s.authToken != "" {
		mux.Handle("GET /api/history", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleHistory)))
	}

	mux.Handle("GET /api/version", http.HandlerFunc(s.handleVersion))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.Handle("GET /{$}", http.HandlerFunc(s.handleIndex))

	return s.LoggingMiddleware(s.CORSMiddleware(mux))
}
