// main is the entry point of the mcstatus service.
// It initializes the configuration, logger, database, GeoIP provider, and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/mcstatus/internal/config"
	"github.com/woozymasta/mcstatus/internal/fake"
	"github.com/woozymasta/mcstatus/internal/geoip"
	"github.com/woozymasta/mcstatus/internal/logger"
	"github.com/woozymasta/mcstatus/internal/maintenance"
	"github.com/woozymasta/mcstatus/internal/metrics"
	"github.com/woozymasta/mcstatus/internal/probe"
	"github.com/woozymasta/mcstatus/internal/server"
	"github.com/woozymasta/mcstatus/internal/storage"
	"github.com/woozymasta/mcstatus/internal/vars"
)

func main() {
	cfg := config.Parse()

	if closer := logger.Setup(cfg.Logger); closer != nil {
		defer func() { _ = closer.Close() }()
	}
	log.Info().Str("version", vars.Version).Str("commit", vars.CommitShort()).Msg("Starting mcstatus service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// GeoIP Update
	log.Info().Msg("Checking GeoIP database...")
	if err := geoip.EnsureDB(ctx, cfg.GeoIP.Path, cfg.GeoIP.URL, cfg.GeoIP.Interval); err != nil {
		log.Error().Err(err).Msg("Failed to download GeoIP database")
	}

	geoProvider, err := geoip.Open(cfg.GeoIP.Path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
		geoProvider = nil
	} else {
		defer func() {
			if err := geoProvider.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing GeoIP provider")
			}
		}()
	}

	// Database
	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	prober := probe.New(cfg.Probe)

	// data generation or database maintenance
	if cfg.Storage.GenerateCount > 0 {
		n := fake.GenerateData(store, cfg.Storage.GenerateCount)
		log.Info().Int("inserted", n).Msg("Fake probe history generated")
		return
	} else if maintenance.Run(ctx, cfg, store, prober, geoProvider) {
		return
	}

	// Init server
	srvHandler := server.New(prober, store, geoProvider, metrics.New(), cfg)

	// Background queue
	srvHandler.StartWorkers()

	// WriteTimeout must outlive the probe deadline
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Probe.SRVTimeout + cfg.Probe.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	// Shut down HTTP
	// A request in flight may spend the SRV timeout and then the whole probe timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Probe.SRVTimeout+cfg.Probe.Timeout+2*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop workers (wait queue done)
	srvHandler.StopWorkers()

	log.Info().Msg("Server exited")
}
