// Package maintenance provides one-shot tasks that prune or refresh the probe history.
package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/mcstatus/internal/config"
	"github.com/woozymasta/mcstatus/internal/geoip"
	"github.com/woozymasta/mcstatus/internal/models"
	"github.com/woozymasta/mcstatus/internal/probe"
)

// workers is the size of the recheck pool.
const workers = 10

// Store is the part of the history repository the tasks need.
type Store interface {
	InsertProbe(p models.ProbeRecord) (int64, error)
	Endpoints(family string) ([]models.Endpoint, error)
	PruneBefore(t time.Time) (int64, error)
}

// Prober runs one status probe.
type Prober interface {
	Probe(ctx context.Context, host string, port uint16, family probe.Family) (*probe.Result, error)
}

// Run checks if any maintenance flags are set and executes the corresponding task.
// Returns true if a maintenance task was executed (indicating the program should exit).
func Run(ctx context.Context, cfg *config.Config, store Store, prober Prober, geo *geoip.Provider) bool {
	if cfg.Storage.PruneOlder > 0 {
		before := time.Now().Add(-cfg.Storage.PruneOlder)
		log.Info().Time("before", before).Msg("Pruning probe history...")

		count, err := store.PruneBefore(before)
		if err != nil {
			log.Error().Err(err).Msg("Failed to prune probe history")
		} else {
			log.Info().Int64("deleted", count).Msg("Prune finished")
		}

		return true
	}

	if cfg.Storage.Recheck == "" {
		return false
	}

	family := familyFilter(cfg.Storage.Recheck)
	log.Info().Str("family_filter", family).Msg("Fetching endpoints for re-check...")

	endpoints, err := store.Endpoints(family)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch endpoints")
		return true
	}

	if len(endpoints) == 0 {
		log.Info().Msg("No endpoints found for maintenance")
		return true
	}

	log.Info().Int("count", len(endpoints)).Int("workers", workers).Msg("Starting re-check")
	online := recheck(ctx, endpoints, store, prober, geo)
	log.Info().Int("online", online).Int("count", len(endpoints)).Msg("Maintenance task completed")

	return true
}

// familyFilter maps the optional flag value to the storage filter, empty meaning every family.
func familyFilter(input string) string {
	if input == config.AnyFamily {
		return ""
	}

	return input
}

// recheck probes every endpoint on a fixed pool and stores each outcome.
// It returns the number of endpoints that answered.
func recheck(ctx context.Context, endpoints []models.Endpoint, store Store, prober Prober, geo *geoip.Provider) int {
	jobs := make(chan models.Endpoint, len(endpoints))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		online int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ep := range jobs {
				if processEndpoint(ctx, ep, store, prober, geo) {
					mu.Lock()
					online++
					mu.Unlock()
				}
			}
		}()
	}

	for _, ep := range endpoints {
		jobs <- ep
	}
	close(jobs)

	wg.Wait()

	return online
}

func processEndpoint(ctx context.Context, ep models.Endpoint, store Store, prober Prober, geo *geoip.Provider) bool {
	logCtx := log.With().
		Str("family", ep.Family).
		Str("host", ep.Host).
		Int("port", ep.Port).
		Logger()

	family, ok := probe.ParseFamily(ep.Family)
	if !ok || ep.Port < 1 || ep.Port > 65535 {
		logCtx.Debug().Msg("Skipping invalid endpoint")
		return false
	}
	port := uint16(ep.Port)

	res, err := prober.Probe(ctx, ep.Host, port, family)

	var country string
	if err != nil {
		logCtx.Debug().Err(err).Msg("Server unreachable")
	} else {
		country = geo.CountryCode(res.IP())
	}

	if _, err := store.InsertProbe(probe.Record(family, ep.Host, port, res, err, country, time.Now().UTC())); err != nil {
		logCtx.Error().Err(err).Msg("Failed to save probe outcome")
	}

	return err == nil
}
