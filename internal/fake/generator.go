// Package fake provides utilities for generating random probe history for testing and development purposes.
package fake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/mcstatus/internal/models"
)

// Inserter stores one probe outcome.
type Inserter interface {
	InsertProbe(p models.ProbeRecord) (int64, error)
}

// GenerateData populates the storage with count randomized probe outcomes.
// It simulates a pool of Java and Bedrock servers with varying versions, countries, and player counts.
func GenerateData(store Inserter, count int) int {
	javaVersions := []string{"1.20.4", "1.20.6", "1.21", "1.21.1", "Paper 1.21.4", "Velocity 3.3.0"}
	bedrockVersions := []string{"1.20.80", "1.21.2", "1.21.30"}
	motds := []string{"A Minecraft Server", "Survival SMP", "Skyblock | Minigames", "Creative build server", "Vanilla+"}

	// Countries list
	countriesHigh := []string{"US", "DE", "RU", "BR", "FR", "GB", "PL", "NL"}
	countriesLow := []string{"CA", "AU", "SE", "JP", "KR", "TR", "FI", "UA"}

	type endpoint struct {
		family  string
		host    string
		ip      string
		country string
		port    int
		max     int
	}

	// Servers are reused so history has several rows per endpoint
	pool := make([]endpoint, 0, max(count/5, 1))
	for i := 0; i < cap(pool); i++ {
		ep := endpoint{
			family: "java",
			host:   fmt.Sprintf("mc%d.example.net", i),
			ip:     fmt.Sprintf("%d.%d.%d.%d", rand.Intn(220)+1, rand.Intn(255), rand.Intn(255), rand.Intn(255)),
			port:   25565,
			max:    []int{20, 50, 100, 500}[rand.Intn(4)],
		}
		if rand.Float32() < 0.3 {
			ep.family = "bedrock"
			ep.port = 19132
		}
		if rand.Float32() < 0.8 {
			ep.country = countriesHigh[rand.Intn(len(countriesHigh))]
		} else {
			ep.country = countriesLow[rand.Intn(len(countriesLow))]
		}
		pool = append(pool, ep)
	}

	errorCodes := []string{"timeout", "connection_refused", "offline"}

	inserted := 0
	for i := 0; i < count; i++ {
		ep := pool[rand.Intn(len(pool))]

		// Random date-time in 30 days range
		checkedAt := time.Now().UTC().
			Add(-time.Duration(rand.Intn(30)) * 24 * time.Hour).
			Add(-time.Duration(rand.Intn(1440)) * time.Minute)

		rec := models.ProbeRecord{
			Family:    ep.family,
			Host:      ep.host,
			Port:      ep.port,
			CheckedAt: checkedAt,
		}

		// 15% chance the server was down
		if rand.Float32() < 0.15 {
			rec.ErrorCode = errorCodes[rand.Intn(len(errorCodes))]
		} else {
			rec.Online = true
			rec.TargetHost = ep.host
			rec.TargetPort = ep.port
			rec.IP = ep.ip
			rec.CountryCode = ep.country
			rec.Latency = int64(10 + rand.Intn(250))
			rec.MOTD = motds[rand.Intn(len(motds))]
			rec.PlayersMax = ep.max
			rec.PlayersOnline = rand.Intn(ep.max + 1)
			if ep.family == "bedrock" {
				rec.Version = bedrockVersions[rand.Intn(len(bedrockVersions))]
			} else {
				rec.Version = javaVersions[rand.Intn(len(javaVersions))]
			}
		}

		if _, err := store.InsertProbe(rec); err != nil {
			log.Warn().Err(err).Msg("Failed to generate fake probe record")
			continue
		}
		inserted++
	}

	return inserted
}
