package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/mcstatus/internal/favicon"
	"github.com/woozymasta/mcstatus/internal/game"
	"github.com/woozymasta/mcstatus/internal/metrics"
	"github.com/woozymasta/mcstatus/internal/models"
	"github.com/woozymasta/mcstatus/internal/probe"
	"github.com/woozymasta/mcstatus/internal/storage"
	"github.com/woozymasta/mcstatus/internal/vars"
)

// respondJSON writes v as the JSON body with the given status code.
func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusCodeFor maps a probe failure to the HTTP status of the error response.
func statusCodeFor(kind probe.Kind) int {
	if kind == probe.KindTimeout {
		return http.StatusGatewayTimeout
	}

	return http.StatusBadGateway
}

// handleIndex lists the public endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":    vars.Name,
		"version": vars.Version,
		"endpoints": []string{
			"/status/java/{address}",
			"/status/bedrock/{address}",
			"/icon/{address}",
			"/api/a2s?ip=&port=",
			"/api/version",
		},
	})
}

// handleVersion returns build information.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, vars.Info())
}

// runProbe runs one probe, records the outcome and returns it.
func (s *Server) runProbe(r *http.Request, host string, port uint16, family probe.Family) (*probe.Result, string, error) {
	res, err := s.prober.Probe(r.Context(), host, port, family)

	var country string
	if err == nil {
		country = s.geoip.CountryCode(res.IP())
	}

	result := metrics.ResultSuccess
	var latency int64
	var srv bool
	if err != nil {
		result = string(probe.Classify(err))
		var pe *probe.Error
		if errors.As(err, &pe) && pe.Protocol() {
			result = metrics.ResultProtocolError
		}

		log.Debug().
			Err(err).
			Str("family", string(family)).
			Str("host", host).
			Uint16("port", port).
			Msg("Status probe failed")
	} else {
		latency = res.Latency()
		srv = res.Target.SRV
	}
	s.metrics.ObserveProbe(string(family), result, latency, srv)

	s.enqueueHistory(probe.Record(family, host, port, res, err, country, time.Now().UTC()))

	return res, country, err
}

// handleStatus probes the server named by the {address} path value with the given family.
func (s *Server) handleStatus(family probe.Family) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, port, err := probe.ParseAddress(r.PathValue("address"), family.DefaultPort())
		if err != nil {
			respondJSON(w, http.StatusBadRequest, invalidAddressResponse(r.PathValue("address"), err, time.Now().UTC()))
			return
		}

		res, country, err := s.runProbe(r, host, port, family)
		now := time.Now().UTC()
		if err != nil {
			respondJSON(w, statusCodeFor(probe.Classify(err)), failureResponse(host, port, err, now))
			return
		}

		if family == probe.FamilyBedrock {
			respondJSON(w, http.StatusOK, toBedrockResponse(res, country, now))
			return
		}
		respondJSON(w, http.StatusOK, toJavaResponse(res, country, now))
	})
}

// handleIcon serves the favicon of a Java server as a PNG image.
func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	host, port, err := probe.ParseAddress(r.PathValue("address"), probe.FamilyJava.DefaultPort())
	if err != nil {
		respondJSON(w, http.StatusBadRequest, invalidAddressResponse(r.PathValue("address"), err, time.Now().UTC()))
		return
	}

	res, _, err := s.runProbe(r, host, port, probe.FamilyJava)
	if err != nil {
		respondJSON(w, statusCodeFor(probe.Classify(err)), failureResponse(host, port, err, time.Now().UTC()))
		return
	}

	img, err := favicon.Decode(res.Java.Favicon)
	if err != nil {
		if !errors.Is(err, favicon.ErrEmpty) {
			log.Debug().Err(err).Str("host", host).Msg("Invalid favicon")
		}
		http.NotFound(w, r)
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(img), 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

// handleServerQuery performs a live A2S query to a Source engine server.
// Query params: ?ip=1.2.3.4&port=27015
func (s *Server) handleServerQuery(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("ip")
	portStr := r.URL.Query().Get("port")

	if host == "" || portStr == "" {
		http.Error(w, "Missing ip or port", http.StatusBadRequest)
		return
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		http.Error(w, "Invalid port", http.StatusBadRequest)
		return
	}

	info, err := game.QueryServer(r.Context(), host, uint16(port), s.a2sOptions)
	if err != nil {
		kind := probe.Classify(err)
		s.metrics.ObserveProbe("a2s", string(kind), 0, false)
		respondJSON(w, statusCodeFor(kind), failureResponse(host, uint16(port), err, time.Now().UTC()))
		return
	}
	s.metrics.ObserveProbe("a2s", metrics.ResultSuccess, info.Latency, false)

	info.CountryCode = s.geoip.CountryCode(info.IPAddress)
	respondJSON(w, http.StatusOK, info)
}

// handleHistory returns recent probe outcomes.
// Query params: ?family=java&host=example.net&port=25565&limit=50
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.HistoryFilter{
		Family: q.Get("family"),
		Host:   q.Get("host"),
		Limit:  s.historyLimit,
	}
	if filter.Family != "" {
		if _, ok := probe.ParseFamily(filter.Family); !ok {
			http.Error(w, "Invalid family", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("port"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			http.Error(w, "Invalid port", http.StatusBadRequest)
			return
		}
		filter.Port = int(port)
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		if s.historyLimit <= 0 || limit < s.historyLimit {
			filter.Limit = limit
		}
	}

	records, err := s.history.History(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch probe history")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []models.ProbeRecord{}
	}

	respondJSON(w, http.StatusOK, records)
}
