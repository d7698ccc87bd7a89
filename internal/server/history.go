package server

import (
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/mcstatus/internal/models"
)

// enqueueHistory hands a probe outcome to the background writers without blocking the response.
func (s *Server) enqueueHistory(rec models.ProbeRecord) {
	if s.history == nil {
		return
	}

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	if s.queueClosed {
		log.Debug().
			Str("family", rec.Family).
			Str("host", rec.Host).
			Msg("Workers stopped, probe outcome not saved")
		return
	}

	select {
	case s.queue <- historyJob{Record: rec}:
		s.metrics.SetQueueLength(len(s.queue))
	default:
		s.metrics.HistoryDropped()
		log.Warn().
			Str("family", rec.Family).
			Str("host", rec.Host).
			Int("port", rec.Port).
			Msg("History queue full, probe outcome dropped")
	}
}

// worker is a background goroutine that writes jobs from the history queue.
func (s *Server) worker() {
	defer s.wg.Done()

	for job := range s.queue {
		s.processJob(job)
		s.metrics.SetQueueLength(len(s.queue))
	}
}

// processJob persists a single probe outcome.
func (s *Server) processJob(job historyJob) {
	id, err := s.history.InsertProbe(job.Record)
	if err != nil {
		log.Error().
			Err(err).
			Str("family", job.Record.Family).
			Str("host", job.Record.Host).
			Msg("Failed to save probe outcome to DB")
		return
	}

	log.Trace().
		Int64("id", id).
		Str("family", job.Record.Family).
		Str("host", job.Record.Host).
		Int("port", job.Record.Port).
		Bool("online", job.Record.Online).
		Msg("Probe outcome saved")
}
