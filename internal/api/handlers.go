package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	triples, err := s.graph.ListRelationships(r.Context())
	if err != nil {
		s.logger.Error("failed to list relationships", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not list relationships")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]any{
		"count":         len(triples),
		"relationships": triples,
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string, len(s.checks))
	healthy := true
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		code = http.StatusInternalServerError
		response = []byte(`{"error":"encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
