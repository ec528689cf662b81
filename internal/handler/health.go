package handler

import (
	"net/http"

	"github.com/umoc/basecamp/backend/spec"
)

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml by serving the embedded document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats.Get(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "stats not found")
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Profiles: stats.Profiles,
		Trips:    stats.Trips,
		Admins:   stats.Admins,
	})
}
