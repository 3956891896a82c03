package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"extract": s.stats.Snapshot(),
		"cache":   s.cache.Stats(),
	})
}
