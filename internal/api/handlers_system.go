// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"
)

// statusResponse is the lightweight operational snapshot behind /api/status.
type statusResponse struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Time          string `json:"time"`
	ChartArchive  bool   `json:"chart_archive"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Service:       "astrod",
		Version:       s.cfg.Version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Time:          time.Now().UTC().Format(time.RFC3339),
		ChartArchive:  s.charts != nil,
	})
}
