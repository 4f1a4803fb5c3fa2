package http

import (
	"encoding/json"
	"net/http"
)

// contestInfo returns the configured contest display name. The value is
// static for the lifetime of the process.
func (httpserver *HttpServer) contestInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"contest": httpserver.cfg.ContestName,
	})
}
