package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/submit-bridge/backend/relaysrvc"
)

// submissionResult lets the original caller block for up to the requested
// timeout until the report for the request id arrives. The three outcomes
// are mapped to "done", "pending" and "unknown"; a timeout is not an error.
func (httpserver *HttpServer) submissionResult(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	timeout := httpserver.cfg.ResultTimeoutDefault()
	if v := r.URL.Query().Get("timeout"); v != "" {
		if sec, err := strconv.ParseFloat(v, 64); err == nil && sec >= 0 {
			timeout = time.Duration(sec * float64(time.Second))
		}
	}
	if max := httpserver.cfg.ResultTimeoutMax(); timeout > max {
		timeout = max
	}

	res, outcome := httpserver.relay.AwaitResult(r.Context(), requestID, timeout)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	switch outcome {
	case relaysrvc.AwaitDone:
		type doneResponse struct {
			Status string `json:"status"`
			Sid    string `json:"sid"`
			Surl   string `json:"surl"`
			Stime  string `json:"stime"`
		}
		json.NewEncoder(w).Encode(doneResponse{
			Status: "done",
			Sid:    res.SubmID,
			Surl:   res.SubmURL,
			Stime:  res.SubmTime,
		})
	case relaysrvc.AwaitPending:
		json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
	default:
		json.NewEncoder(w).Encode(map[string]string{"status": "unknown"})
	}
}
