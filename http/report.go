package http

import (
	"encoding/json"
	"net/http"

	"github.com/submit-bridge/backend/httpjson"
	"github.com/submit-bridge/backend/relaysrvc"
)

// submissionReport accepts the out-of-band callback from the client that
// performed the actual judge submission. Unknown and duplicated request ids
// are accepted silently; the response is "ok" either way.
func (httpserver *HttpServer) submissionReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpjson.WriteErrorJson(w, "invalid form",
			http.StatusBadRequest, "invalid_form")
		return
	}

	requestID := r.FormValue("request_id")
	if requestID == "" {
		httpjson.WriteErrorJson(w, "request_id is required",
			http.StatusBadRequest, "missing_request_id")
		return
	}

	httpserver.relay.Report(r.Context(), requestID, relaysrvc.Result{
		SubmID:   r.FormValue("sid"),
		SubmURL:  r.FormValue("surl"),
		SubmTime: r.FormValue("stime"),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
