package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/submit-bridge/backend/httpjson"
	"github.com/submit-bridge/backend/notify"
)

// scoreReport accepts a judged-submission status callback and surfaces it
// through the local notifier. Notifier failures are logged and swallowed;
// they never reach the caller.
func (httpserver *HttpServer) scoreReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpjson.WriteErrorJson(w, "invalid form",
			http.StatusBadRequest, "invalid_form")
		return
	}

	sid := r.FormValue("sid")
	status := r.FormValue("status")

	label := notify.LabelForStatus(status)
	title := fmt.Sprintf("Submission %s", sid)
	if err := httpserver.notifier.Notify(title, label); err != nil {
		slog.Default().Warn("notification failed",
			"sid", sid, "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
