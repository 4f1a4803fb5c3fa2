package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/submit-bridge/backend/httpjson"
	"github.com/submit-bridge/backend/relaysrvc"
)

// maxSubmitFormSize bounds the in-memory part of the multipart form.
const maxSubmitFormSize = 32 << 20

func (httpserver *HttpServer) submitCode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSubmitFormSize); err != nil {
		httpjson.WriteErrorJson(w, "invalid multipart form",
			http.StatusBadRequest, "invalid_form")
		return
	}

	problemCode := r.FormValue("problem_code")
	language := r.FormValue("language")

	file, _, err := r.FormFile("file")
	if err != nil {
		httpjson.WriteErrorJson(w, "source file is required",
			http.StatusBadRequest, "missing_file")
		return
	}
	defer file.Close()

	code, err := io.ReadAll(file)
	if err != nil {
		httpjson.WriteErrorJson(w, "failed to read source file",
			http.StatusBadRequest, "unreadable_file")
		return
	}

	receipt, err := httpserver.relay.Submit(r.Context(), relaysrvc.SubmitParams{
		ProblemCode: problemCode,
		Language:    language,
		Code:        string(code),
	})
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	type submitResponse struct {
		Status        string `json:"status"`
		SentToClients int    `json:"sent_to_clients"`
		RequestID     string `json:"request_id"`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(submitResponse{
		Status:        "queued",
		SentToClients: receipt.SentTo,
		RequestID:     receipt.RequestID,
	})
}
