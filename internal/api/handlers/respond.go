package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lexprocure/api/internal/apperr"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError maps the error taxonomy onto status codes. Internal errors are
// logged server-side and masked in the body.
func writeError(w http.ResponseWriter, err error) {
	e := apperr.FromError(err)
	if e.Kind == apperr.KindInternal {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, e.Status(), envelope{Success: false, Message: e.Message})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
