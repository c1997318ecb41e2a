package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loginus-id/api/internal/domain"
)

// Envelope is the generic response wrapper consumed by the frontend.
// Success responses carry Data; failures carry Error (a stable code) and
// Message (human-readable text).
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: code, Message: msg})
}

// writeFlowError renders an expected business failure. The frontend
// contract delivers these success-flagged with HTTP 200, so clients branch
// on the payload, never on the status code.
func writeFlowError(w http.ResponseWriter, fe *domain.FlowError) {
	writeJSON(w, http.StatusOK, Envelope{Success: false, Error: fe.Code, Message: fe.Message})
}

// httpError maps an error to a response: FlowErrors become success:false
// payloads, sentinel domain errors become the matching status code, and
// everything else is a 500.
func httpError(w http.ResponseWriter, err error) {
	if fe, ok := domain.AsFlowError(err); ok {
		writeFlowError(w, fe)
		return
	}
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
