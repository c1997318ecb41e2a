package handler

import (
	"encoding/json"
	"net/http"

	"github.com/loginus-id/api/internal/application/webauthn"
	"github.com/loginus-id/api/internal/domain"
	"github.com/loginus-id/api/internal/pkg/validate"
)

// WebAuthnHandler handles the stubbed WebAuthn challenge endpoints.
type WebAuthnHandler struct {
	svc webauthn.Service
}

func NewWebAuthnHandler(svc webauthn.Service) *WebAuthnHandler {
	return &WebAuthnHandler{svc: svc}
}

func (h *WebAuthnHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req domain.WebAuthnBeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.svc.Begin(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *WebAuthnHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req domain.WebAuthnFinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.svc.Finish(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}
