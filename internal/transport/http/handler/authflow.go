package handler

import (
	"encoding/json"
	"net/http"

	"github.com/loginus-id/api/internal/application/authflow"
	"github.com/loginus-id/api/internal/domain"
	"github.com/loginus-id/api/internal/pkg/validate"
)

// AuthFlowHandler serves the public auth-flow config and the admin CRUD
// over it.
type AuthFlowHandler struct {
	svc authflow.Service
}

func NewAuthFlowHandler(svc authflow.Service) *AuthFlowHandler {
	return &AuthFlowHandler{svc: svc}
}

// GetPublic serves the configuration consumed by the login screen.
func (h *AuthFlowHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Get(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (h *AuthFlowHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Get(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (h *AuthFlowHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAuthFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	cfg, err := h.svc.Update(r.Context(), req.Methods)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

// AdminTest validates and partitions a proposed method list without
// persisting it, so the admin UI can preview an update.
func (h *AuthFlowHandler) AdminTest(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAuthFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	cfg, err := h.svc.Test(req.Methods)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}
